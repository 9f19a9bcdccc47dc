package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventConnect     EventType = "connect"
	EventMessage     EventType = "message"
	EventDecodeError EventType = "decode_error"
	EventDisconnect  EventType = "disconnect"
)

// ConnectionEvent is emitted by the echo responder for a single connection.
type ConnectionEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	Type       EventType `json:"type"`
	ClientID   string    `json:"client_id"`
	RemoteAddr string    `json:"remote_addr"`
	Size       int       `json:"size,omitempty"`
	Err        error     `json:"-"`
}

// ConnectionHooks defines callbacks for echo service observability.
// Hooks never change what is sent to the client.
type ConnectionHooks struct {
	OnConnect     func(context.Context, *ConnectionEvent)
	OnMessage     func(context.Context, *ConnectionEvent)
	OnDecodeError func(context.Context, *ConnectionEvent)
	OnDisconnect  func(context.Context, *ConnectionEvent)
}

// Merge returns hooks that call h first and then other.
func (h ConnectionHooks) Merge(other ConnectionHooks) ConnectionHooks {
	return ConnectionHooks{
		OnConnect:     chain(h.OnConnect, other.OnConnect),
		OnMessage:     chain(h.OnMessage, other.OnMessage),
		OnDecodeError: chain(h.OnDecodeError, other.OnDecodeError),
		OnDisconnect:  chain(h.OnDisconnect, other.OnDisconnect),
	}
}

func chain(a, b func(context.Context, *ConnectionEvent)) func(context.Context, *ConnectionEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *ConnectionEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
