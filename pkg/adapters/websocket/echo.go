// Package websocket implements the message echo responder.
//
// Every accepted connection is greeted once and then receives an "echo"
// envelope for each JSON message it sends. Connections share no state; a
// connection that sends something that is not JSON is closed without
// affecting the others.
package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/musicbox-realtime/pkg/domain"
	"github.com/google/uuid"
	ws "nhooyr.io/websocket"
)

// DefaultReadLimit is the largest inbound message accepted, in bytes (100 MiB).
const DefaultReadLimit = 100 << 20

// Handler is the message echo responder. It is safe for concurrent use.
type Handler struct {
	logger    *slog.Logger
	hooks     domain.ConnectionHooks
	readLimit int64
	newID     func() string
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the handler logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithHooks registers connection observability hooks.
func WithHooks(hooks domain.ConnectionHooks) Option {
	return func(h *Handler) {
		h.hooks = hooks
	}
}

// WithReadLimit sets the maximum inbound message size. Non-positive values keep the default.
func WithReadLimit(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.readLimit = n
		}
	}
}

// NewHandler creates an echo responder.
func NewHandler(opts ...Option) *Handler {
	h := &Handler{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		readLimit: DefaultReadLimit,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP upgrades the request and runs the connection until the peer leaves.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.Accept(w, r, &ws.AcceptOptions{
		OriginPatterns:  []string{"*"},
		CompressionMode: ws.CompressionDisabled,
	})
	if err != nil {
		// Accept has already written the HTTP error response.
		h.logger.Warn("websocket: upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(h.readLimit)

	ctx := r.Context()
	id := h.newID()
	logger := h.logger.With("client_id", id, "remote_addr", r.RemoteAddr)

	logger.Info("Client connected")
	h.fire(ctx, h.hooks.OnConnect, &domain.ConnectionEvent{Type: domain.EventConnect, ClientID: id, RemoteAddr: r.RemoteAddr})

	err = h.serve(ctx, conn, id, r.RemoteAddr, logger)
	if err != nil {
		logger.Warn("Client dropped", "error", err)
	}

	logger.Info("Client disconnected")
	h.fire(ctx, h.hooks.OnDisconnect, &domain.ConnectionEvent{Type: domain.EventDisconnect, ClientID: id, RemoteAddr: r.RemoteAddr, Err: err})
}

// serve greets the client and echoes messages until the peer disconnects.
// A nil return means the peer closed the connection normally.
func (h *Handler) serve(ctx context.Context, conn *ws.Conn, id, remote string, logger *slog.Logger) error {
	if err := writeJSON(ctx, conn, domain.NewWelcome()); err != nil {
		return fmt.Errorf("failed to send welcome: %w", err)
	}

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if isPeerClose(err) {
				return nil
			}
			return err
		}

		logger.Info("Received", "payload", string(data))
		h.fire(ctx, h.hooks.OnMessage, &domain.ConnectionEvent{Type: domain.EventMessage, ClientID: id, RemoteAddr: remote, Size: len(data)})

		payload, err := DecodePayload(data)
		if err != nil {
			h.fire(ctx, h.hooks.OnDecodeError, &domain.ConnectionEvent{Type: domain.EventDecodeError, ClientID: id, RemoteAddr: remote, Size: len(data), Err: err})
			conn.Close(ws.StatusInvalidFramePayloadData, domain.ErrInvalidPayload.Error())
			return err
		}

		if err := writeJSON(ctx, conn, domain.NewEcho(payload)); err != nil {
			return fmt.Errorf("failed to send echo: %w", err)
		}
	}
}

func (h *Handler) fire(ctx context.Context, hook func(context.Context, *domain.ConnectionEvent), e *domain.ConnectionEvent) {
	if hook == nil {
		return
	}
	e.Timestamp = time.Now()
	hook(ctx, e)
}

func isPeerClose(err error) bool {
	switch ws.CloseStatus(err) {
	case ws.StatusNormalClosure, ws.StatusGoingAway, ws.StatusNoStatusRcvd:
		return true
	}
	return errors.Is(err, io.EOF)
}

// DecodePayload parses one JSON value. Surrounding whitespace is allowed,
// trailing data is not. Numbers keep their literal form.
func DecodePayload(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON value", domain.ErrInvalidPayload)
	}
	return v, nil
}

// EncodeMessage renders v as compact JSON without HTML escaping or a trailing newline.
func EncodeMessage(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func writeJSON(ctx context.Context, conn *ws.Conn, v any) error {
	b, err := EncodeMessage(v)
	if err != nil {
		return err
	}
	return conn.Write(ctx, ws.MessageText, b)
}
