// Package signals turns process termination signals into context cancellation.
package signals

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Manager owns a context that is canceled on SIGINT or SIGTERM.
type Manager struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager creates a new manager and immediately starts listening for signals.
func NewManager(parent context.Context) *Manager {
	return NewManagerFor(parent, os.Interrupt, syscall.SIGTERM)
}

// NewManagerFor listens for the given signals only.
func NewManagerFor(parent context.Context, sigs ...os.Signal) *Manager {
	sm := &Manager{}
	sm.ctx, sm.cancel = signal.NotifyContext(parent, sigs...)
	return sm
}

// Context returns the signal context.
func (sm *Manager) Context() context.Context {
	return sm.ctx
}

// Stop releases the signal listener. Subsequent signals use default behavior.
func (sm *Manager) Stop() {
	if sm.cancel != nil {
		sm.cancel()
	}
}
