package ports

import (
	"context"

	"github.com/aretw0/musicbox-realtime/pkg/domain"
)

// SessionStore persists presence records for open client connections.
type SessionStore interface {
	// Save records (or refreshes) a session.
	Save(ctx context.Context, session domain.ClientSession) error

	// Load retrieves a session by ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, id string) (*domain.ClientSession, error)

	// Delete removes a session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the sessions currently recorded.
	List(ctx context.Context) ([]domain.ClientSession, error)
}
