// Package store provides session persistence behind a small repository
// interface. The core only needs load-by-id and save semantics.
package store

import (
	"context"
	"errors"

	"github.com/guardline/vishsim/internal/model/simulation"
)

var ErrSessionNotFound = errors.New("session not found")

// Repository persists simulation sessions.
type Repository interface {
	// Load retrieves a session by identifier, ErrSessionNotFound when absent.
	Load(ctx context.Context, sessionID string) (*simulation.Session, error)

	// Save upserts a session and everything it owns.
	Save(ctx context.Context, session *simulation.Session) error

	// Close releases any underlying resources.
	Close() error
}
