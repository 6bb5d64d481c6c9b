// Package store provides session persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/finbotics/loanflow/internal/domain"
)

// SessionStore is the keyed store for conversation sessions. It is
// injected into the orchestrator so the in-memory default can be swapped
// for a durable backend without touching orchestration logic.
//
// Implementations must be safe for concurrent use across sessions; the
// orchestrator serializes turns per session id on top of this.
type SessionStore interface {
	// Get retrieves a session by id. Returns domain.ErrSessionNotFound
	// if no such session exists.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Put creates or replaces a session.
	Put(ctx context.Context, s *domain.Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}
