package checkout

import (
	"context"

	"github.com/google/uuid"
	"github.com/kontrollapro/backend/internal/domain/shared"
)

// ErrSessionNotFound signals an unknown or expired session
var ErrSessionNotFound = shared.NewDomainError("SESSION_NOT_FOUND", "Checkout session not found or expired")

// SessionStore persists checkout sessions between requests. Implementations
// return ErrSessionNotFound when the session does not exist or its TTL
// elapsed.
type SessionStore interface {
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id uuid.UUID) error
}
