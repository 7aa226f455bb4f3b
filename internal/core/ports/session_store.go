package ports

import (
	"context"

	"github.com/factoryhq/console/internal/core/domain"
)

// SessionStore persists sessions keyed by an opaque session id.
//
// Load returns domain.ErrSessionNotFound when no record exists and wraps
// domain.ErrSessionCorrupt when the stored bytes fail to parse; callers are
// expected to delete corrupt records and carry on as logged out.
type SessionStore interface {
	Save(ctx context.Context, id string, session *domain.Session) error
	Load(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
