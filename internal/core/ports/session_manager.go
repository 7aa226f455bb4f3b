package ports

import (
	"context"

	"github.com/factoryhq/console/internal/core/domain"
)

// SessionManager owns the login/logout lifecycle and the fail-safe reading
// of persisted sessions.
//
// Resolve and Logout never fail from the caller's point of view: storage
// trouble resolves as "no session" and logout always succeeds locally.
type SessionManager interface {
	// Initialize verifies the store is reachable. It never fails the
	// process; afterwards Ready reports true.
	Initialize(ctx context.Context)

	// Ready reports whether Initialize has completed.
	Ready() bool

	// Resolve loads the session for id. Missing, unreadable, or corrupt
	// records resolve to nil; corrupt records are additionally deleted.
	Resolve(ctx context.Context, id string) *domain.Session

	// Login authenticates against the platform and persists the resulting
	// session under a fresh id. clientKey identifies the submitting client
	// so that a stale response from a superseded attempt is discarded
	// instead of applied.
	Login(ctx context.Context, clientKey, email, password string) (string, *domain.Session, error)

	// Logout deletes the session unconditionally (no platform call) and
	// invalidates any login still in flight for clientKey.
	Logout(ctx context.Context, id, clientKey string)
}
