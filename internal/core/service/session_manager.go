package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/factoryhq/console/internal/api/metrics"
	"github.com/factoryhq/console/internal/core/domain"
	"github.com/factoryhq/console/internal/core/ports"
)

// messenger is the minimal surface the manager needs from an error to show
// the platform's own words to the user.
type messenger interface{ HumanMessage() string }

// SessionManager implements ports.SessionManager on top of a session store
// and the platform gateway. It is safe for concurrent use.
//
// Login applies the generation-counter rule: every attempt for a client is
// stamped, and a response that resolves after a newer attempt (or a logout)
// for the same client is discarded rather than persisted. Without this, two
// racing logins would end in silent last-write-wins.
type SessionManager struct {
	store    ports.SessionStore
	backend  ports.Backend
	notifier ports.Notifier
	log      zerolog.Logger

	ready atomic.Bool

	mu   sync.Mutex
	gens map[string]uint64
}

var _ ports.SessionManager = (*SessionManager)(nil)

func NewSessionManager(store ports.SessionStore, backend ports.Backend, notifier ports.Notifier, log zerolog.Logger) *SessionManager {
	return &SessionManager{
		store:    store,
		backend:  backend,
		notifier: notifier,
		log:      log,
		gens:     make(map[string]uint64),
	}
}

// Initialize pings the store. Failure is logged and swallowed: a console
// that cannot reach its session store starts logged-out, not dead.
func (m *SessionManager) Initialize(ctx context.Context) {
	if err := m.store.Ping(ctx); err != nil {
		m.log.Warn().Err(err).Msg("session store unreachable; starting without persisted sessions")
	}
	m.ready.Store(true)
}

func (m *SessionManager) Ready() bool {
	return m.ready.Load()
}

// Resolve loads and structurally validates the session for id. Every failure
// path resolves as logged-out: a missing record silently, a store read error
// with a warning, and corrupt data by deleting the whole record so repeated
// calls stay idempotent.
func (m *SessionManager) Resolve(ctx context.Context, id string) *domain.Session {
	if id == "" {
		return nil
	}

	sess, err := m.store.Load(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
		case errors.Is(err, domain.ErrSessionCorrupt):
			m.clearCorrupt(ctx, id, err)
		default:
			m.log.Warn().Err(err).Msg("session store read failed; treating as logged out")
		}
		return nil
	}

	if err := sess.Validate(); err != nil {
		m.clearCorrupt(ctx, id, err)
		return nil
	}
	return sess
}

func (m *SessionManager) clearCorrupt(ctx context.Context, id string, err error) {
	m.log.Warn().Err(err).Msg("discarding corrupt persisted session")
	metrics.SessionsCleared.Inc()
	if delErr := m.store.Delete(ctx, id); delErr != nil {
		m.log.Warn().Err(delErr).Msg("failed to delete corrupt session")
	}
}

// Login authenticates against the platform and persists the result under a
// fresh session id. Concurrent calls for the same clientKey are not
// deduplicated; instead, only the most recently issued attempt may commit.
func (m *SessionManager) Login(ctx context.Context, clientKey, email, password string) (string, *domain.Session, error) {
	m.mu.Lock()
	m.gens[clientKey]++
	gen := m.gens[clientKey]
	m.mu.Unlock()

	res, err := m.backend.Authenticate(ctx, email, password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		m.notifier.Notify(ports.Notification{
			Level:   ports.LevelError,
			Title:   "Login failed",
			Message: loginFailureMessage(err),
		})
		return "", nil, err
	}

	sess := &domain.Session{Token: res.Token, User: res.User, Factory: res.Factory}
	id := uuid.NewString()

	// Commit under the lock so a concurrent newer attempt cannot interleave
	// between the generation check and the store write.
	m.mu.Lock()
	if m.gens[clientKey] != gen {
		m.mu.Unlock()
		metrics.LoginsTotal.WithLabelValues("superseded").Inc()
		m.log.Info().Str("email", email).Msg("discarding login response from superseded attempt")
		return "", nil, domain.ErrLoginSuperseded
	}
	err = m.store.Save(ctx, id, sess)
	m.mu.Unlock()
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		m.notifier.Notify(ports.Notification{
			Level:   ports.LevelError,
			Title:   "Login failed",
			Message: "Could not persist your session, please try again",
		})
		return "", nil, fmt.Errorf("persist session: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	m.notifier.Notify(ports.Notification{
		Level:   ports.LevelSuccess,
		Title:   "Login successful",
		Message: fmt.Sprintf("Welcome back, %s!", res.User.Name),
	})
	return id, sess, nil
}

// Logout clears the persisted session unconditionally; no platform call is
// needed for it to succeed and clearing a non-existent session is a no-op.
// It also bumps the client's generation so a login still in flight cannot
// repopulate a session after the user signed out.
func (m *SessionManager) Logout(ctx context.Context, id, clientKey string) {
	m.mu.Lock()
	m.gens[clientKey]++
	m.mu.Unlock()

	if id != "" {
		if err := m.store.Delete(ctx, id); err != nil {
			m.log.Warn().Err(err).Msg("session delete failed during logout")
		}
	}

	m.notifier.Notify(ports.Notification{
		Level:   ports.LevelInfo,
		Title:   "Logged out",
		Message: "You have been successfully logged out.",
	})
}

// loginFailureMessage prefers the platform's own message when the error
// carries one and falls back to generic advice otherwise.
func loginFailureMessage(err error) string {
	var withMessage messenger
	if errors.As(err, &withMessage) {
		return withMessage.HumanMessage()
	}
	return "Please check your credentials"
}
