package middleware

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/factoryhq/console/internal/core/domain"
	"github.com/factoryhq/console/internal/core/ports"
)

const (
	// SessionCookie carries a signed token wrapping the session id.
	SessionCookie = "console_session"
	// ClientCookie is a stable per-browser key used to serialise login
	// attempts from the same client.
	ClientCookie = "console_client"

	ctxSession   = "session"
	ctxSessionID = "session_id"
)

// NewSessionCookie mints the HTTP-only session cookie: an HS256 token whose
// only claim of interest is the session id. The cookie proves nothing by
// itself; the session record behind the id does.
func NewSessionCookie(sid, secret string, ttl time.Duration) (*http.Cookie, error) {
	claims := jwt.MapClaims{
		"sid": sid,
		"exp": time.Now().Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// ClearedSessionCookie expires the session cookie immediately.
func ClearedSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ParseSessionID extracts the session id from a cookie value, rejecting
// anything not signed with secret.
func ParseSessionID(value, secret string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return "", jwt.ErrTokenSignatureInvalid
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return sid, nil
}

// Session resolves the caller's session from the signed cookie and injects
// it into the request context. A missing, forged, or expired cookie simply
// means no session; the guard decides what that implies for the route.
func Session(manager ports.SessionManager, secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			sid, err := ParseSessionID(cookie.Value, secret)
			if err != nil {
				return next(c)
			}
			c.Set(ctxSessionID, sid)

			if sess := manager.Resolve(c.Request().Context(), sid); sess != nil {
				c.Set(ctxSession, sess)
			}
			return next(c)
		}
	}
}

// SessionFrom returns the resolved session, or nil when unauthenticated.
func SessionFrom(c echo.Context) *domain.Session {
	sess, _ := c.Get(ctxSession).(*domain.Session)
	return sess
}

// SessionIDFrom returns the session id carried by the cookie, if any.
func SessionIDFrom(c echo.Context) string {
	sid, _ := c.Get(ctxSessionID).(string)
	return sid
}

// EnsureClientKey returns the caller's client key, minting and setting the
// cookie on first contact.
func EnsureClientKey(c echo.Context) string {
	if cookie, err := c.Cookie(ClientCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	key := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     ClientCookie,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return key
}
