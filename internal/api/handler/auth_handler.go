package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/factoryhq/console/internal/api/middleware"
	"github.com/factoryhq/console/internal/core/ports"
)

// AuthHandler owns the sign-in/sign-out surface and the signed session cookie.
type AuthHandler struct {
	manager      ports.SessionManager
	cookieSecret string
	sessionTTL   time.Duration
}

func NewAuthHandler(manager ports.SessionManager, cookieSecret string, sessionTTL time.Duration) *AuthHandler {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthHandler{manager: manager, cookieSecret: cookieSecret, sessionTTL: sessionTTL}
}

// Login authenticates against the platform and establishes a session.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	clientKey := middleware.EnsureClientKey(c)
	sid, sess, err := h.manager.Login(c.Request().Context(), clientKey, req.Email, req.Password)
	if err != nil {
		return err
	}

	cookie, err := middleware.NewSessionCookie(sid, h.cookieSecret, h.sessionTTL)
	if err != nil {
		return err
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, sessionResponse{User: &sess.User, Factory: sess.Factory})
}

// Logout clears the session. It succeeds whether or not a session existed.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  statusResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	sid := middleware.SessionIDFrom(c)
	clientKey := middleware.EnsureClientKey(c)
	h.manager.Logout(c.Request().Context(), sid, clientKey)
	c.SetCookie(middleware.ClearedSessionCookie())
	return c.JSON(http.StatusOK, statusResponse{Status: "logged out"})
}

// Current returns the authenticated principal and factory, or 401.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /session [get]
func (h *AuthHandler) Current(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return c.JSON(http.StatusOK, sessionResponse{User: &sess.User, Factory: sess.Factory})
}
