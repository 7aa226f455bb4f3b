package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/factoryhq/console/internal/api/metrics"
	"github.com/factoryhq/console/internal/core/access"
	"github.com/factoryhq/console/internal/core/domain"
	"github.com/factoryhq/console/internal/core/ports"
)

// Guard gates a route behind a minimum role and, optionally, factory scope.
// The decision itself lives in the access package; this middleware only
// translates the verdict into HTTP: 503 while the session layer is still
// initialising, a redirect to sign-in (carrying the requested path) or to
// the unauthorized view, or pass-through.
//
// requiredRole may be empty for routes that only require authentication.
func Guard(manager ports.SessionManager, requiredRole domain.Role, requireTenant bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			in := access.Input{
				Ready:         manager.Ready(),
				RequiredRole:  requiredRole,
				RequireTenant: requireTenant,
				RouteCode:     c.Param("code"),
				RequestedPath: c.Request().URL.Path,
			}
			if sess := SessionFrom(c); sess != nil {
				in.User = &sess.User
				in.Factory = sess.Factory
			}

			decision := access.Decide(in)
			metrics.GuardDecisionsTotal.WithLabelValues(string(decision.Kind)).Inc()

			switch decision.Kind {
			case access.Allow:
				return next(c)
			case access.Wait:
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "starting"})
			case access.SignIn:
				target := "/login"
				if decision.From != "" {
					target += "?from=" + url.QueryEscape(decision.From)
				}
				return c.Redirect(http.StatusSeeOther, target)
			default:
				return c.Redirect(http.StatusSeeOther, "/unauthorized")
			}
		}
	}
}
