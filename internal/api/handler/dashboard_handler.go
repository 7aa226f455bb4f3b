package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/factoryhq/console/internal/api/middleware"
	"github.com/factoryhq/console/internal/core/domain"
	"github.com/factoryhq/console/internal/core/ports"
)

// DashboardHandler serves the role-specific views. All routes behind it are
// guarded, so a session is guaranteed to be present.
type DashboardHandler struct {
	backend ports.Backend
}

func NewDashboardHandler(backend ports.Backend) *DashboardHandler {
	return &DashboardHandler{backend: backend}
}

// Home sends each principal to the view for their role.
//
// @Summary      Role-based dashboard entry point
// @Tags         dashboards
// @Success      303
// @Router       /dashboard [get]
func (h *DashboardHandler) Home(c echo.Context) error {
	sess := middleware.SessionFrom(c)

	if sess.User.Role == domain.RoleSuperadmin {
		return c.Redirect(http.StatusSeeOther, "/superadmin")
	}
	if sess.Factory == nil {
		return c.Redirect(http.StatusSeeOther, "/unauthorized")
	}
	code := strings.ToLower(domain.NormalizeCode(sess.Factory.Code))
	return c.Redirect(http.StatusSeeOther, "/factory/"+code+"/"+string(sess.User.Role))
}

// Superadmin renders the platform-wide factory overview.
//
// @Summary      Superadmin dashboard
// @Tags         dashboards
// @Produce      json
// @Success      200  {object}  factoriesOverview
// @Router       /superadmin [get]
func (h *DashboardHandler) Superadmin(c echo.Context) error {
	sess := middleware.SessionFrom(c)

	factories, err := h.backend.ListFactories(c.Request().Context(), sess.Token)
	if err != nil {
		return err
	}

	overview := factoriesOverview{Total: len(factories), Factories: factories}
	for _, f := range factories {
		switch f.Status {
		case domain.FactoryInactive:
			overview.Inactive++
		default:
			overview.Active++
		}
	}
	return c.JSON(http.StatusOK, overview)
}

// Admin renders the factory admin view: everyone in the factory plus
// per-role headcounts.
//
// @Summary      Factory admin dashboard
// @Tags         dashboards
// @Produce      json
// @Param        code  path      string  true  "Factory code"
// @Success      200   {object}  adminDashboard
// @Router       /factory/{code}/admin [get]
func (h *DashboardHandler) Admin(c echo.Context) error {
	sess := middleware.SessionFrom(c)

	factory, err := routeFactory(c, h.backend, sess)
	if err != nil {
		return err
	}

	users, err := h.backend.ListFactoryUsers(c.Request().Context(), sess.Token, factory.ID)
	if err != nil {
		return err
	}

	counts := make(map[domain.Role]int)
	for _, u := range users {
		counts[u.Role]++
	}
	return c.JSON(http.StatusOK, adminDashboard{Factory: factory, RoleCounts: counts, Users: users})
}

// Supervisor renders the supervisor view: the factory's employee team.
//
// @Summary      Supervisor dashboard
// @Tags         dashboards
// @Produce      json
// @Param        code  path      string  true  "Factory code"
// @Success      200   {object}  supervisorDashboard
// @Router       /factory/{code}/supervisor [get]
func (h *DashboardHandler) Supervisor(c echo.Context) error {
	sess := middleware.SessionFrom(c)

	factory, err := routeFactory(c, h.backend, sess)
	if err != nil {
		return err
	}

	users, err := h.backend.ListFactoryUsers(c.Request().Context(), sess.Token, factory.ID)
	if err != nil {
		return err
	}

	team := make([]domain.User, 0, len(users))
	for _, u := range users {
		if u.Role == domain.RoleEmployee {
			team = append(team, u)
		}
	}
	return c.JSON(http.StatusOK, supervisorDashboard{Factory: factory, Team: team})
}

// Employee renders the principal's own profile.
//
// @Summary      Employee dashboard
// @Tags         dashboards
// @Produce      json
// @Param        code  path      string  true  "Factory code"
// @Success      200   {object}  employeeDashboard
// @Router       /factory/{code}/employee [get]
func (h *DashboardHandler) Employee(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	return c.JSON(http.StatusOK, employeeDashboard{User: &sess.User, Factory: sess.Factory})
}
