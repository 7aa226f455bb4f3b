package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/factoryhq/console/internal/api/middleware"
	"github.com/factoryhq/console/internal/core/domain"
	"github.com/factoryhq/console/internal/core/ports"
)

// FactoryHandler proxies superadmin factory management to the platform.
type FactoryHandler struct {
	backend ports.Backend
}

func NewFactoryHandler(backend ports.Backend) *FactoryHandler {
	return &FactoryHandler{backend: backend}
}

// Create provisions a new factory together with its owning admin account.
//
// @Summary      Create a factory
// @Tags         factories
// @Accept       json
// @Produce      json
// @Param        body  body      createFactoryRequest  true  "Factory and owning admin"
// @Success      201   {object}  domain.Factory
// @Failure      400   {object}  errorResponse
// @Router       /superadmin/factories [post]
func (h *FactoryHandler) Create(c echo.Context) error {
	var req createFactoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess := middleware.SessionFrom(c)
	factory, err := h.backend.CreateFactory(c.Request().Context(), sess.Token, ports.CreateFactoryInput{
		Name:          req.Name,
		Code:          domain.NormalizeCode(req.Code),
		AdminEmail:    req.AdminEmail,
		AdminPassword: req.AdminPassword,
		AdminName:     req.AdminName,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, factory)
}
