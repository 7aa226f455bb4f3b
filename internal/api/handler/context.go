package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/factoryhq/console/internal/core/domain"
	"github.com/factoryhq/console/internal/core/ports"
)

// routeFactory resolves the factory a tenant route refers to. Tenant-scoped
// principals always act on their own factory (the guard already matched the
// path code against it). Superadmins carry no factory, so the code segment
// is resolved against the platform's tenant list.
func routeFactory(c echo.Context, backend ports.Backend, sess *domain.Session) (*domain.Factory, error) {
	if sess.Factory != nil {
		return sess.Factory, nil
	}

	code := c.Param("code")
	factories, err := backend.ListFactories(c.Request().Context(), sess.Token)
	if err != nil {
		return nil, err
	}
	for i := range factories {
		if factories[i].CodeMatches(code) {
			return &factories[i], nil
		}
	}
	return nil, domain.ErrFactoryNotFound
}
