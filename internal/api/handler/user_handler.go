package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/factoryhq/console/internal/api/middleware"
	"github.com/factoryhq/console/internal/core/domain"
	"github.com/factoryhq/console/internal/core/ports"
)

// UserHandler proxies factory user management to the platform.
type UserHandler struct {
	backend ports.Backend
}

func NewUserHandler(backend ports.Backend) *UserHandler {
	return &UserHandler{backend: backend}
}

// List returns every user in the route's factory.
//
// @Summary      List factory users
// @Tags         users
// @Produce      json
// @Param        code  path      string  true  "Factory code"
// @Success      200   {array}   domain.User
// @Router       /factory/{code}/users [get]
func (h *UserHandler) List(c echo.Context) error {
	sess := middleware.SessionFrom(c)

	factory, err := routeFactory(c, h.backend, sess)
	if err != nil {
		return err
	}

	users, err := h.backend.ListFactoryUsers(c.Request().Context(), sess.Token, factory.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Create adds a user to the route's factory.
//
// @Summary      Create a factory user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        code  path      string             true  "Factory code"
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Router       /factory/{code}/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess := middleware.SessionFrom(c)
	factory, err := routeFactory(c, h.backend, sess)
	if err != nil {
		return err
	}

	user, err := h.backend.CreateFactoryUser(c.Request().Context(), sess.Token, factory.ID, ports.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Update applies a partial update to a user.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := ports.UpdateUserInput{Email: req.Email, Name: req.Name}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		in.Role = &role
	}

	sess := middleware.SessionFrom(c)
	user, err := h.backend.UpdateUser(c.Request().Context(), sess.Token, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete removes a user.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Param        id  path      string  true  "User id"
// @Success      200  {object}  statusResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	if err := h.backend.DeleteUser(c.Request().Context(), sess.Token, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "deleted"})
}
