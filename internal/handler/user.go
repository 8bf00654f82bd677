package handler

import (
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/elanurleylek/robosphere-sub000/internal/server"
	"github.com/elanurleylek/robosphere-sub000/internal/service"
	"github.com/labstack/echo/v4"
)

// UserHandler serves the admin user management endpoints.
type UserHandler struct {
	Handler
	users *service.UserService
}

func NewUserHandler(s *server.Server, users *service.UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		users:   users,
	}
}

func (h *UserHandler) List(c echo.Context, q *model.ListUsersQuery) (*model.Paginated[model.User], error) {
	return h.users.List(c.Request().Context(), q)
}

func (h *UserHandler) UpdateRole(c echo.Context, req *model.UpdateRoleRequest) (*model.User, error) {
	return h.users.UpdateRole(c.Request().Context(), actor(c), req)
}
