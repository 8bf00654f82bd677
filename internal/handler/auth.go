package handler

import (
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/elanurleylek/robosphere-sub000/internal/server"
	"github.com/elanurleylek/robosphere-sub000/internal/service"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	Handler
	auth *service.AuthService
}

func NewAuthHandler(s *server.Server, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{
		Handler: NewHandler(s),
		auth:    auth,
	}
}

func (h *AuthHandler) Register(c echo.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	return h.auth.Register(c.Request().Context(), req)
}

func (h *AuthHandler) Login(c echo.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	return h.auth.Login(c.Request().Context(), req)
}

func (h *AuthHandler) Me(c echo.Context, _ *model.EmptyRequest) (*model.User, error) {
	return h.auth.Me(c.Request().Context(), actor(c))
}

func (h *AuthHandler) UpdateMe(c echo.Context, req *model.UpdateProfileRequest) (*model.User, error) {
	return h.auth.UpdateProfile(c.Request().Context(), actor(c), req)
}
