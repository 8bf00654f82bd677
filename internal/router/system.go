package router

import (
	"github.com/elanurleylek/robosphere-sub000/internal/handler"
	"github.com/elanurleylek/robosphere-sub000/internal/server"
	"github.com/elanurleylek/robosphere-sub000/static"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes mounts health, docs and file serving outside /api.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers, s *server.Server) {
	r.GET("/status", h.Health.CheckHealth)

	r.StaticFS("/static", static.Files)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)

	if s.Storage != nil {
		r.StaticFS(s.Config.Upload.PublicPath, s.Storage.FS())
	}
}
