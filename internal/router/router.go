// Package router builds the Echo instance: global middleware, the system
// routes and the /api route groups.
package router

import (
	"net/http"

	"github.com/elanurleylek/robosphere-sub000/internal/handler"
	"github.com/elanurleylek/robosphere-sub000/internal/middleware"
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/elanurleylek/robosphere-sub000/internal/server"
	"github.com/elanurleylek/robosphere-sub000/internal/service"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

func NewRouter(s *server.Server, h *handler.Handlers, services *service.Services) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s, services.Auth)

	router := echo.New()
	router.HideBanner = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Pre(echoMiddleware.RemoveTrailingSlash())

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h, s)

	api := router.Group("/api")
	registerAPIRoutes(api, h, middlewares)

	return router
}

func registerAPIRoutes(api *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	protect := m.Auth.Protect
	optional := m.Auth.OptionalAuth
	authors := m.Auth.RequireRole(model.RoleInstructor, model.RoleAdmin)
	admins := m.Auth.RequireRole(model.RoleAdmin)

	auth := api.Group("/auth")
	auth.POST("/register", handler.Handle(h.Auth.Handler, h.Auth.Register, http.StatusCreated), m.RateLimit.Limit(middleware.RateLimitBucketAuth))
	auth.POST("/login", handler.Handle(h.Auth.Handler, h.Auth.Login, http.StatusOK), m.RateLimit.Limit(middleware.RateLimitBucketAuth))
	auth.GET("/me", handler.Handle(h.Auth.Handler, h.Auth.Me, http.StatusOK), protect)
	auth.PUT("/me", handler.Handle(h.Auth.Handler, h.Auth.UpdateMe, http.StatusOK), protect)

	users := api.Group("/users", protect, admins)
	users.GET("", handler.Handle(h.Users.Handler, h.Users.List, http.StatusOK))
	users.PUT("/:id/role", handler.Handle(h.Users.Handler, h.Users.UpdateRole, http.StatusOK))

	courses := api.Group("/courses")
	courses.GET("", handler.Handle(h.Courses.Handler, h.Courses.List, http.StatusOK), optional)
	courses.GET("/:id", handler.Handle(h.Courses.Handler, h.Courses.Get, http.StatusOK), optional)
	courses.POST("", handler.Handle(h.Courses.Handler, h.Courses.Create, http.StatusCreated), protect, authors)
	courses.PUT("/:id", handler.Handle(h.Courses.Handler, h.Courses.Update, http.StatusOK), protect, authors)
	courses.DELETE("/:id", handler.HandleNoContent(h.Courses.Handler, h.Courses.Delete, http.StatusNoContent), protect, authors)

	courses.GET("/:id/reviews", handler.Handle(h.Reviews.Handler, h.Reviews.List, http.StatusOK), optional)
	courses.POST("/:id/reviews", handler.Handle(h.Reviews.Handler, h.Reviews.Create, http.StatusCreated), protect)

	reviews := api.Group("/reviews", protect)
	reviews.PUT("/:id", handler.Handle(h.Reviews.Handler, h.Reviews.Update, http.StatusOK))
	reviews.DELETE("/:id", handler.HandleNoContent(h.Reviews.Handler, h.Reviews.Delete, http.StatusNoContent))

	projects := api.Group("/projects")
	projects.GET("", handler.Handle(h.Projects.Handler, h.Projects.List, http.StatusOK))
	projects.GET("/:id", handler.Handle(h.Projects.Handler, h.Projects.Get, http.StatusOK))
	projects.POST("", handler.Handle(h.Projects.Handler, h.Projects.Create, http.StatusCreated), protect)
	projects.PUT("/:id", handler.Handle(h.Projects.Handler, h.Projects.Update, http.StatusOK), protect)
	projects.DELETE("/:id", handler.HandleNoContent(h.Projects.Handler, h.Projects.Delete, http.StatusNoContent), protect)

	posts := api.Group("/posts")
	posts.GET("", handler.Handle(h.Posts.Handler, h.Posts.List, http.StatusOK), optional)
	posts.GET("/:id", handler.Handle(h.Posts.Handler, h.Posts.Get, http.StatusOK), optional)
	posts.POST("", handler.Handle(h.Posts.Handler, h.Posts.Create, http.StatusCreated), protect, authors)
	posts.PUT("/:id", handler.Handle(h.Posts.Handler, h.Posts.Update, http.StatusOK), protect, authors)
	posts.DELETE("/:id", handler.HandleNoContent(h.Posts.Handler, h.Posts.Delete, http.StatusNoContent), protect, authors)

	uploads := api.Group("/uploads", protect)
	uploads.POST("", handler.Handle(h.Uploads.Handler, h.Uploads.Upload, http.StatusCreated), m.Global.BodyLimit())
	uploads.DELETE("/*", handler.HandleNoContent(h.Uploads.Handler, h.Uploads.Delete, http.StatusNoContent), admins)

	chat := api.Group("/chat")
	chat.POST("", handler.Handle(h.Chat.Handler, h.Chat.Chat, http.StatusOK), optional, m.RateLimit.Limit(middleware.RateLimitBucketChat))

	conversations := chat.Group("/conversations", protect)
	conversations.GET("", handler.Handle(h.Chat.Handler, h.Chat.ListConversations, http.StatusOK))
	conversations.GET("/:id", handler.Handle(h.Chat.Handler, h.Chat.GetConversation, http.StatusOK))
	conversations.GET("/:id/export", handler.HandleFile(h.Chat.Handler, h.Chat.ExportConversation, http.StatusOK, handler.TranscriptFilename, handler.TranscriptContentType))
	conversations.DELETE("/:id", handler.HandleNoContent(h.Chat.Handler, h.Chat.DeleteConversation, http.StatusNoContent))
}
