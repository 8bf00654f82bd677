package handler

import (
	"github.com/elanurleylek/robosphere-sub000/internal/server"
	"github.com/elanurleylek/robosphere-sub000/internal/service"
)

type Handlers struct {
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
	Auth     *AuthHandler
	Users    *UserHandler
	Courses  *CourseHandler
	Projects *ProjectHandler
	Posts    *PostHandler
	Reviews  *ReviewHandler
	Uploads  *UploadHandler
	Chat     *ChatHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
		Auth:     NewAuthHandler(s, services.Auth),
		Users:    NewUserHandler(s, services.Users),
		Courses:  NewCourseHandler(s, services.Courses),
		Projects: NewProjectHandler(s, services.Projects),
		Posts:    NewPostHandler(s, services.Posts),
		Reviews:  NewReviewHandler(s, services.Reviews),
		Uploads:  NewUploadHandler(s, services.Uploads),
		Chat:     NewChatHandler(s, services.Chat),
	}
}
