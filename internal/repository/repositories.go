package repository

import (
	"github.com/elanurleylek/robosphere-sub000/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Users         *UserRepository
	Courses       *CourseRepository
	Projects      *ProjectRepository
	Posts         *PostRepository
	Reviews       *ReviewRepository
	Conversations *ConversationRepository
}

// NewRepositories builds every repository on top of the server's
// PostgreSQL pool and MongoDB database.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(s.DB.Pool),
		Courses:       NewCourseRepository(s.DB.Pool),
		Projects:      NewProjectRepository(s.DB.Pool),
		Posts:         NewPostRepository(s.DB.Pool),
		Reviews:       NewReviewRepository(s.DB.Pool),
		Conversations: NewConversationRepository(s.Mongo.DB),
	}
}
