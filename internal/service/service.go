// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives
// validated requests from the handlers together with the calling
// model.Actor, enforces ownership and visibility rules, and calls the
// repositories through the narrow interfaces declared here.
package service

import (
	"context"
	"time"

	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, u *model.User) (*model.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.User, error)
	List(ctx context.Context, q model.ListUsersQuery) ([]model.User, int, error)
}

type CourseRepository interface {
	Create(ctx context.Context, c *model.Course) (*model.Course, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error)
	GetBySlug(ctx context.Context, slug string) (*model.Course, error)
	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	Update(ctx context.Context, c *model.Course) (*model.Course, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f model.CourseFilter) ([]model.Course, int, error)
}

type ProjectRepository interface {
	Create(ctx context.Context, p *model.Project) (*model.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	Update(ctx context.Context, p *model.Project) (*model.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f model.ProjectFilter) ([]model.Project, int, error)
}

type PostRepository interface {
	Create(ctx context.Context, p *model.Post) (*model.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)
	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	Update(ctx context.Context, p *model.Post) (*model.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f model.PostFilter) ([]model.Post, int, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, r *model.Review) (*model.Review, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	Update(ctx context.Context, r *model.Review) (*model.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByCourse(ctx context.Context, courseID uuid.UUID, q model.ListQuery) ([]model.Review, int, error)
	Summary(ctx context.Context, courseID uuid.UUID) (model.RatingSummary, error)
}

type ConversationRepository interface {
	Create(ctx context.Context, c *model.Conversation) (*model.Conversation, error)
	Get(ctx context.Context, id primitive.ObjectID, userID string) (*model.Conversation, error)
	Append(ctx context.Context, id primitive.ObjectID, userID string, at time.Time, msgs ...model.ChatMessage) error
	List(ctx context.Context, userID string, q model.ListQuery) ([]model.ConversationSummary, int, error)
	Delete(ctx context.Context, id primitive.ObjectID, userID string) error
}

// parseID parses a UUID that already passed request validation.
func parseID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}

// parseOptionalID returns nil for an empty string.
func parseOptionalID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id := parseID(s)
	return &id
}
