package service

import (
	"context"
	"errors"

	"github.com/elanurleylek/robosphere-sub000/internal/lib/ai"
	"github.com/elanurleylek/robosphere-sub000/internal/lib/cache"
	"github.com/elanurleylek/robosphere-sub000/internal/lib/job"
	"github.com/elanurleylek/robosphere-sub000/internal/repository"
	"github.com/elanurleylek/robosphere-sub000/internal/server"
	"github.com/redis/go-redis/v9"
)

type Services struct {
	Auth     *AuthService
	Users    *UserService
	Courses  *CourseService
	Projects *ProjectService
	Posts    *PostService
	Reviews  *ReviewService
	Uploads  *UploadService
	Chat     *ChatService
	Job      *job.JobService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	cfg := s.Config

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient = s.Redis
	}
	lists := listCache{
		cache: cache.New(redisClient, cache.Config{DefaultTTL: cfg.Cache.TTL, Prefix: "cache:"}),
		ttl:   cfg.Cache.TTL,
	}

	var generator ai.Generator
	gemini, err := ai.NewGemini(context.Background(), cfg.Integration.GeminiAPIKey, cfg.Integration.GeminiModel)
	switch {
	case errors.Is(err, ai.ErrUnavailable):
		s.Logger.Warn().Msg("no Gemini API key configured, chat assistant disabled")
	case err != nil:
		return nil, err
	default:
		generator = gemini
	}

	tokens := NewTokenService(cfg.Auth.SecretKey, cfg.Auth.TokenTTL, cfg.Auth.Issuer)

	var welcome WelcomeEnqueuer
	if s.Job != nil {
		welcome = s.Job
	}

	return &Services{
		Auth:     NewAuthService(repos.Users, tokens, welcome),
		Users:    NewUserService(repos.Users),
		Courses:  NewCourseService(repos.Courses, lists),
		Projects: NewProjectService(repos.Projects, lists),
		Posts:    NewPostService(repos.Posts, lists),
		Reviews:  NewReviewService(repos.Reviews, repos.Courses, lists),
		Uploads:  NewUploadService(s.Storage),
		Chat:     NewChatService(generator, repos.Conversations),
		Job:      s.Job,
	}, nil
}
