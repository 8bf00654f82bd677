// Package server holds the application container: configuration, loggers,
// PostgreSQL, MongoDB, Redis, upload storage, the job worker and the HTTP
// server, together with their startup and shutdown order.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/elanurleylek/robosphere-sub000/internal/config"
	"github.com/elanurleylek/robosphere-sub000/internal/database"
	"github.com/elanurleylek/robosphere-sub000/internal/lib/job"
	"github.com/elanurleylek/robosphere-sub000/internal/lib/storage"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/elanurleylek/robosphere-sub000/internal/logger"
)

type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService
	DB            *database.Database
	Mongo         *database.Mongo
	Redis         *redis.Client
	Storage       *storage.Storage
	Job           *job.JobService
	httpServer    *http.Server
}

// New connects every backing store and starts the job worker.
//
// PostgreSQL and MongoDB are required. Redis is optional: a failed ping is
// logged and caching, rate limiting and jobs degrade on their own.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoDB, err := database.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize mongo: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Address,
	})
	if app := loggerService.GetApplication(); app != nil {
		redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("Failed to connect to Redis, continuing without Redis")
	}

	store, err := storage.NewOsStorage(cfg.Upload)
	if err != nil {
		_ = db.Close()
		_ = mongoDB.Close(context.Background())
		return nil, fmt.Errorf("failed to initialize upload storage: %w", err)
	}

	jobService := job.NewJobService(logger, cfg)
	jobService.InitHandlers(cfg, logger)
	if err := jobService.Start(); err != nil {
		logger.Error().Err(err).Msg("Failed to start job server, background jobs disabled")
		_ = jobService.Client.Close()
		jobService = nil
	}

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Mongo:         mongoDB,
		Redis:         redisClient,
		Storage:       store,
		Job:           jobService,
	}, nil
}

func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start blocks until the HTTP server stops.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown drains HTTP traffic first, then closes PostgreSQL, MongoDB, the
// job worker and finally Redis, which the worker still needs while it
// drains.
func (s *Server) Shutdown(ctx context.Context) error {
	var errList []error

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errList = append(errList, fmt.Errorf("failed to shutdown HTTP server: %w", err))
		}
	}

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			errList = append(errList, fmt.Errorf("failed to close database connection: %w", err))
		}
	}

	if s.Mongo != nil {
		if err := s.Mongo.Close(ctx); err != nil {
			errList = append(errList, fmt.Errorf("failed to close mongo connection: %w", err))
		}
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errList = append(errList, fmt.Errorf("failed to close redis connection: %w", err))
		}
	}

	return errors.Join(errList...)
}
