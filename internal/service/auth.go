package service

import (
	"context"

	"github.com/elanurleylek/robosphere-sub000/internal/errs"
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/elanurleylek/robosphere-sub000/internal/sqlerr"
	"github.com/rs/zerolog"
)

const invalidCredentials = "Invalid email or password"

// WelcomeEnqueuer schedules the welcome email sent after registration.
type WelcomeEnqueuer interface {
	EnqueueWelcomeEmail(ctx context.Context, to, name string) error
}

// AuthService registers users, exchanges credentials for tokens and
// resolves tokens back to the calling user.
type AuthService struct {
	users   UserRepository
	tokens  *TokenService
	welcome WelcomeEnqueuer
}

func NewAuthService(users UserRepository, tokens *TokenService, welcome WelcomeEnqueuer) *AuthService {
	return &AuthService{
		users:   users,
		tokens:  tokens,
		welcome: welcome,
	}
}

func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	logger := zerolog.Ctx(ctx)

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, errs.NewBadRequestError("A user with this email already exists", true, errs.Code("USER_ALREADY_EXISTS"), nil, nil)
	} else if !sqlerr.IsNotFound(err) {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, errs.NewBadRequestError(err.Error(), true, nil, []errs.FieldError{{Field: "password", Error: "is too long"}}, nil)
	}

	user, err := s.users.Create(ctx, &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RoleStudent,
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Str("user_id", user.ID.String()).Msg("user registered")

	if s.welcome != nil {
		if err := s.welcome.EnqueueWelcomeEmail(ctx, user.Email, user.Name); err != nil {
			logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to enqueue welcome email")
		}
	}

	return s.respond(user)
}

func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if sqlerr.IsNotFound(err) {
			return nil, errs.NewUnauthorizedError(invalidCredentials, true)
		}
		return nil, err
	}

	if !checkPassword(req.Password, user.PasswordHash) {
		zerolog.Ctx(ctx).Warn().Str("user_id", user.ID.String()).Msg("failed login attempt")
		return nil, errs.NewUnauthorizedError(invalidCredentials, true)
	}

	return s.respond(user)
}

func (s *AuthService) respond(user *model.User) (*model.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{Token: token, ExpiresAt: expiresAt.Unix(), User: user}, nil
}

// Authenticate verifies a bearer token and loads the caller. The role comes
// from the database so role changes apply to tokens already issued.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.Actor, error) {
	id, _, err := s.tokens.Verify(token)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("token rejected")
		return nil, errs.NewUnauthorizedError("Invalid or expired token", true)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if sqlerr.IsNotFound(err) {
			return nil, errs.NewUnauthorizedError("User no longer exists", true)
		}
		return nil, err
	}

	return &model.Actor{ID: user.ID, Role: user.Role, Email: user.Email}, nil
}

func (s *AuthService) Me(ctx context.Context, actor *model.Actor) (*model.User, error) {
	return s.users.GetByID(ctx, actor.ID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, actor *model.Actor, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.Password != nil {
		if !checkPassword(req.CurrentPassword, user.PasswordHash) {
			return nil, errs.NewBadRequestError("Current password is incorrect", true, errs.Code("INVALID_CURRENT_PASSWORD"),
				[]errs.FieldError{{Field: "current_password", Error: "is incorrect"}}, nil)
		}
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, errs.NewBadRequestError(err.Error(), true, nil, []errs.FieldError{{Field: "password", Error: "is too long"}}, nil)
		}
		user.PasswordHash = hash
	}

	return s.users.Update(ctx, user)
}
