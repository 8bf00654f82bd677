package service

import (
	"context"

	"github.com/elanurleylek/robosphere-sub000/internal/errs"
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/rs/zerolog"
)

// UserService holds the admin operations on accounts.
type UserService struct {
	users UserRepository
}

func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context, q *model.ListUsersQuery) (*model.Paginated[model.User], error) {
	query := *q
	query.Normalize()

	users, total, err := s.users.List(ctx, query)
	if err != nil {
		return nil, err
	}
	return model.NewPaginated(users, query.ListQuery, total), nil
}

func (s *UserService) UpdateRole(ctx context.Context, actor *model.Actor, req *model.UpdateRoleRequest) (*model.User, error) {
	id := parseID(req.ID)
	if actor.Owns(id) && req.Role != actor.Role {
		return nil, errs.NewBadRequestError("You cannot change your own role", true, errs.Code("CANNOT_CHANGE_OWN_ROLE"), nil, nil)
	}

	user, err := s.users.UpdateRole(ctx, id, req.Role)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("target_user_id", user.ID.String()).
		Str("role", string(user.Role)).
		Msg("user role changed")

	return user, nil
}
