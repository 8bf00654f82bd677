package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/elanurleylek/robosphere-sub000/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_UpdateRole(t *testing.T) {
	ctx := context.Background()
	admin := actor(model.RoleAdmin)
	student := &model.User{Base: model.Base{ID: uuid.New()}, Name: "Ada", Email: "ada@robosphere.test", Role: model.RoleStudent}
	users := newFakeUsers(student, &model.User{Base: model.Base{ID: admin.ID}, Email: admin.Email, Role: model.RoleAdmin})
	svc := NewUserService(users)

	got, err := svc.UpdateRole(ctx, admin, &model.UpdateRoleRequest{ID: student.ID.String(), Role: model.RoleInstructor})
	require.NoError(t, err)
	assert.Equal(t, model.RoleInstructor, got.Role)

	stored, err := users.GetByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleInstructor, stored.Role)
}

func TestUserService_CannotChangeOwnRole(t *testing.T) {
	ctx := context.Background()
	admin := actor(model.RoleAdmin)
	users := newFakeUsers(&model.User{Base: model.Base{ID: admin.ID}, Email: admin.Email, Role: model.RoleAdmin})
	svc := NewUserService(users)

	_, err := svc.UpdateRole(ctx, admin, &model.UpdateRoleRequest{ID: admin.ID.String(), Role: model.RoleStudent})
	requireHTTPError(t, err, http.StatusBadRequest, "CANNOT_CHANGE_OWN_ROLE")

	stored, err := users.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, stored.Role)
}

func TestUserService_UpdateRoleUnknownUser(t *testing.T) {
	svc := NewUserService(newFakeUsers())
	_, err := svc.UpdateRole(context.Background(), actor(model.RoleAdmin), &model.UpdateRoleRequest{ID: uuid.NewString(), Role: model.RoleInstructor})
	assert.True(t, sqlerr.IsNotFound(err))
}

func TestUserService_ListFiltersByRole(t *testing.T) {
	svc := NewUserService(newFakeUsers(
		&model.User{Base: model.Base{ID: uuid.New()}, Email: "a@robosphere.test", Role: model.RoleStudent},
		&model.User{Base: model.Base{ID: uuid.New()}, Email: "b@robosphere.test", Role: model.RoleInstructor},
	))

	page, err := svc.List(context.Background(), &model.ListUsersQuery{Role: model.RoleInstructor})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "b@robosphere.test", page.Items[0].Email)
}
