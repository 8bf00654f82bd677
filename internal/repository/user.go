package repository

import (
	"context"
	"fmt"

	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/elanurleylek/robosphere-sub000/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, email, password_hash, role, avatar_url, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	stmt := `
		INSERT INTO users (name, email, password_hash, role, avatar_url)
		VALUES (@name, @email, @password_hash, @role, @avatar_url)
		RETURNING ` + userColumns

	rows, err := r.pool.Query(ctx, stmt, pgx.NamedArgs{
		"name":          u.Name,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"role":          u.Role,
		"avatar_url":    u.AvatarURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create user query for email=%s: %w", u.Email, err)
	}

	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:users: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = @id`, pgx.NamedArgs{"id": id})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = @email`, pgx.NamedArgs{"email": email})
}

func (r *UserRepository) getOne(ctx context.Context, stmt string, args pgx.NamedArgs) (*model.User, error) {
	rows, err := r.pool.Query(ctx, stmt, args)
	if err != nil {
		return nil, fmt.Errorf("failed to execute get user query: %w", err)
	}

	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return nil, sqlerr.WrapNotFound("users", err)
	}

	return &user, nil
}

// Update persists the mutable profile fields of u.
func (r *UserRepository) Update(ctx context.Context, u *model.User) (*model.User, error) {
	stmt := `
		UPDATE users
		SET name = @name, avatar_url = @avatar_url, password_hash = @password_hash
		WHERE id = @id
		RETURNING ` + userColumns

	return r.getOne(ctx, stmt, pgx.NamedArgs{
		"id":            u.ID,
		"name":          u.Name,
		"avatar_url":    u.AvatarURL,
		"password_hash": u.PasswordHash,
	})
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.User, error) {
	stmt := `UPDATE users SET role = @role WHERE id = @id RETURNING ` + userColumns
	return r.getOne(ctx, stmt, pgx.NamedArgs{"id": id, "role": role})
}

// List returns one page of users and the total matching count. q must be
// normalized.
func (r *UserRepository) List(ctx context.Context, q model.ListUsersQuery) ([]model.User, int, error) {
	c := newConditions()
	if q.Role != "" {
		c.add("role = @role", "role", q.Role)
	}
	if q.Search != "" {
		c.add("(name ILIKE @search OR email ILIKE @search)", "search", likePattern(q.Search))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users`+c.where(), c.args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	stmt := `SELECT ` + userColumns + ` FROM users` + c.where() +
		orderBy(q.Sort, "created_at", "name") + c.page(q.ListQuery)

	rows, err := r.pool.Query(ctx, stmt, c.args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute list users query: %w", err)
	}

	users, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return nil, 0, fmt.Errorf("failed to collect rows from table:users: %w", err)
	}

	return users, total, nil
}
