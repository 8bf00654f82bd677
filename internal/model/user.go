package model

import (
	"strings"

	"github.com/elanurleylek/robosphere-sub000/internal/validation"
)

// Role is the authorization level of a user.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// CanAuthor reports whether the role may publish courses and blog posts.
func (r Role) CanAuthor() bool {
	return r == RoleInstructor || r == RoleAdmin
}

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	Base
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         Role   `json:"role" db:"role"`
	AvatarURL    string `json:"avatar_url" db:"avatar_url"`
}

// RegisterRequest creates a student account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,nonblank,min=2,max=80"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (r *RegisterRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	return validate(r)
}

// LoginRequest exchanges credentials for a token.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	return validate(r)
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	User      *User  `json:"user"`
}

// UpdateProfileRequest changes the caller's own profile. Changing the
// password requires the current one.
type UpdateProfileRequest struct {
	Name            *string `json:"name" validate:"omitempty,nonblank,min=2,max=80"`
	AvatarURL       *string `json:"avatar_url" validate:"omitempty,max=2048"`
	Password        *string `json:"password" validate:"omitempty,min=6,max=72"`
	CurrentPassword string  `json:"current_password"`
}

func (r *UpdateProfileRequest) Validate() error {
	trimPtr(r.Name)
	if err := validate(r); err != nil {
		return err
	}
	if r.Password != nil && r.CurrentPassword == "" {
		return validation.CustomValidationErrors{{
			Field:   "current_password",
			Message: "is required to change the password",
		}}
	}
	return nil
}

// UpdateRoleRequest is used by admins to promote or demote users.
type UpdateRoleRequest struct {
	ID   string `param:"id" json:"-" validate:"required,uuid"`
	Role Role   `json:"role" validate:"required,oneof=student instructor admin"`
}

func (r *UpdateRoleRequest) Validate() error {
	return validate(r)
}

// ListUsersQuery filters the admin user listing.
type ListUsersQuery struct {
	ListQuery
	Role Role `query:"role" json:"role" validate:"omitempty,oneof=student instructor admin"`
}

func (r *ListUsersQuery) Validate() error {
	return validate(r)
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
