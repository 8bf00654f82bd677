package model

import "github.com/google/uuid"

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID    uuid.UUID
	Role  Role
	Email string
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// Owns reports whether the actor is the owner identified by id.
func (a *Actor) Owns(id uuid.UUID) bool {
	return a != nil && a.ID == id
}

// CanModify reports whether the actor may change a resource owned by ownerID.
func (a *Actor) CanModify(ownerID uuid.UUID) bool {
	return a.IsAdmin() || a.Owns(ownerID)
}
