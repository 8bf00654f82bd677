// Package model defines the domain entities and the request/response
// payloads exchanged over the API.
//
// Request types implement validation.Validatable so the handler pipeline can
// bind and validate them before any service code runs.
package model

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Base carries the identity and timestamps shared by every SQL entity.
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100
)

// Sort orders accepted by list endpoints.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortTitle  = "title"
)

// ListQuery holds the pagination, search and sort parameters common to
// every list endpoint.
type ListQuery struct {
	Page   int    `query:"page" json:"page" validate:"omitempty,min=1"`
	Limit  int    `query:"limit" json:"limit" validate:"omitempty,min=1,max=100"`
	Search string `query:"search" json:"search" validate:"omitempty,max=120"`
	Sort   string `query:"sort" json:"sort" validate:"omitempty,oneof=newest oldest title"`
}

// Normalize fills defaults and trims the search term.
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Sort == "" {
		q.Sort = SortNewest
	}
	q.Search = strings.TrimSpace(q.Search)
}

// Offset is the number of rows to skip for the current page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Paginated wraps one page of results.
type Paginated[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginated builds a page; a nil items slice is rendered as [].
func NewPaginated[T any](items []T, q ListQuery, total int) *Paginated[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := 0
	if q.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(q.Limit)))
	}

	return &Paginated[T]{
		Items:      items,
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// IDRequest addresses a single resource by UUID.
type IDRequest struct {
	ID string `param:"id" json:"-" validate:"required,uuid"`
}

func (r *IDRequest) Validate() error {
	return validate(r)
}

// IDOrSlugRequest addresses a resource by UUID or by its slug.
type IDOrSlugRequest struct {
	IDOrSlug string `param:"id" json:"-" validate:"required,max=200"`
}

func (r *IDOrSlugRequest) Validate() error {
	return validate(r)
}

// ParseID returns the UUID when IDOrSlug is one.
func (r *IDOrSlugRequest) ParseID() (uuid.UUID, bool) {
	id, err := uuid.Parse(r.IDOrSlug)
	return id, err == nil
}

// EmptyRequest is used by endpoints that take no input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error {
	return nil
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
