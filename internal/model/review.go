package model

import (
	"strings"

	"github.com/google/uuid"
)

// Review is a single user's rating of a course.
type Review struct {
	Base
	CourseID uuid.UUID `json:"course_id" db:"course_id"`
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	UserName string    `json:"user_name" db:"user_name"`
	Rating   int       `json:"rating" db:"rating"`
	Comment  string    `json:"comment" db:"comment"`
}

// RatingSummary is the aggregate of a course's reviews.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// ReviewPage is a page of reviews plus the course-wide summary.
type ReviewPage struct {
	Paginated[Review]
	Summary RatingSummary `json:"summary"`
}

type CreateReviewRequest struct {
	CourseID string `param:"id" json:"-" validate:"required,uuid"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comment  string `json:"comment" validate:"max=2000"`
}

func (r *CreateReviewRequest) Validate() error {
	r.Comment = strings.TrimSpace(r.Comment)
	return validate(r)
}

type UpdateReviewRequest struct {
	ID      string  `param:"id" json:"-" validate:"required,uuid"`
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

func (r *UpdateReviewRequest) Validate() error {
	return validate(r)
}

func (r *UpdateReviewRequest) Apply(rv *Review) {
	if r.Rating != nil {
		rv.Rating = *r.Rating
	}
	if r.Comment != nil {
		rv.Comment = strings.TrimSpace(*r.Comment)
	}
}

type ListReviewsQuery struct {
	CourseID string `param:"id" json:"-" validate:"required,uuid"`
	Page     int    `query:"page" json:"page" validate:"omitempty,min=1"`
	Limit    int    `query:"limit" json:"limit" validate:"omitempty,min=1,max=100"`
}

func (r *ListReviewsQuery) Validate() error {
	return validate(r)
}

// Paging converts the paging parameters; reviews are always newest first.
func (r *ListReviewsQuery) Paging() ListQuery {
	q := ListQuery{Page: r.Page, Limit: r.Limit, Sort: SortNewest}
	q.Normalize()
	return q
}
