package model

import (
	"strings"

	"github.com/elanurleylek/robosphere-sub000/internal/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Course is a published or draft learning track. RatingAverage and
// RatingCount are maintained from the reviews table.
type Course struct {
	Base
	Title         string          `json:"title" db:"title"`
	Slug          string          `json:"slug" db:"slug"`
	Description   string          `json:"description" db:"description"`
	Category      string          `json:"category" db:"category"`
	Level         Level           `json:"level" db:"level"`
	DurationHours int             `json:"duration_hours" db:"duration_hours"`
	Price         decimal.Decimal `json:"price" db:"price"`
	ImageURL      string          `json:"image_url" db:"image_url"`
	InstructorID  uuid.UUID       `json:"instructor_id" db:"instructor_id"`
	Published     bool            `json:"published" db:"published"`
	RatingAverage float64         `json:"rating_average" db:"rating_average"`
	RatingCount   int             `json:"rating_count" db:"rating_count"`
}

type CreateCourseRequest struct {
	Title         string          `json:"title" validate:"required,nonblank,min=3,max=160"`
	Description   string          `json:"description" validate:"max=10000"`
	Category      string          `json:"category" validate:"max=80"`
	Level         Level           `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	DurationHours int             `json:"duration_hours" validate:"gte=0,lte=10000"`
	Price         decimal.Decimal `json:"price" validate:"-"`
	ImageURL      string          `json:"image_url" validate:"omitempty,max=2048"`
	Published     bool            `json:"published"`
}

func (r *CreateCourseRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Category = strings.TrimSpace(r.Category)
	if err := validate(r); err != nil {
		return err
	}
	return checkPrice(&r.Price)
}

// UpdateCourseRequest applies a partial update; nil fields are left as is.
type UpdateCourseRequest struct {
	ID            string           `param:"id" json:"-" validate:"required,uuid"`
	Title         *string          `json:"title" validate:"omitempty,nonblank,min=3,max=160"`
	Description   *string          `json:"description" validate:"omitempty,max=10000"`
	Category      *string          `json:"category" validate:"omitempty,max=80"`
	Level         *Level           `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	DurationHours *int             `json:"duration_hours" validate:"omitempty,gte=0,lte=10000"`
	Price         *decimal.Decimal `json:"price" validate:"-"`
	ImageURL      *string          `json:"image_url" validate:"omitempty,max=2048"`
	Published     *bool            `json:"published"`
}

func (r *UpdateCourseRequest) Validate() error {
	trimPtr(r.Title, r.Category)
	if err := validate(r); err != nil {
		return err
	}
	return checkPrice(r.Price)
}

// Apply copies the non-nil fields onto c.
func (r *UpdateCourseRequest) Apply(c *Course) {
	if r.Title != nil {
		c.Title = strings.TrimSpace(*r.Title)
	}
	if r.Description != nil {
		c.Description = *r.Description
	}
	if r.Category != nil {
		c.Category = strings.TrimSpace(*r.Category)
	}
	if r.Level != nil {
		c.Level = *r.Level
	}
	if r.DurationHours != nil {
		c.DurationHours = *r.DurationHours
	}
	if r.Price != nil {
		c.Price = *r.Price
	}
	if r.ImageURL != nil {
		c.ImageURL = *r.ImageURL
	}
	if r.Published != nil {
		c.Published = *r.Published
	}
}

// MaxPrice is the largest value the numeric(10,2) price column holds.
var MaxPrice = decimal.RequireFromString("99999999.99")

func checkPrice(p *decimal.Decimal) error {
	if p == nil {
		return nil
	}
	if p.IsNegative() {
		return validation.CustomValidationErrors{{Field: "price", Message: "must not be negative"}}
	}
	if p.GreaterThan(MaxPrice) {
		return validation.CustomValidationErrors{{Field: "price", Message: "must not exceed " + MaxPrice.String()}}
	}
	if p.Exponent() < -2 && !p.Equal(p.Round(2)) {
		return validation.CustomValidationErrors{{Field: "price", Message: "must have at most 2 decimal places"}}
	}
	return nil
}

type ListCoursesQuery struct {
	ListQuery
	Category     string `query:"category" json:"category" validate:"omitempty,max=80"`
	Level        Level  `query:"level" json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Published    string `query:"published" json:"published" validate:"omitempty,oneof=true false"`
	InstructorID string `query:"instructor_id" json:"instructor_id" validate:"omitempty,uuid"`
}

func (r *ListCoursesQuery) Validate() error {
	return validate(r)
}

// CourseFilter is the repository-level form of ListCoursesQuery after
// visibility rules have been applied.
type CourseFilter struct {
	ListQuery
	Category     string
	Level        Level
	Published    *bool
	InstructorID *uuid.UUID
}
