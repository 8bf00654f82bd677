package model

import (
	"strings"

	"github.com/google/uuid"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Project is a community robotics build.
type Project struct {
	Base
	Title        string     `json:"title" db:"title"`
	Description  string     `json:"description" db:"description"`
	Difficulty   Difficulty `json:"difficulty" db:"difficulty"`
	Technologies []string   `json:"technologies" db:"technologies"`
	ImageURL     string     `json:"image_url" db:"image_url"`
	RepoURL      string     `json:"repo_url" db:"repo_url"`
	AuthorID     uuid.UUID  `json:"author_id" db:"author_id"`
	Featured     bool       `json:"featured" db:"featured"`
}

type CreateProjectRequest struct {
	Title        string     `json:"title" validate:"required,nonblank,min=3,max=160"`
	Description  string     `json:"description" validate:"max=10000"`
	Difficulty   Difficulty `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Technologies []string   `json:"technologies" validate:"max=20,dive,nonblank,max=40"`
	ImageURL     string     `json:"image_url" validate:"omitempty,max=2048"`
	RepoURL      string     `json:"repo_url" validate:"omitempty,url,max=2048"`
	// Featured is honoured for admins only.
	Featured bool `json:"featured"`
}

func (r *CreateProjectRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Technologies = NormalizeTags(r.Technologies)
	return validate(r)
}

type UpdateProjectRequest struct {
	ID           string      `param:"id" json:"-" validate:"required,uuid"`
	Title        *string     `json:"title" validate:"omitempty,nonblank,min=3,max=160"`
	Description  *string     `json:"description" validate:"omitempty,max=10000"`
	Difficulty   *Difficulty `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Technologies *[]string   `json:"technologies" validate:"omitempty,max=20,dive,nonblank,max=40"`
	ImageURL     *string     `json:"image_url" validate:"omitempty,max=2048"`
	RepoURL      *string     `json:"repo_url" validate:"omitempty,max=2048"`
	Featured     *bool       `json:"featured"`
}

func (r *UpdateProjectRequest) Validate() error {
	trimPtr(r.Title, r.RepoURL)
	if r.Technologies != nil {
		tags := NormalizeTags(*r.Technologies)
		r.Technologies = &tags
	}
	if err := validate(r); err != nil {
		return err
	}
	if r.RepoURL != nil && *r.RepoURL != "" {
		return validate(&struct {
			RepoURL string `json:"repo_url" validate:"url"`
		}{*r.RepoURL})
	}
	return nil
}

// Apply copies the non-nil fields onto p. Featured is applied only when
// allowFeatured is set.
func (r *UpdateProjectRequest) Apply(p *Project, allowFeatured bool) {
	if r.Title != nil {
		p.Title = strings.TrimSpace(*r.Title)
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Difficulty != nil {
		p.Difficulty = *r.Difficulty
	}
	if r.Technologies != nil {
		p.Technologies = *r.Technologies
	}
	if r.ImageURL != nil {
		p.ImageURL = *r.ImageURL
	}
	if r.RepoURL != nil {
		p.RepoURL = *r.RepoURL
	}
	if r.Featured != nil && allowFeatured {
		p.Featured = *r.Featured
	}
}

type ListProjectsQuery struct {
	ListQuery
	Difficulty Difficulty `query:"difficulty" json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Technology string     `query:"technology" json:"technology" validate:"omitempty,max=40"`
	Featured   string     `query:"featured" json:"featured" validate:"omitempty,oneof=true false"`
	AuthorID   string     `query:"author_id" json:"author_id" validate:"omitempty,uuid"`
}

func (r *ListProjectsQuery) Validate() error {
	r.Technology = strings.ToLower(strings.TrimSpace(r.Technology))
	return validate(r)
}

type ProjectFilter struct {
	ListQuery
	Difficulty Difficulty
	Technology string
	Featured   *bool
	AuthorID   *uuid.UUID
}

// NormalizeTags lowercases, trims and de-duplicates tags, keeping order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// ParseBoolFilter turns a "true"/"false" query value into a filter pointer.
func ParseBoolFilter(v string) *bool {
	switch v {
	case "true":
		b := true
		return &b
	case "false":
		b := false
		return &b
	}
	return nil
}
