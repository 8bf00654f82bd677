package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ExcerptMaxLen bounds both submitted and derived excerpts.
const ExcerptMaxLen = 300

// Post is a blog article. A nil PublishedAt marks a draft.
type Post struct {
	Base
	Title         string     `json:"title" db:"title"`
	Slug          string     `json:"slug" db:"slug"`
	Excerpt       string     `json:"excerpt" db:"excerpt"`
	Content       string     `json:"content" db:"content"`
	Tags          []string   `json:"tags" db:"tags"`
	CoverImageURL string     `json:"cover_image_url" db:"cover_image_url"`
	AuthorID      uuid.UUID  `json:"author_id" db:"author_id"`
	AuthorName    string     `json:"author_name" db:"author_name"`
	PublishedAt   *time.Time `json:"published_at" db:"published_at"`
}

func (p *Post) IsPublished() bool {
	return p.PublishedAt != nil
}

type CreatePostRequest struct {
	Title         string   `json:"title" validate:"required,nonblank,min=3,max=200"`
	Excerpt       string   `json:"excerpt" validate:"max=300"`
	Content       string   `json:"content" validate:"required,nonblank,max=100000"`
	Tags          []string `json:"tags" validate:"max=10,dive,max=40"`
	CoverImageURL string   `json:"cover_image_url" validate:"omitempty,max=2048"`
	Publish       bool     `json:"publish"`
}

func (r *CreatePostRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Excerpt = strings.TrimSpace(r.Excerpt)
	r.Tags = NormalizeTags(r.Tags)
	return validate(r)
}

// UpdatePostRequest applies a partial update. Publish=true publishes a
// draft (keeping the original date of an already published post);
// Publish=false turns the post back into a draft.
type UpdatePostRequest struct {
	ID            string    `param:"id" json:"-" validate:"required,uuid"`
	Title         *string   `json:"title" validate:"omitempty,nonblank,min=3,max=200"`
	Excerpt       *string   `json:"excerpt" validate:"omitempty,max=300"`
	Content       *string   `json:"content" validate:"omitempty,nonblank,max=100000"`
	Tags          *[]string `json:"tags" validate:"omitempty,max=10,dive,max=40"`
	CoverImageURL *string   `json:"cover_image_url" validate:"omitempty,max=2048"`
	Publish       *bool     `json:"publish"`
}

func (r *UpdatePostRequest) Validate() error {
	trimPtr(r.Title, r.Excerpt)
	if r.Tags != nil {
		tags := NormalizeTags(*r.Tags)
		r.Tags = &tags
	}
	return validate(r)
}

func (r *UpdatePostRequest) Apply(p *Post, now time.Time) {
	if r.Title != nil {
		p.Title = strings.TrimSpace(*r.Title)
	}
	if r.Excerpt != nil {
		p.Excerpt = strings.TrimSpace(*r.Excerpt)
	}
	if r.Content != nil {
		p.Content = *r.Content
	}
	if r.Tags != nil {
		p.Tags = *r.Tags
	}
	if r.CoverImageURL != nil {
		p.CoverImageURL = *r.CoverImageURL
	}
	if r.Publish != nil {
		switch {
		case *r.Publish && p.PublishedAt == nil:
			p.PublishedAt = &now
		case !*r.Publish:
			p.PublishedAt = nil
		}
	}
}

const (
	PostStatusPublished = "published"
	PostStatusDraft     = "draft"
	PostStatusAll       = "all"
)

type ListPostsQuery struct {
	ListQuery
	Tag      string `query:"tag" json:"tag" validate:"omitempty,max=40"`
	AuthorID string `query:"author_id" json:"author_id" validate:"omitempty,uuid"`
	Status   string `query:"status" json:"status" validate:"omitempty,oneof=published draft all"`
}

func (r *ListPostsQuery) Validate() error {
	r.Tag = strings.ToLower(strings.TrimSpace(r.Tag))
	return validate(r)
}

type PostFilter struct {
	ListQuery
	Tag      string
	AuthorID *uuid.UUID
	// Published nil lists drafts and published posts alike.
	Published *bool
}
