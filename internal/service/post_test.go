package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_Create(t *testing.T) {
	ctx := context.Background()
	author := actor(model.RoleInstructor)
	now := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	svc := NewPostService(newFakePosts(), listCache{})
	svc.now = func() time.Time { return now }

	post, err := svc.Create(ctx, author, &model.CreatePostRequest{
		Title:   "Building a Line Follower",
		Content: "## Parts\n\n" + strings.Repeat("An IR sensor array reads the track. ", 20),
		Publish: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "building-a-line-follower", post.Slug)
	assert.NotEmpty(t, post.Excerpt)
	assert.LessOrEqual(t, len([]rune(post.Excerpt)), model.ExcerptMaxLen)
	assert.NotContains(t, post.Excerpt, "##")
	require.NotNil(t, post.PublishedAt)
	assert.Equal(t, now, *post.PublishedAt)

	draft, err := svc.Create(ctx, author, &model.CreatePostRequest{Title: "Building a Line Follower", Content: "wip", Excerpt: "Soon"})
	require.NoError(t, err)
	assert.Equal(t, "building-a-line-follower-2", draft.Slug)
	assert.Equal(t, "Soon", draft.Excerpt)
	assert.Nil(t, draft.PublishedAt)

	_, err = svc.Create(ctx, actor(model.RoleStudent), &model.CreatePostRequest{Title: "Nope", Content: "x"})
	requireHTTPError(t, err, http.StatusForbidden, "")
}

func TestPostService_ListStatus(t *testing.T) {
	ctx := context.Background()
	author := actor(model.RoleInstructor)
	published := time.Now()
	posts := newFakePosts(
		&model.Post{Base: model.Base{ID: uuid.New()}, Title: "Live", AuthorID: author.ID, PublishedAt: &published},
		&model.Post{Base: model.Base{ID: uuid.New()}, Title: "Draft", AuthorID: author.ID},
	)
	svc := NewPostService(posts, listCache{})

	page, err := svc.List(ctx, nil, &model.ListPostsQuery{Status: model.PostStatusAll})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	page, err = svc.List(ctx, author, &model.ListPostsQuery{AuthorID: author.ID.String(), Status: model.PostStatusDraft})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "Draft", page.Items[0].Title)

	page, err = svc.List(ctx, actor(model.RoleAdmin), &model.ListPostsQuery{Status: model.PostStatusAll})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Nil(t, posts.lastList.Published)
}

func TestPostService_UpdateAndVisibility(t *testing.T) {
	ctx := context.Background()
	author := actor(model.RoleInstructor)
	draft := &model.Post{Base: model.Base{ID: uuid.New()}, Title: "Draft", Slug: "draft", Content: "Body", AuthorID: author.ID}
	svc := NewPostService(newFakePosts(draft), listCache{})

	_, err := svc.Get(ctx, nil, &model.IDOrSlugRequest{IDOrSlug: "draft"})
	requireHTTPError(t, err, http.StatusNotFound, "")

	_, err = svc.Update(ctx, actor(model.RoleInstructor), &model.UpdatePostRequest{ID: draft.ID.String()})
	requireHTTPError(t, err, http.StatusForbidden, "")

	yes := true
	updated, err := svc.Update(ctx, author, &model.UpdatePostRequest{ID: draft.ID.String(), Publish: &yes})
	require.NoError(t, err)
	assert.True(t, updated.IsPublished())
	assert.Equal(t, "Body", updated.Excerpt)

	got, err := svc.Get(ctx, nil, &model.IDOrSlugRequest{IDOrSlug: "draft"})
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)
}
