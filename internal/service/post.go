package service

import (
	"context"
	"time"

	"github.com/elanurleylek/robosphere-sub000/internal/errs"
	"github.com/elanurleylek/robosphere-sub000/internal/lib/utils"
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type PostService struct {
	posts PostRepository
	cache listCache
	now   func() time.Time
}

func NewPostService(posts PostRepository, cache listCache) *PostService {
	return &PostService{posts: posts, cache: cache, now: time.Now}
}

// List returns blog posts. Anonymous readers and non-admins see published
// posts only, except authors browsing their own posts. Public pages are
// cached.
func (s *PostService) List(ctx context.Context, actor *model.Actor, q *model.ListPostsQuery) (*model.Paginated[model.Post], error) {
	f := model.PostFilter{
		ListQuery: q.ListQuery,
		Tag:       q.Tag,
		AuthorID:  parseOptionalID(q.AuthorID),
	}
	f.Normalize()

	ownList := f.AuthorID != nil && actor.Owns(*f.AuthorID)
	private := actor.IsAdmin() || ownList

	status := q.Status
	if !private || status == "" {
		status = model.PostStatusPublished
	}
	switch status {
	case model.PostStatusPublished:
		published := true
		f.Published = &published
	case model.PostStatusDraft:
		draft := false
		f.Published = &draft
	}

	load := func() (*model.Paginated[model.Post], error) {
		items, total, err := s.posts.List(ctx, f)
		if err != nil {
			return nil, err
		}
		return model.NewPaginated(items, f.ListQuery, total), nil
	}

	if private {
		return load()
	}
	return fetch(ctx, s.cache, nsPosts, f, load)
}

// Get finds a post by ID or slug. Drafts are visible to their author and
// admins only.
func (s *PostService) Get(ctx context.Context, actor *model.Actor, req *model.IDOrSlugRequest) (*model.Post, error) {
	var (
		post *model.Post
		err  error
	)
	if id, ok := req.ParseID(); ok {
		post, err = s.posts.GetByID(ctx, id)
	} else {
		post, err = s.posts.GetBySlug(ctx, req.IDOrSlug)
	}
	if err != nil {
		return nil, err
	}

	if !post.IsPublished() && !actor.CanModify(post.AuthorID) {
		return nil, errs.NewNotFoundError("Post not found", true, nil)
	}
	return post, nil
}

func (s *PostService) Create(ctx context.Context, actor *model.Actor, req *model.CreatePostRequest) (*model.Post, error) {
	if actor == nil || !actor.Role.CanAuthor() {
		return nil, errs.NewForbiddenError("Only instructors can write blog posts", true)
	}

	slug, err := uniqueSlug(ctx, req.Title, uuid.Nil, s.posts.SlugExists)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		Title:         req.Title,
		Slug:          slug,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		Tags:          req.Tags,
		CoverImageURL: req.CoverImageURL,
		AuthorID:      actor.ID,
	}
	if post.Excerpt == "" {
		post.Excerpt = utils.Excerpt(post.Content, model.ExcerptMaxLen)
	}
	if req.Publish {
		now := s.now().UTC()
		post.PublishedAt = &now
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, err
	}

	s.cache.invalidate(ctx, nsPosts)
	zerolog.Ctx(ctx).Info().
		Str("post_id", created.ID.String()).
		Bool("published", created.IsPublished()).
		Msg("post created")

	return created, nil
}

func (s *PostService) Update(ctx context.Context, actor *model.Actor, req *model.UpdatePostRequest) (*model.Post, error) {
	post, err := s.owned(ctx, actor, parseID(req.ID))
	if err != nil {
		return nil, err
	}

	oldTitle := post.Title
	req.Apply(post, s.now().UTC())

	if post.Title != oldTitle {
		if post.Slug, err = uniqueSlug(ctx, post.Title, post.ID, s.posts.SlugExists); err != nil {
			return nil, err
		}
	}
	if post.Excerpt == "" {
		post.Excerpt = utils.Excerpt(post.Content, model.ExcerptMaxLen)
	}

	updated, err := s.posts.Update(ctx, post)
	if err != nil {
		return nil, err
	}

	s.cache.invalidate(ctx, nsPosts)
	return updated, nil
}

func (s *PostService) Delete(ctx context.Context, actor *model.Actor, req *model.IDRequest) error {
	post, err := s.owned(ctx, actor, parseID(req.ID))
	if err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return err
	}

	s.cache.invalidate(ctx, nsPosts)
	return nil
}

func (s *PostService) owned(ctx context.Context, actor *model.Actor, id uuid.UUID) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(post.AuthorID) {
		return nil, errs.NewForbiddenError("You can only modify your own posts", true)
	}
	return post, nil
}
