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

// postSelect joins the author so every read carries author_name.
const postSelect = `
	SELECT p.id, p.title, p.slug, p.excerpt, p.content, p.tags, p.cover_image_url, p.author_id,
		u.name AS author_name, p.published_at, p.created_at, p.updated_at
	FROM posts p
	JOIN users u ON u.id = p.author_id`

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func postArgs(p *model.Post) pgx.NamedArgs {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return pgx.NamedArgs{
		"title":           p.Title,
		"slug":            p.Slug,
		"excerpt":         p.Excerpt,
		"content":         p.Content,
		"tags":            tags,
		"cover_image_url": p.CoverImageURL,
		"author_id":       p.AuthorID,
		"published_at":    p.PublishedAt,
	}
}

func (r *PostRepository) Create(ctx context.Context, p *model.Post) (*model.Post, error) {
	stmt := `
		INSERT INTO posts (title, slug, excerpt, content, tags, cover_image_url, author_id, published_at)
		VALUES (@title, @slug, @excerpt, @content, @tags, @cover_image_url, @author_id, @published_at)
		RETURNING id`

	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, stmt, postArgs(p)).Scan(&id); err != nil {
		return nil, fmt.Errorf("failed to execute create post query for slug=%s: %w", p.Slug, err)
	}

	return r.GetByID(ctx, id)
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	return r.getOne(ctx, postSelect+` WHERE p.id = @id`, pgx.NamedArgs{"id": id})
}

func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	return r.getOne(ctx, postSelect+` WHERE p.slug = @slug`, pgx.NamedArgs{"slug": slug})
}

// SlugExists reports whether slug is taken by a post other than exclude.
func (r *PostRepository) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = @slug AND id <> @exclude)`,
		pgx.NamedArgs{"slug": slug, "exclude": exclude},
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check post slug=%s: %w", slug, err)
	}
	return exists, nil
}

func (r *PostRepository) Update(ctx context.Context, p *model.Post) (*model.Post, error) {
	stmt := `
		UPDATE posts
		SET title = @title, slug = @slug, excerpt = @excerpt, content = @content, tags = @tags,
			cover_image_url = @cover_image_url, published_at = @published_at
		WHERE id = @id`

	args := postArgs(p)
	args["id"] = p.ID

	tag, err := r.pool.Exec(ctx, stmt, args)
	if err != nil {
		return nil, fmt.Errorf("failed to update post id=%s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, sqlerr.WrapNotFound("posts", pgx.ErrNoRows)
	}

	return r.GetByID(ctx, p.ID)
}

func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete post id=%s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.WrapNotFound("posts", pgx.ErrNoRows)
	}
	return nil
}

func (r *PostRepository) List(ctx context.Context, f model.PostFilter) ([]model.Post, int, error) {
	c := newConditions()
	if f.Tag != "" {
		c.add("@tag = ANY (p.tags)", "tag", f.Tag)
	}
	if f.AuthorID != nil {
		c.add("p.author_id = @author_id", "author_id", *f.AuthorID)
	}
	if f.Published != nil {
		if *f.Published {
			c.add("p.published_at IS NOT NULL", "", nil)
		} else {
			c.add("p.published_at IS NULL", "", nil)
		}
	}
	if f.Search != "" {
		c.add("p.title ILIKE @search", "search", likePattern(f.Search))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM posts p`+c.where(), c.args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	stmt := postSelect + c.where() +
		orderBy(f.Sort, "COALESCE(p.published_at, p.created_at)", "p.title") + c.page(f.ListQuery)

	rows, err := r.pool.Query(ctx, stmt, c.args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute list posts query: %w", err)
	}

	posts, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Post])
	if err != nil {
		return nil, 0, fmt.Errorf("failed to collect rows from table:posts: %w", err)
	}

	return posts, total, nil
}

func (r *PostRepository) getOne(ctx context.Context, stmt string, args pgx.NamedArgs) (*model.Post, error) {
	rows, err := r.pool.Query(ctx, stmt, args)
	if err != nil {
		return nil, fmt.Errorf("failed to execute post query: %w", err)
	}

	post, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Post])
	if err != nil {
		return nil, sqlerr.WrapNotFound("posts", err)
	}

	return &post, nil
}
