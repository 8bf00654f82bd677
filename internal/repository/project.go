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

const projectColumns = `id, title, description, difficulty, technologies, image_url, repo_url, author_id, featured,
	created_at, updated_at`

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func projectArgs(p *model.Project) pgx.NamedArgs {
	technologies := p.Technologies
	if technologies == nil {
		technologies = []string{}
	}
	return pgx.NamedArgs{
		"title":        p.Title,
		"description":  p.Description,
		"difficulty":   p.Difficulty,
		"technologies": technologies,
		"image_url":    p.ImageURL,
		"repo_url":     p.RepoURL,
		"author_id":    p.AuthorID,
		"featured":     p.Featured,
	}
}

func (r *ProjectRepository) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	stmt := `
		INSERT INTO projects (title, description, difficulty, technologies, image_url, repo_url, author_id, featured)
		VALUES (@title, @description, @difficulty, @technologies, @image_url, @repo_url, @author_id, @featured)
		RETURNING ` + projectColumns

	return r.getOne(ctx, stmt, projectArgs(p))
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	return r.getOne(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = @id`, pgx.NamedArgs{"id": id})
}

func (r *ProjectRepository) Update(ctx context.Context, p *model.Project) (*model.Project, error) {
	stmt := `
		UPDATE projects
		SET title = @title, description = @description, difficulty = @difficulty, technologies = @technologies,
			image_url = @image_url, repo_url = @repo_url, featured = @featured
		WHERE id = @id
		RETURNING ` + projectColumns

	args := projectArgs(p)
	args["id"] = p.ID
	return r.getOne(ctx, stmt, args)
}

func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete project id=%s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.WrapNotFound("projects", pgx.ErrNoRows)
	}
	return nil
}

func (r *ProjectRepository) List(ctx context.Context, f model.ProjectFilter) ([]model.Project, int, error) {
	c := newConditions()
	if f.Difficulty != "" {
		c.add("difficulty = @difficulty", "difficulty", f.Difficulty)
	}
	if f.Technology != "" {
		c.add("@technology = ANY (technologies)", "technology", f.Technology)
	}
	if f.Featured != nil {
		c.add("featured = @featured", "featured", *f.Featured)
	}
	if f.AuthorID != nil {
		c.add("author_id = @author_id", "author_id", *f.AuthorID)
	}
	if f.Search != "" {
		c.add("title ILIKE @search", "search", likePattern(f.Search))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM projects`+c.where(), c.args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	stmt := `SELECT ` + projectColumns + ` FROM projects` + c.where() +
		orderBy(f.Sort, "created_at", "title") + c.page(f.ListQuery)

	rows, err := r.pool.Query(ctx, stmt, c.args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute list projects query: %w", err)
	}

	projects, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Project])
	if err != nil {
		return nil, 0, fmt.Errorf("failed to collect rows from table:projects: %w", err)
	}

	return projects, total, nil
}

func (r *ProjectRepository) getOne(ctx context.Context, stmt string, args pgx.NamedArgs) (*model.Project, error) {
	rows, err := r.pool.Query(ctx, stmt, args)
	if err != nil {
		return nil, fmt.Errorf("failed to execute project query: %w", err)
	}

	project, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Project])
	if err != nil {
		return nil, sqlerr.WrapNotFound("projects", err)
	}

	return &project, nil
}
