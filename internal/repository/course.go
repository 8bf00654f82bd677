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

const courseColumns = `id, title, slug, description, category, level, duration_hours, price, image_url,
	instructor_id, published, rating_average::float8 AS rating_average, rating_count, created_at, updated_at`

type CourseRepository struct {
	pool *pgxpool.Pool
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

func courseArgs(c *model.Course) pgx.NamedArgs {
	return pgx.NamedArgs{
		"title":          c.Title,
		"slug":           c.Slug,
		"description":    c.Description,
		"category":       c.Category,
		"level":          c.Level,
		"duration_hours": c.DurationHours,
		"price":          c.Price,
		"image_url":      c.ImageURL,
		"instructor_id":  c.InstructorID,
		"published":      c.Published,
	}
}

func (r *CourseRepository) Create(ctx context.Context, c *model.Course) (*model.Course, error) {
	stmt := `
		INSERT INTO courses (title, slug, description, category, level, duration_hours, price, image_url, instructor_id, published)
		VALUES (@title, @slug, @description, @category, @level, @duration_hours, @price, @image_url, @instructor_id, @published)
		RETURNING ` + courseColumns

	return r.getOne(ctx, stmt, courseArgs(c))
}

func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	return r.getOne(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = @id`, pgx.NamedArgs{"id": id})
}

func (r *CourseRepository) GetBySlug(ctx context.Context, slug string) (*model.Course, error) {
	return r.getOne(ctx, `SELECT `+courseColumns+` FROM courses WHERE slug = @slug`, pgx.NamedArgs{"slug": slug})
}

// SlugExists reports whether slug is taken by a course other than exclude.
func (r *CourseRepository) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM courses WHERE slug = @slug AND id <> @exclude)`,
		pgx.NamedArgs{"slug": slug, "exclude": exclude},
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check course slug=%s: %w", slug, err)
	}
	return exists, nil
}

func (r *CourseRepository) Update(ctx context.Context, c *model.Course) (*model.Course, error) {
	stmt := `
		UPDATE courses
		SET title = @title, slug = @slug, description = @description, category = @category, level = @level,
			duration_hours = @duration_hours, price = @price, image_url = @image_url, published = @published
		WHERE id = @id
		RETURNING ` + courseColumns

	args := courseArgs(c)
	args["id"] = c.ID
	return r.getOne(ctx, stmt, args)
}

func (r *CourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete course id=%s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.WrapNotFound("courses", pgx.ErrNoRows)
	}
	return nil
}

func (r *CourseRepository) List(ctx context.Context, f model.CourseFilter) ([]model.Course, int, error) {
	c := newConditions()
	if f.Category != "" {
		c.add("lower(category) = lower(@category)", "category", f.Category)
	}
	if f.Level != "" {
		c.add("level = @level", "level", f.Level)
	}
	if f.Published != nil {
		c.add("published = @published", "published", *f.Published)
	}
	if f.InstructorID != nil {
		c.add("instructor_id = @instructor_id", "instructor_id", *f.InstructorID)
	}
	if f.Search != "" {
		c.add("title ILIKE @search", "search", likePattern(f.Search))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM courses`+c.where(), c.args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	stmt := `SELECT ` + courseColumns + ` FROM courses` + c.where() +
		orderBy(f.Sort, "created_at", "title") + c.page(f.ListQuery)

	rows, err := r.pool.Query(ctx, stmt, c.args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute list courses query: %w", err)
	}

	courses, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Course])
	if err != nil {
		return nil, 0, fmt.Errorf("failed to collect rows from table:courses: %w", err)
	}

	return courses, total, nil
}

func (r *CourseRepository) getOne(ctx context.Context, stmt string, args pgx.NamedArgs) (*model.Course, error) {
	rows, err := r.pool.Query(ctx, stmt, args)
	if err != nil {
		return nil, fmt.Errorf("failed to execute course query: %w", err)
	}

	course, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Course])
	if err != nil {
		return nil, sqlerr.WrapNotFound("courses", err)
	}

	return &course, nil
}
