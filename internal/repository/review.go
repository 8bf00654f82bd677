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

const reviewSelect = `
	SELECT r.id, r.course_id, r.user_id, u.name AS user_name, r.rating, r.comment, r.created_at, r.updated_at
	FROM reviews r
	JOIN users u ON u.id = r.user_id`

// refreshRating recomputes the denormalized rating of a course from its
// reviews. It runs inside the transaction of the write that changed them.
const refreshRating = `
	UPDATE courses c
	SET rating_average = s.average, rating_count = s.count
	FROM (
		SELECT COALESCE(round(avg(rating)::numeric, 2), 0) AS average, count(*) AS count
		FROM reviews
		WHERE course_id = @course_id
	) s
	WHERE c.id = @course_id`

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *model.Review) (*model.Review, error) {
	var id uuid.UUID

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		stmt := `
			INSERT INTO reviews (course_id, user_id, rating, comment)
			VALUES (@course_id, @user_id, @rating, @comment)
			RETURNING id`

		err := tx.QueryRow(ctx, stmt, pgx.NamedArgs{
			"course_id": rv.CourseID,
			"user_id":   rv.UserID,
			"rating":    rv.Rating,
			"comment":   rv.Comment,
		}).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert review for course_id=%s: %w", rv.CourseID, err)
		}

		return refreshCourseRating(ctx, tx, rv.CourseID)
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *ReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	rows, err := r.pool.Query(ctx, reviewSelect+` WHERE r.id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get review query: %w", err)
	}

	review, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Review])
	if err != nil {
		return nil, sqlerr.WrapNotFound("reviews", err)
	}

	return &review, nil
}

func (r *ReviewRepository) Update(ctx context.Context, rv *model.Review) (*model.Review, error) {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE reviews SET rating = @rating, comment = @comment WHERE id = @id`,
			pgx.NamedArgs{"id": rv.ID, "rating": rv.Rating, "comment": rv.Comment},
		)
		if err != nil {
			return fmt.Errorf("failed to update review id=%s: %w", rv.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return sqlerr.WrapNotFound("reviews", pgx.ErrNoRows)
		}

		return refreshCourseRating(ctx, tx, rv.CourseID)
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, rv.ID)
}

func (r *ReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var courseID uuid.UUID
		err := tx.QueryRow(ctx,
			`DELETE FROM reviews WHERE id = @id RETURNING course_id`,
			pgx.NamedArgs{"id": id},
		).Scan(&courseID)
		if err != nil {
			return sqlerr.WrapNotFound("reviews", err)
		}

		return refreshCourseRating(ctx, tx, courseID)
	})
}

// ListByCourse returns one page of a course's reviews, newest first.
func (r *ReviewRepository) ListByCourse(ctx context.Context, courseID uuid.UUID, q model.ListQuery) ([]model.Review, int, error) {
	c := newConditions()
	c.add("r.course_id = @course_id", "course_id", courseID)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM reviews r`+c.where(), c.args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	stmt := reviewSelect + c.where() + ` ORDER BY r.created_at DESC, r.id` + c.page(q)

	rows, err := r.pool.Query(ctx, stmt, c.args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute list reviews query: %w", err)
	}

	reviews, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Review])
	if err != nil {
		return nil, 0, fmt.Errorf("failed to collect rows from table:reviews: %w", err)
	}

	return reviews, total, nil
}

func (r *ReviewRepository) Summary(ctx context.Context, courseID uuid.UUID) (model.RatingSummary, error) {
	var s model.RatingSummary
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(round(avg(rating)::numeric, 2), 0)::float8, count(*)
		FROM reviews
		WHERE course_id = @course_id`,
		pgx.NamedArgs{"course_id": courseID},
	).Scan(&s.Average, &s.Count)
	if err != nil {
		return s, fmt.Errorf("failed to summarize reviews for course_id=%s: %w", courseID, err)
	}
	return s, nil
}

func refreshCourseRating(ctx context.Context, tx pgx.Tx, courseID uuid.UUID) error {
	if _, err := tx.Exec(ctx, refreshRating, pgx.NamedArgs{"course_id": courseID}); err != nil {
		return fmt.Errorf("failed to refresh rating for course_id=%s: %w", courseID, err)
	}
	return nil
}
