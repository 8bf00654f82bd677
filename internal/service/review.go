package service

import (
	"context"

	"github.com/elanurleylek/robosphere-sub000/internal/errs"
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/elanurleylek/robosphere-sub000/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ReviewService struct {
	reviews ReviewRepository
	courses CourseRepository
	cache   listCache
}

func NewReviewService(reviews ReviewRepository, courses CourseRepository, cache listCache) *ReviewService {
	return &ReviewService{reviews: reviews, courses: courses, cache: cache}
}

// List returns a page of a course's reviews, newest first, with the
// course-wide rating summary.
func (s *ReviewService) List(ctx context.Context, actor *model.Actor, q *model.ListReviewsQuery) (*model.ReviewPage, error) {
	course, err := s.visibleCourse(ctx, actor, parseID(q.CourseID))
	if err != nil {
		return nil, err
	}

	paging := q.Paging()
	items, total, err := s.reviews.ListByCourse(ctx, course.ID, paging)
	if err != nil {
		return nil, err
	}

	summary, err := s.reviews.Summary(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	return &model.ReviewPage{
		Paginated: *model.NewPaginated(items, paging, total),
		Summary:   summary,
	}, nil
}

func (s *ReviewService) Create(ctx context.Context, actor *model.Actor, req *model.CreateReviewRequest) (*model.Review, error) {
	course, err := s.visibleCourse(ctx, actor, parseID(req.CourseID))
	if err != nil {
		return nil, err
	}
	if course.InstructorID == actor.ID {
		return nil, errs.NewForbiddenError("You cannot review your own course", true)
	}

	review, err := s.reviews.Create(ctx, &model.Review{
		CourseID: course.ID,
		UserID:   actor.ID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		if sqlerr.IsUniqueViolation(err) {
			return nil, errs.NewBadRequestError("You have already reviewed this course", true, errs.Code("REVIEW_ALREADY_EXISTS"), nil, nil)
		}
		return nil, err
	}

	s.cache.invalidate(ctx, nsCourses)
	zerolog.Ctx(ctx).Info().
		Str("review_id", review.ID.String()).
		Str("course_id", course.ID.String()).
		Int("rating", review.Rating).
		Msg("review created")

	return review, nil
}

func (s *ReviewService) Update(ctx context.Context, actor *model.Actor, req *model.UpdateReviewRequest) (*model.Review, error) {
	review, err := s.owned(ctx, actor, parseID(req.ID))
	if err != nil {
		return nil, err
	}

	req.Apply(review)

	updated, err := s.reviews.Update(ctx, review)
	if err != nil {
		return nil, err
	}

	s.cache.invalidate(ctx, nsCourses)
	return updated, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor *model.Actor, req *model.IDRequest) error {
	review, err := s.owned(ctx, actor, parseID(req.ID))
	if err != nil {
		return err
	}

	if err := s.reviews.Delete(ctx, review.ID); err != nil {
		return err
	}

	s.cache.invalidate(ctx, nsCourses)
	return nil
}

func (s *ReviewService) visibleCourse(ctx context.Context, actor *model.Actor, id uuid.UUID) (*model.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !course.Published && !actor.CanModify(course.InstructorID) {
		return nil, errs.NewNotFoundError("Course not found", true, nil)
	}
	return course, nil
}

func (s *ReviewService) owned(ctx context.Context, actor *model.Actor, id uuid.UUID) (*model.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(review.UserID) {
		return nil, errs.NewForbiddenError("You can only modify your own reviews", true)
	}
	return review, nil
}
