package service

import (
	"context"

	"github.com/elanurleylek/robosphere-sub000/internal/errs"
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type CourseService struct {
	courses CourseRepository
	cache   listCache
}

func NewCourseService(courses CourseRepository, cache listCache) *CourseService {
	return &CourseService{courses: courses, cache: cache}
}

// List applies the visibility rules: admins see everything and may filter
// on published; instructors listing their own courses see their drafts;
// everyone else sees published courses only. Public pages are cached.
func (s *CourseService) List(ctx context.Context, actor *model.Actor, q *model.ListCoursesQuery) (*model.Paginated[model.Course], error) {
	f := model.CourseFilter{
		ListQuery:    q.ListQuery,
		Category:     q.Category,
		Level:        q.Level,
		InstructorID: parseOptionalID(q.InstructorID),
	}
	f.Normalize()

	ownList := f.InstructorID != nil && actor.Owns(*f.InstructorID)
	switch {
	case actor.IsAdmin():
		f.Published = model.ParseBoolFilter(q.Published)
	case ownList:
		f.Published = model.ParseBoolFilter(q.Published)
	default:
		published := true
		f.Published = &published
	}

	load := func() (*model.Paginated[model.Course], error) {
		items, total, err := s.courses.List(ctx, f)
		if err != nil {
			return nil, err
		}
		return model.NewPaginated(items, f.ListQuery, total), nil
	}

	if actor.IsAdmin() || ownList {
		return load()
	}
	return fetch(ctx, s.cache, nsCourses, f, load)
}

// Get finds a course by ID or slug. Drafts are only visible to their
// instructor and admins.
func (s *CourseService) Get(ctx context.Context, actor *model.Actor, req *model.IDOrSlugRequest) (*model.Course, error) {
	var (
		course *model.Course
		err    error
	)
	if id, ok := req.ParseID(); ok {
		course, err = s.courses.GetByID(ctx, id)
	} else {
		course, err = s.courses.GetBySlug(ctx, req.IDOrSlug)
	}
	if err != nil {
		return nil, err
	}

	if !course.Published && !actor.CanModify(course.InstructorID) {
		return nil, errs.NewNotFoundError("Course not found", true, nil)
	}
	return course, nil
}

func (s *CourseService) Create(ctx context.Context, actor *model.Actor, req *model.CreateCourseRequest) (*model.Course, error) {
	if actor == nil || !actor.Role.CanAuthor() {
		return nil, errs.NewForbiddenError("Only instructors can create courses", true)
	}

	slug, err := uniqueSlug(ctx, req.Title, uuid.Nil, s.courses.SlugExists)
	if err != nil {
		return nil, err
	}

	course, err := s.courses.Create(ctx, &model.Course{
		Title:         req.Title,
		Slug:          slug,
		Description:   req.Description,
		Category:      req.Category,
		Level:         req.Level,
		DurationHours: req.DurationHours,
		Price:         req.Price,
		ImageURL:      req.ImageURL,
		InstructorID:  actor.ID,
		Published:     req.Published,
	})
	if err != nil {
		return nil, err
	}

	s.cache.invalidate(ctx, nsCourses)
	zerolog.Ctx(ctx).Info().Str("course_id", course.ID.String()).Str("slug", course.Slug).Msg("course created")

	return course, nil
}

func (s *CourseService) Update(ctx context.Context, actor *model.Actor, req *model.UpdateCourseRequest) (*model.Course, error) {
	course, err := s.owned(ctx, actor, parseID(req.ID))
	if err != nil {
		return nil, err
	}

	oldTitle := course.Title
	req.Apply(course)

	if course.Title != oldTitle {
		if course.Slug, err = uniqueSlug(ctx, course.Title, course.ID, s.courses.SlugExists); err != nil {
			return nil, err
		}
	}

	updated, err := s.courses.Update(ctx, course)
	if err != nil {
		return nil, err
	}

	s.cache.invalidate(ctx, nsCourses)
	return updated, nil
}

func (s *CourseService) Delete(ctx context.Context, actor *model.Actor, req *model.IDRequest) error {
	course, err := s.owned(ctx, actor, parseID(req.ID))
	if err != nil {
		return err
	}

	if err := s.courses.Delete(ctx, course.ID); err != nil {
		return err
	}

	s.cache.invalidate(ctx, nsCourses)
	zerolog.Ctx(ctx).Info().Str("course_id", course.ID.String()).Msg("course deleted")
	return nil
}

// owned loads a course the actor may modify.
func (s *CourseService) owned(ctx context.Context, actor *model.Actor, id uuid.UUID) (*model.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(course.InstructorID) {
		return nil, errs.NewForbiddenError("You can only modify your own courses", true)
	}
	return course, nil
}
