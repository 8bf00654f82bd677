package service

import (
	"context"

	"github.com/elanurleylek/robosphere-sub000/internal/errs"
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ProjectService struct {
	projects ProjectRepository
	cache    listCache
}

func NewProjectService(projects ProjectRepository, cache listCache) *ProjectService {
	return &ProjectService{projects: projects, cache: cache}
}

// List pages through projects. Projects are public, so every page is cached.
func (s *ProjectService) List(ctx context.Context, q *model.ListProjectsQuery) (*model.Paginated[model.Project], error) {
	f := model.ProjectFilter{
		ListQuery:  q.ListQuery,
		Difficulty: q.Difficulty,
		Technology: q.Technology,
		Featured:   model.ParseBoolFilter(q.Featured),
		AuthorID:   parseOptionalID(q.AuthorID),
	}
	f.Normalize()

	return fetch(ctx, s.cache, nsProjects, f, func() (*model.Paginated[model.Project], error) {
		items, total, err := s.projects.List(ctx, f)
		if err != nil {
			return nil, err
		}
		return model.NewPaginated(items, f.ListQuery, total), nil
	})
}

func (s *ProjectService) Get(ctx context.Context, req *model.IDRequest) (*model.Project, error) {
	return s.projects.GetByID(ctx, parseID(req.ID))
}

func (s *ProjectService) Create(ctx context.Context, actor *model.Actor, req *model.CreateProjectRequest) (*model.Project, error) {
	project, err := s.projects.Create(ctx, &model.Project{
		Title:        req.Title,
		Description:  req.Description,
		Difficulty:   req.Difficulty,
		Technologies: req.Technologies,
		ImageURL:     req.ImageURL,
		RepoURL:      req.RepoURL,
		AuthorID:     actor.ID,
		Featured:     req.Featured && actor.IsAdmin(),
	})
	if err != nil {
		return nil, err
	}

	s.cache.invalidate(ctx, nsProjects)
	zerolog.Ctx(ctx).Info().Str("project_id", project.ID.String()).Msg("project created")

	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, actor *model.Actor, req *model.UpdateProjectRequest) (*model.Project, error) {
	project, err := s.owned(ctx, actor, parseID(req.ID))
	if err != nil {
		return nil, err
	}

	req.Apply(project, actor.IsAdmin())

	updated, err := s.projects.Update(ctx, project)
	if err != nil {
		return nil, err
	}

	s.cache.invalidate(ctx, nsProjects)
	return updated, nil
}

func (s *ProjectService) Delete(ctx context.Context, actor *model.Actor, req *model.IDRequest) error {
	project, err := s.owned(ctx, actor, parseID(req.ID))
	if err != nil {
		return err
	}

	if err := s.projects.Delete(ctx, project.ID); err != nil {
		return err
	}

	s.cache.invalidate(ctx, nsProjects)
	return nil
}

func (s *ProjectService) owned(ctx context.Context, actor *model.Actor, id uuid.UUID) (*model.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(project.AuthorID) {
		return nil, errs.NewForbiddenError("You can only modify your own projects", true)
	}
	return project, nil
}
