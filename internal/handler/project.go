package handler

import (
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/elanurleylek/robosphere-sub000/internal/server"
	"github.com/elanurleylek/robosphere-sub000/internal/service"
	"github.com/labstack/echo/v4"
)

type ProjectHandler struct {
	Handler
	projects *service.ProjectService
}

func NewProjectHandler(s *server.Server, projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		Handler:  NewHandler(s),
		projects: projects,
	}
}

func (h *ProjectHandler) List(c echo.Context, q *model.ListProjectsQuery) (*model.Paginated[model.Project], error) {
	return h.projects.List(c.Request().Context(), q)
}

func (h *ProjectHandler) Get(c echo.Context, req *model.IDRequest) (*model.Project, error) {
	return h.projects.Get(c.Request().Context(), req)
}

func (h *ProjectHandler) Create(c echo.Context, req *model.CreateProjectRequest) (*model.Project, error) {
	return h.projects.Create(c.Request().Context(), actor(c), req)
}

func (h *ProjectHandler) Update(c echo.Context, req *model.UpdateProjectRequest) (*model.Project, error) {
	return h.projects.Update(c.Request().Context(), actor(c), req)
}

func (h *ProjectHandler) Delete(c echo.Context, req *model.IDRequest) error {
	return h.projects.Delete(c.Request().Context(), actor(c), req)
}
