package handler

import (
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/elanurleylek/robosphere-sub000/internal/server"
	"github.com/elanurleylek/robosphere-sub000/internal/service"
	"github.com/labstack/echo/v4"
)

type CourseHandler struct {
	Handler
	courses *service.CourseService
}

func NewCourseHandler(s *server.Server, courses *service.CourseService) *CourseHandler {
	return &CourseHandler{
		Handler: NewHandler(s),
		courses: courses,
	}
}

func (h *CourseHandler) List(c echo.Context, q *model.ListCoursesQuery) (*model.Paginated[model.Course], error) {
	return h.courses.List(c.Request().Context(), actor(c), q)
}

func (h *CourseHandler) Get(c echo.Context, req *model.IDOrSlugRequest) (*model.Course, error) {
	return h.courses.Get(c.Request().Context(), actor(c), req)
}

func (h *CourseHandler) Create(c echo.Context, req *model.CreateCourseRequest) (*model.Course, error) {
	return h.courses.Create(c.Request().Context(), actor(c), req)
}

func (h *CourseHandler) Update(c echo.Context, req *model.UpdateCourseRequest) (*model.Course, error) {
	return h.courses.Update(c.Request().Context(), actor(c), req)
}

func (h *CourseHandler) Delete(c echo.Context, req *model.IDRequest) error {
	return h.courses.Delete(c.Request().Context(), actor(c), req)
}
