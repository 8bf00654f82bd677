package handler

import (
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/elanurleylek/robosphere-sub000/internal/server"
	"github.com/elanurleylek/robosphere-sub000/internal/service"
	"github.com/labstack/echo/v4"
)

type ReviewHandler struct {
	Handler
	reviews *service.ReviewService
}

func NewReviewHandler(s *server.Server, reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		Handler: NewHandler(s),
		reviews: reviews,
	}
}

func (h *ReviewHandler) List(c echo.Context, q *model.ListReviewsQuery) (*model.ReviewPage, error) {
	return h.reviews.List(c.Request().Context(), actor(c), q)
}

func (h *ReviewHandler) Create(c echo.Context, req *model.CreateReviewRequest) (*model.Review, error) {
	return h.reviews.Create(c.Request().Context(), actor(c), req)
}

func (h *ReviewHandler) Update(c echo.Context, req *model.UpdateReviewRequest) (*model.Review, error) {
	return h.reviews.Update(c.Request().Context(), actor(c), req)
}

func (h *ReviewHandler) Delete(c echo.Context, req *model.IDRequest) error {
	return h.reviews.Delete(c.Request().Context(), actor(c), req)
}
