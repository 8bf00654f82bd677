package handler

import (
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/elanurleylek/robosphere-sub000/internal/server"
	"github.com/elanurleylek/robosphere-sub000/internal/service"
	"github.com/labstack/echo/v4"
)

// PostHandler serves the blog. Drafts are visible to their author and admins only.
type PostHandler struct {
	Handler
	posts *service.PostService
}

func NewPostHandler(s *server.Server, posts *service.PostService) *PostHandler {
	return &PostHandler{
		Handler: NewHandler(s),
		posts:   posts,
	}
}

func (h *PostHandler) List(c echo.Context, q *model.ListPostsQuery) (*model.Paginated[model.Post], error) {
	return h.posts.List(c.Request().Context(), actor(c), q)
}

func (h *PostHandler) Get(c echo.Context, req *model.IDOrSlugRequest) (*model.Post, error) {
	return h.posts.Get(c.Request().Context(), actor(c), req)
}

func (h *PostHandler) Create(c echo.Context, req *model.CreatePostRequest) (*model.Post, error) {
	return h.posts.Create(c.Request().Context(), actor(c), req)
}

func (h *PostHandler) Update(c echo.Context, req *model.UpdatePostRequest) (*model.Post, error) {
	return h.posts.Update(c.Request().Context(), actor(c), req)
}

func (h *PostHandler) Delete(c echo.Context, req *model.IDRequest) error {
	return h.posts.Delete(c.Request().Context(), actor(c), req)
}
