package handler

import (
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/elanurleylek/robosphere-sub000/internal/server"
	"github.com/elanurleylek/robosphere-sub000/internal/service"
	"github.com/labstack/echo/v4"
)

const (
	TranscriptFilename    = "conversation.md"
	TranscriptContentType = "text/markdown; charset=utf-8"
)

type ChatHandler struct {
	Handler
	chat *service.ChatService
}

func NewChatHandler(s *server.Server, chat *service.ChatService) *ChatHandler {
	return &ChatHandler{
		Handler: NewHandler(s),
		chat:    chat,
	}
}

func (h *ChatHandler) Chat(c echo.Context, req *model.ChatRequest) (*model.ChatResponse, error) {
	return h.chat.Chat(c.Request().Context(), actor(c), req)
}

func (h *ChatHandler) ListConversations(c echo.Context, q *model.ListConversationsQuery) (*model.Paginated[model.ConversationSummary], error) {
	return h.chat.ListConversations(c.Request().Context(), actor(c), q)
}

func (h *ChatHandler) GetConversation(c echo.Context, req *model.ConversationIDRequest) (*model.Conversation, error) {
	return h.chat.GetConversation(c.Request().Context(), actor(c), req)
}

func (h *ChatHandler) ExportConversation(c echo.Context, req *model.ConversationIDRequest) ([]byte, error) {
	return h.chat.ExportConversation(c.Request().Context(), actor(c), req)
}

func (h *ChatHandler) DeleteConversation(c echo.Context, req *model.ConversationIDRequest) error {
	return h.chat.DeleteConversation(c.Request().Context(), actor(c), req)
}
