package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/elanurleylek/robosphere-sub000/internal/errs"
	"github.com/elanurleylek/robosphere-sub000/internal/lib/ai"
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/elanurleylek/robosphere-sub000/internal/sqlerr"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatService proxies the learning assistant and keeps signed-in users'
// conversations.
type ChatService struct {
	generator     ai.Generator
	conversations ConversationRepository
	now           func() time.Time
}

// NewChatService accepts a nil generator; chatting then fails with 503.
func NewChatService(generator ai.Generator, conversations ConversationRepository) *ChatService {
	return &ChatService{
		generator:     generator,
		conversations: conversations,
		now:           time.Now,
	}
}

func (s *ChatService) Chat(ctx context.Context, actor *model.Actor, req *model.ChatRequest) (*model.ChatResponse, error) {
	logger := zerolog.Ctx(ctx)

	if s.generator == nil {
		return nil, errs.NewServiceUnavailableError("The assistant is not configured", errs.Code("AI_UNAVAILABLE"))
	}

	history := req.History
	var conv *model.Conversation
	if actor != nil && req.ConversationID != "" {
		conv = s.ownedConversation(ctx, actor, req.ConversationID)
		if conv != nil {
			history = conv.Messages
		}
	}

	turns := ai.BuildContext(history, req.Message)

	start := s.now()
	reply, err := s.generator.Generate(ctx, turns)
	if err != nil {
		logger.Error().Err(err).Int("turns", len(turns)).Msg("assistant generation failed")
		return nil, errs.NewServiceUnavailableError("The assistant could not answer right now, please try again", errs.Code("AI_UNAVAILABLE"))
	}

	logger.Info().
		Int("turns", len(turns)).
		Dur("duration", s.now().Sub(start)).
		Str("model", s.generator.Model()).
		Msg("assistant replied")

	resp := &model.ChatResponse{Reply: reply, Model: s.generator.Model()}
	if actor != nil {
		resp.ConversationID = s.persist(ctx, actor, conv, req.Message, reply)
	}
	return resp, nil
}

// ownedConversation loads the conversation when it belongs to the actor.
// Anything else falls back to the client-supplied history.
func (s *ChatService) ownedConversation(ctx context.Context, actor *model.Actor, hexID string) *model.Conversation {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil
	}

	conv, err := s.conversations.Get(ctx, id, actor.ID.String())
	if err != nil {
		if !sqlerr.IsNotFound(err) {
			zerolog.Ctx(ctx).Error().Err(err).Str("conversation_id", hexID).Msg("failed to load conversation")
		}
		return nil
	}
	return conv
}

// persist stores the exchange and returns the conversation ID. Storage
// failures are logged; the reply is still delivered.
func (s *ChatService) persist(ctx context.Context, actor *model.Actor, conv *model.Conversation, message, reply string) string {
	logger := zerolog.Ctx(ctx)
	now := s.now().UTC()
	exchange := []model.ChatMessage{
		{Role: model.ChatRoleUser, Text: message, CreatedAt: now},
		{Role: model.ChatRoleModel, Text: reply, CreatedAt: now},
	}

	if conv != nil {
		if err := s.conversations.Append(ctx, conv.ID, conv.UserID, now, exchange...); err != nil {
			logger.Error().Err(err).Str("conversation_id", conv.ID.Hex()).Msg("failed to store chat exchange")
		}
		return conv.ID.Hex()
	}

	created, err := s.conversations.Create(ctx, &model.Conversation{
		UserID:    actor.ID.String(),
		Title:     ai.Title(message),
		Messages:  exchange,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to create conversation")
		return ""
	}
	return created.ID.Hex()
}

func (s *ChatService) ListConversations(ctx context.Context, actor *model.Actor, q *model.ListConversationsQuery) (*model.Paginated[model.ConversationSummary], error) {
	paging := q.Paging()
	items, total, err := s.conversations.List(ctx, actor.ID.String(), paging)
	if err != nil {
		return nil, err
	}
	return model.NewPaginated(items, paging, total), nil
}

func (s *ChatService) GetConversation(ctx context.Context, actor *model.Actor, req *model.ConversationIDRequest) (*model.Conversation, error) {
	id, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		return nil, errs.NewBadRequestError("Invalid conversation id", true, nil, nil, nil)
	}
	return s.conversations.Get(ctx, id, actor.ID.String())
}

func (s *ChatService) DeleteConversation(ctx context.Context, actor *model.Actor, req *model.ConversationIDRequest) error {
	id, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		return errs.NewBadRequestError("Invalid conversation id", true, nil, nil, nil)
	}
	return s.conversations.Delete(ctx, id, actor.ID.String())
}

// ExportConversation renders a stored conversation as a Markdown transcript.
func (s *ChatService) ExportConversation(ctx context.Context, actor *model.Actor, req *model.ConversationIDRequest) ([]byte, error) {
	conv, err := s.GetConversation(ctx, actor, req)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", conv.Title)
	for _, m := range conv.Messages {
		speaker := "You"
		if m.Role == model.ChatRoleModel {
			speaker = "Robo"
		}
		fmt.Fprintf(&b, "**%s**", speaker)
		if !m.CreatedAt.IsZero() {
			fmt.Fprintf(&b, " _(%s)_", m.CreatedAt.UTC().Format("2006-01-02 15:04"))
		}
		fmt.Fprintf(&b, "\n\n%s\n\n", m.Text)
	}
	return []byte(b.String()), nil
}
