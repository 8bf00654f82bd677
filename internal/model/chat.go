package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatRole names the author of a chat turn, using the model provider's
// vocabulary.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	Role      ChatRole  `json:"role" bson:"role" validate:"required,oneof=user model"`
	Text      string    `json:"text" bson:"text" validate:"max=8000"`
	CreatedAt time.Time `json:"created_at,omitzero" bson:"created_at,omitempty"`
}

const ChatMessageMaxLen = 4000

type ChatRequest struct {
	Message        string        `json:"message" validate:"required,nonblank,max=4000"`
	ConversationID string        `json:"conversation_id" validate:"omitempty,objectid"`
	History        []ChatMessage `json:"history" validate:"omitempty,max=100,dive"`
}

func (r *ChatRequest) Validate() error {
	r.Message = strings.TrimSpace(r.Message)
	return validate(r)
}

type ChatResponse struct {
	Reply          string `json:"reply"`
	ConversationID string `json:"conversation_id,omitempty"`
	Model          string `json:"model"`
}

// Conversation is a stored chat thread owned by a single user.
type Conversation struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"user_id" bson:"user_id"`
	Title     string             `json:"title" bson:"title"`
	Messages  []ChatMessage      `json:"messages" bson:"messages"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// ConversationSummary is the list form of a conversation.
type ConversationSummary struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	Title        string             `json:"title" bson:"title"`
	MessageCount int                `json:"message_count" bson:"message_count"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

type ConversationIDRequest struct {
	ID string `param:"id" json:"-" validate:"required,objectid"`
}

func (r *ConversationIDRequest) Validate() error {
	return validate(r)
}

type ListConversationsQuery struct {
	Page  int `query:"page" json:"page" validate:"omitempty,min=1"`
	Limit int `query:"limit" json:"limit" validate:"omitempty,min=1,max=100"`
}

func (r *ListConversationsQuery) Validate() error {
	return validate(r)
}

func (r *ListConversationsQuery) Paging() ListQuery {
	q := ListQuery{Page: r.Page, Limit: r.Limit, Sort: SortNewest}
	q.Normalize()
	return q
}
