package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/elanurleylek/robosphere-sub000/internal/database"
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/elanurleylek/robosphere-sub000/internal/sqlerr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MaxStoredMessages caps a conversation document; older turns are
// discarded on append.
const MaxStoredMessages = 200

type ConversationRepository struct {
	coll *mongo.Collection
}

func NewConversationRepository(db *mongo.Database) *ConversationRepository {
	return &ConversationRepository{coll: db.Collection(database.ConversationsCollection)}
}

func (r *ConversationRepository) Create(ctx context.Context, c *model.Conversation) (*model.Conversation, error) {
	if c.Messages == nil {
		c.Messages = []model.ChatMessage{}
	}

	res, err := r.coll.InsertOne(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to insert conversation for user_id=%s: %w", c.UserID, err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = id
	}
	return c, nil
}

// Get returns the conversation only when it belongs to userID.
func (r *ConversationRepository) Get(ctx context.Context, id primitive.ObjectID, userID string) (*model.Conversation, error) {
	var c model.Conversation
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&c)
	if err != nil {
		return nil, sqlerr.WrapNotFound("conversations", err)
	}
	return &c, nil
}

// Append pushes messages onto the conversation and bumps updated_at.
func (r *ConversationRepository) Append(ctx context.Context, id primitive.ObjectID, userID string, at time.Time, msgs ...model.ChatMessage) error {
	update := bson.M{
		"$push": bson.M{"messages": bson.M{"$each": msgs, "$slice": -MaxStoredMessages}},
		"$set":  bson.M{"updated_at": at},
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id, "user_id": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to append to conversation id=%s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return sqlerr.WrapNotFound("conversations", mongo.ErrNoDocuments)
	}
	return nil
}

// List returns the user's conversations, most recently active first.
func (r *ConversationRepository) List(ctx context.Context, userID string, q model.ListQuery) ([]model.ConversationSummary, int, error) {
	filter := bson.M{"user_id": userID}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count conversations: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetSkip(int64(q.Offset())).
		SetLimit(int64(q.Limit)).
		SetProjection(bson.M{
			"title":         1,
			"created_at":    1,
			"updated_at":    1,
			"message_count": bson.M{"$size": bson.M{"$ifNull": bson.A{"$messages", bson.A{}}}},
		})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list conversations: %w", err)
	}

	var items []model.ConversationSummary
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("failed to decode conversations: %w", err)
	}

	return items, int(total), nil
}

func (r *ConversationRepository) Delete(ctx context.Context, id primitive.ObjectID, userID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete conversation id=%s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return sqlerr.WrapNotFound("conversations", mongo.ErrNoDocuments)
	}
	return nil
}
