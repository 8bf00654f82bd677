package database

import (
	"context"
	"fmt"
	"time"

	"github.com/elanurleylek/robosphere-sub000/internal/config"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConversationsCollection stores chat threads, one document per conversation.
const ConversationsCollection = "conversations"

// Mongo wraps the MongoDB client and the application database handle.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
	log    *zerolog.Logger
}

// NewMongo connects to MongoDB, pings the primary and ensures indexes.
func NewMongo(ctx context.Context, cfg config.MongoConfig, logger *zerolog.Logger) (*Mongo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, DatabasePingTimeout*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(config.ServiceName).
		SetServerSelectionTimeout(DatabasePingTimeout * time.Second)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	m := &Mongo{
		Client: client,
		DB:     client.Database(cfg.Database),
		log:    logger,
	}

	if err := m.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info().Str("database", cfg.Database).Msg("connected to mongo")

	return m, nil
}

func (m *Mongo) ensureIndexes(ctx context.Context) error {
	_, err := m.DB.Collection(ConversationsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "updated_at", Value: -1}},
		Options: options.Index().SetName("user_id_updated_at"),
	})
	if err != nil {
		return fmt.Errorf("creating conversation indexes: %w", err)
	}
	return nil
}

// Ping checks that the primary is reachable.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	m.log.Info().Msg("closing mongo connection")
	return m.Client.Disconnect(ctx)
}
