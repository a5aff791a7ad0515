package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/wuwenbin0122/ryoku/internal/models"
)

// Mongo stores one document per user in the conversations collection.
type Mongo struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

func NewMongo(collection *mongo.Collection, logger *zap.Logger) *Mongo {
	return &Mongo{collection: collection, logger: logger.Named("store.mongo")}
}

func (m *Mongo) Load(ctx context.Context, userID string) []models.Message {
	var doc models.Conversation
	err := m.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			m.logger.Warn("load conversation failed", zap.String("user_id", userID), zap.Error(err))
		}
		return []models.Message{}
	}

	if doc.Messages == nil {
		return []models.Message{}
	}
	return doc.Messages
}

func (m *Mongo) Save(ctx context.Context, userID string, messages []models.Message) error {
	doc := models.Conversation{
		UserID:    userID,
		Messages:  messages,
		UpdatedAt: time.Now().UTC(),
	}

	_, err := m.collection.ReplaceOne(ctx, bson.M{"user_id": userID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo: save conversation: %w", err)
	}
	return nil
}

func (m *Mongo) Delete(ctx context.Context, userID string) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("mongo: delete conversation: %w", err)
	}
	return nil
}
