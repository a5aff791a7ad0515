package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wuwenbin0122/ryoku/internal/models"
)

const redisKeyPrefix = "ryoku:conversation:"

// Redis stores each history as a JSON string. A zero ttl keeps records forever.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedis(client *redis.Client, ttl time.Duration, logger *zap.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, logger: logger.Named("store.redis")}
}

func (r *Redis) Load(ctx context.Context, userID string) []models.Message {
	raw, err := r.client.Get(ctx, redisKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("load conversation failed", zap.String("user_id", userID), zap.Error(err))
		}
		return []models.Message{}
	}

	return decodeMessages(raw, userID, r.logger)
}

func (r *Redis) Save(ctx context.Context, userID string, messages []models.Message) error {
	payload, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("redis: encode messages: %w", err)
	}

	if err := r.client.Set(ctx, redisKey(userID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis: save conversation: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, redisKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis: delete conversation: %w", err)
	}
	return nil
}

func redisKey(userID string) string {
	return redisKeyPrefix + userID
}
