package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/wuwenbin0122/ryoku/internal/models"
)

// Postgres stores each user's history as one JSONB array row.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) *Postgres {
	return &Postgres{pool: pool, logger: logger.Named("store.postgres")}
}

func (p *Postgres) Load(ctx context.Context, userID string) []models.Message {
	var raw []byte
	err := p.pool.QueryRow(ctx, "SELECT messages FROM conversations WHERE user_id = $1", userID).Scan(&raw)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			p.logger.Warn("load conversation failed", zap.String("user_id", userID), zap.Error(err))
		}
		return []models.Message{}
	}

	return decodeMessages(raw, userID, p.logger)
}

func (p *Postgres) Save(ctx context.Context, userID string, messages []models.Message) error {
	payload, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("postgres: encode messages: %w", err)
	}

	const query = `INSERT INTO conversations (user_id, messages, updated_at)
VALUES ($1, $2::jsonb, NOW())
ON CONFLICT (user_id) DO UPDATE SET messages = EXCLUDED.messages, updated_at = EXCLUDED.updated_at`

	if _, err := p.pool.Exec(ctx, query, userID, string(payload)); err != nil {
		return fmt.Errorf("postgres: save conversation: %w", err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, userID string) error {
	if _, err := p.pool.Exec(ctx, "DELETE FROM conversations WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("postgres: delete conversation: %w", err)
	}
	return nil
}

func decodeMessages(raw []byte, userID string, logger *zap.Logger) []models.Message {
	var messages []models.Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		logger.Warn("decode conversation failed", zap.String("user_id", userID), zap.Error(err))
		return []models.Message{}
	}
	if messages == nil {
		return []models.Message{}
	}
	return messages
}
