package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wuwenbin0122/ryoku/internal/db"
	"github.com/wuwenbin0122/ryoku/internal/models"
	"github.com/wuwenbin0122/ryoku/internal/utils"
)

var ErrUnsupportedURL = errors.New("store: unsupported DATABASE_URL scheme")

// Store keeps per-user conversation history between requests.
// Load never fails: a missing or unreadable history is returned as empty.
type Store interface {
	Load(ctx context.Context, userID string) []models.Message
	Save(ctx context.Context, userID string, messages []models.Message) error
}

// Deleter is implemented by stores that can forget a user's history.
type Deleter interface {
	Delete(ctx context.Context, userID string) error
}

// Open selects the store variant for cfg.URL. The returned close func is never nil.
func Open(ctx context.Context, cfg utils.DatabaseConfig, logger *zap.Logger) (Store, func(), error) {
	noop := func() {}

	if !cfg.Enabled() {
		logger.Info("DATABASE_URL not set; conversations will not be persisted")
		return Stateless{}, noop, nil
	}

	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, noop, fmt.Errorf("store: parse DATABASE_URL: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "memory":
		return NewMemory(), noop, nil

	case "postgres", "postgresql":
		pg, err := db.NewPostgres(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		if err := pg.Ping(ctx); err != nil {
			pg.Close()
			return nil, noop, fmt.Errorf("postgres: ping failed: %w", err)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, noop, err
		}
		return NewPostgres(pg.Pool, logger), pg.Close, nil

	case "mongodb", "mongodb+srv":
		m, err := db.NewMongo(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		closeMongo := func() {
			if err := m.Close(context.Background()); err != nil {
				logger.Warn("mongo close failed", zap.Error(err))
			}
		}
		if err := m.EnsureCollections(ctx); err != nil {
			closeMongo()
			return nil, noop, err
		}
		return NewMongo(m.Conversations, logger), closeMongo, nil

	case "redis", "rediss":
		client, err := db.NewRedis(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		closeRedis := func() {
			if err := client.Close(); err != nil {
				logger.Warn("redis close failed", zap.Error(err))
			}
		}
		return NewRedis(client, cfg.RedisTTL, logger), closeRedis, nil

	default:
		return nil, noop, fmt.Errorf("%w: %q", ErrUnsupportedURL, u.Scheme)
	}
}

// Stateless is used when persistence is disabled.
type Stateless struct{}

func (Stateless) Load(context.Context, string) []models.Message { return []models.Message{} }

func (Stateless) Save(context.Context, string, []models.Message) error { return nil }

// Memory keeps histories in process memory. Useful for development and tests.
type Memory struct {
	mu            sync.RWMutex
	conversations map[string][]models.Message
}

func NewMemory() *Memory {
	return &Memory{conversations: make(map[string][]models.Message)}
}

func (m *Memory) Load(_ context.Context, userID string) []models.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return models.CloneMessages(m.conversations[userID])
}

func (m *Memory) Save(_ context.Context, userID string, messages []models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversations[userID] = models.CloneMessages(messages)
	return nil
}

func (m *Memory) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conversations, userID)
	return nil
}
