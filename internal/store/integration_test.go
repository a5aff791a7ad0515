package store_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wuwenbin0122/ryoku/internal/db"
	"github.com/wuwenbin0122/ryoku/internal/models"
	"github.com/wuwenbin0122/ryoku/internal/store"
	"github.com/wuwenbin0122/ryoku/internal/utils"
)

func exerciseStore(t *testing.T, s interface {
	store.Store
	store.Deleter
}) {
	t.Helper()
	ctx := context.Background()
	userID := "user_" + uuid.NewString()

	assert.Empty(t, s.Load(ctx, userID))

	require.NoError(t, s.Save(ctx, userID, sampleHistory[:2]))
	require.NoError(t, s.Save(ctx, userID, sampleHistory))
	assert.Equal(t, sampleHistory, s.Load(ctx, userID))

	require.NoError(t, s.Delete(ctx, userID))
	assert.Empty(t, s.Load(ctx, userID))
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping postgres integration test")
	}

	pg, err := db.NewPostgres(context.Background(), utils.DatabaseConfig{URL: dsn, ConnectTimeout: 5 * time.Second})
	require.NoError(t, err)
	defer pg.Close()
	require.NoError(t, pg.EnsureSchema(context.Background()))

	exerciseStore(t, store.NewPostgres(pg.Pool, zap.NewNop()))
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set; skipping mongo integration test")
	}

	database := "ryoku_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	m, err := db.NewMongo(context.Background(), utils.DatabaseConfig{
		URL:            uri,
		MongoDatabase:  database,
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	defer func() {
		ctx := context.Background()
		_ = m.Database.Drop(ctx)
		_ = m.Close(ctx)
	}()
	require.NoError(t, m.EnsureCollections(context.Background()))

	exerciseStore(t, store.NewMongo(m.Conversations, zap.NewNop()))
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set; skipping redis integration test")
	}

	client, err := db.NewRedis(context.Background(), utils.DatabaseConfig{URL: url, ConnectTimeout: 5 * time.Second})
	require.NoError(t, err)
	defer client.Close()

	exerciseStore(t, store.NewRedis(client, time.Minute, zap.NewNop()))
}

func TestRedisStoreSkipsCorruptRecords(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set; skipping redis integration test")
	}

	client, err := db.NewRedis(context.Background(), utils.DatabaseConfig{URL: url, ConnectTimeout: 5 * time.Second})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	userID := "user_" + uuid.NewString()
	require.NoError(t, client.Set(ctx, "ryoku:conversation:"+userID, "not json", time.Minute).Err())
	defer client.Del(ctx, "ryoku:conversation:"+userID)

	s := store.NewRedis(client, time.Minute, zap.NewNop())
	assert.Equal(t, []models.Message{}, s.Load(ctx, userID))
}
