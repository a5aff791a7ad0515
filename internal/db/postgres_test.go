package db_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wuwenbin0122/ryoku/internal/db"
	"github.com/wuwenbin0122/ryoku/internal/utils"
)

func TestPostgresEnsureSchema(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping postgres integration test")
	}

	store, err := db.NewPostgres(context.Background(), utils.DatabaseConfig{
		URL:            dsn,
		ConnectTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	defer store.Close()

	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}

	// twice, to check the statement is idempotent
	for i := 0; i < 2; i++ {
		if err := store.EnsureSchema(context.Background()); err != nil {
			t.Fatalf("ensure schema failed: %v", err)
		}
	}

	ctx := context.Background()
	userID := uuid.NewString()
	if _, err := store.Pool.Exec(ctx, "INSERT INTO conversations (user_id) VALUES ($1)", userID); err != nil {
		t.Fatalf("failed to insert conversation: %v", err)
	}
	defer store.Pool.Exec(ctx, "DELETE FROM conversations WHERE user_id = $1", userID)

	var messages string
	if err := store.Pool.QueryRow(ctx, "SELECT messages::text FROM conversations WHERE user_id = $1", userID).Scan(&messages); err != nil {
		t.Fatalf("failed to fetch conversation: %v", err)
	}
	if messages != "[]" {
		t.Fatalf("expected empty message array by default, got %s", messages)
	}
}

func TestNewPostgresRejectsBadDSN(t *testing.T) {
	if _, err := db.NewPostgres(context.Background(), utils.DatabaseConfig{URL: "postgres://%zz"}); err == nil {
		t.Fatalf("expected parse error for malformed dsn")
	}
}
