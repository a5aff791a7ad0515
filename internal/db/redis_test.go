package db_test

import (
	"context"
	"testing"

	"github.com/wuwenbin0122/ryoku/internal/db"
	"github.com/wuwenbin0122/ryoku/internal/utils"
)

func TestNewRedisRejectsBadURL(t *testing.T) {
	if _, err := db.NewRedis(context.Background(), utils.DatabaseConfig{URL: "http://localhost:6379"}); err == nil {
		t.Fatalf("expected error for non-redis scheme")
	}
}
