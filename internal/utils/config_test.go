package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "PRIMARY_MODEL", "G4F_MODEL_NAME", "BACKUP_MODEL", "COMPLETION_TIMEOUT",
		"COMPLETION_PROVIDER", "COMPLETION_BASE_URL", "COMPLETION_API_KEY", "OPENAI_API_KEY",
		"OLLAMA_ENDPOINT", "DATABASE_URL", "REDIS_TTL", "LOG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "openai:gpt-4o-mini", cfg.Completion.PrimaryModel)
	assert.Equal(t, "openai:gpt-3.5-turbo", cfg.Completion.BackupModel)
	assert.Equal(t, 30*time.Second, cfg.Completion.Timeout)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Completion.BaseURL)
	assert.False(t, cfg.Database.Enabled())
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("G4F_MODEL_NAME", "ollama:llama3")
	t.Setenv("BACKUP_MODEL", "gpt-4o")
	t.Setenv("COMPLETION_TIMEOUT", "12s")
	t.Setenv("COMPLETION_BASE_URL", "http://gateway.local/v1/")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DATABASE_URL", "redis://localhost:6379/0")
	t.Setenv("REDIS_TTL", "24h")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "ollama:llama3", cfg.Completion.PrimaryModel)
	assert.Equal(t, "gpt-4o", cfg.Completion.BackupModel)
	assert.Equal(t, 12*time.Second, cfg.Completion.Timeout)
	assert.Equal(t, "http://gateway.local/v1", cfg.Completion.BaseURL)
	assert.Equal(t, "sk-test", cfg.Completion.APIKey)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, 24*time.Hour, cfg.Database.RedisTTL)
}

func TestLoadConfigPrimaryModelTakesPrecedence(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PRIMARY_MODEL", "openai:gpt-4o")
	t.Setenv("G4F_MODEL_NAME", "ollama:llama3")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "openai:gpt-4o", cfg.Completion.PrimaryModel)
}

func TestLoadConfigRejectsNonPositiveTimeout(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("COMPLETION_TIMEOUT", "0s")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestNewLoggerWritesToFile(t *testing.T) {
	path := t.TempDir() + "/ryoku.log"

	logger, err := NewLogger(LoggingConfig{Level: "debug", Encoding: "json", ServiceName: "ryoku-test", File: path})
	require.NoError(t, err)
	logger.Info("hello file")
	_ = logger.Sync()

	assert.FileExists(t, path)
}
