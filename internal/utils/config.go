package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServerPort string
	Completion CompletionConfig
	Database   DatabaseConfig
	Logging    LoggingConfig
}

// CompletionConfig selects the models and backends used to answer chat turns.
type CompletionConfig struct {
	PrimaryModel    string
	BackupModel     string
	Timeout         time.Duration
	DefaultProvider string
	BaseURL         string
	APIKey          string
	OllamaEndpoint  string
}

// DatabaseConfig describes conversation persistence. An empty URL means stateless mode.
type DatabaseConfig struct {
	URL             string
	ConnectTimeout  time.Duration
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	MongoDatabase   string
	RedisTTL        time.Duration
}

type LoggingConfig struct {
	Level        string
	Encoding     string
	Development  bool
	EnableCaller bool
	ServiceName  string
	File         string
}

// Enabled reports whether conversations are persisted between requests.
func (d DatabaseConfig) Enabled() bool {
	return strings.TrimSpace(d.URL) != ""
}

func LoadConfig() (*Config, error) {
	logging := LoggingConfig{
		Level:        strings.ToLower(envOrDefault("LOG_LEVEL", "info")),
		Encoding:     strings.ToLower(envOrDefault("LOG_ENCODING", "console")),
		Development:  parseBool(envOrDefault("LOG_DEVELOPMENT", "false"), false),
		EnableCaller: parseBool(envOrDefault("LOG_CALLER", "false"), false),
		ServiceName:  envOrDefault("SERVICE_NAME", "ryoku"),
		File:         strings.TrimSpace(os.Getenv("LOG_FILE")),
	}

	primary := firstNonEmpty(os.Getenv("PRIMARY_MODEL"), os.Getenv("G4F_MODEL_NAME"), "openai:gpt-4o-mini")

	cfg := &Config{
		ServerPort: envOrDefault("PORT", "8080"),
		Completion: CompletionConfig{
			PrimaryModel:    strings.TrimSpace(primary),
			BackupModel:     strings.TrimSpace(envOrDefault("BACKUP_MODEL", "openai:gpt-3.5-turbo")),
			Timeout:         parseDuration(envOrDefault("COMPLETION_TIMEOUT", "30s"), 30*time.Second),
			DefaultProvider: strings.ToLower(envOrDefault("COMPLETION_PROVIDER", "openai")),
			BaseURL:         strings.TrimRight(envOrDefault("COMPLETION_BASE_URL", "https://api.openai.com/v1"), "/"),
			APIKey:          firstNonEmpty(os.Getenv("COMPLETION_API_KEY"), os.Getenv("OPENAI_API_KEY")),
			OllamaEndpoint:  envOrDefault("OLLAMA_ENDPOINT", "http://localhost:11434"),
		},
		Database: DatabaseConfig{
			URL:             strings.TrimSpace(os.Getenv("DATABASE_URL")),
			ConnectTimeout:  parseDuration(envOrDefault("DATABASE_CONNECT_TIMEOUT", "5s"), 5*time.Second),
			MaxConns:        parseInt32(envOrDefault("POSTGRES_MAX_CONNS", "8"), 8),
			MinConns:        parseInt32(envOrDefault("POSTGRES_MIN_CONNS", "1"), 1),
			MaxConnLifetime: parseDuration(envOrDefault("POSTGRES_MAX_CONN_LIFETIME", "1h"), time.Hour),
			MaxConnIdleTime: parseDuration(envOrDefault("POSTGRES_MAX_CONN_IDLE", "30m"), 30*time.Minute),
			MongoDatabase:   envOrDefault("MONGO_DATABASE", "ryoku"),
			RedisTTL:        parseDuration(envOrDefault("REDIS_TTL", "0s"), 0),
		},
		Logging: logging,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the chat service cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.Completion.PrimaryModel == "" {
		errs = append(errs, errors.New("PRIMARY_MODEL must not be empty"))
	}
	if c.Completion.BackupModel == "" {
		errs = append(errs, errors.New("BACKUP_MODEL must not be empty"))
	}
	if c.Completion.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("COMPLETION_TIMEOUT must be positive, got %s", c.Completion.Timeout))
	}
	if c.Database.RedisTTL < 0 {
		errs = append(errs, fmt.Errorf("REDIS_TTL must not be negative, got %s", c.Database.RedisTTL))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

func parseInt32(value string, fallback int32) int32 {
	i, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return int32(i)
}

func parseBool(value string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return v
}
