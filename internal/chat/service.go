package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wuwenbin0122/ryoku/internal/completion"
	"github.com/wuwenbin0122/ryoku/internal/models"
	"github.com/wuwenbin0122/ryoku/internal/store"
)

var (
	ErrValidation       = errors.New("chat: user_id and new_message are required")
	ErrEmptyReply       = errors.New("chat: model returned an empty reply")
	ErrBothModelsFailed = errors.New("chat: primary and backup models failed")
)

// Config is fixed for the lifetime of a Service.
type Config struct {
	PrimaryModel string
	BackupModel  string
	Timeout      time.Duration
	SystemPrompt string
}

type Request struct {
	UserID  string
	Message string
}

type Response struct {
	Answer string
	// Model is the identifier that produced Answer.
	Model string
}

// Service answers one chat turn at a time: it loads the user's history, asks the
// primary model and then the backup model for a reply, and persists the turn.
type Service struct {
	cfg    Config
	store  store.Store
	client completion.Client
	logger *zap.Logger
	locks  *userLocks
}

func NewService(cfg Config, conversations store.Store, client completion.Client, logger *zap.Logger) (*Service, error) {
	if strings.TrimSpace(cfg.PrimaryModel) == "" || strings.TrimSpace(cfg.BackupModel) == "" {
		return nil, errors.New("chat: primary and backup models are required")
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("chat: completion timeout must be positive, got %s", cfg.Timeout)
	}
	if conversations == nil || client == nil {
		return nil, errors.New("chat: store and completion client are required")
	}
	if strings.TrimSpace(cfg.SystemPrompt) == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		cfg:    cfg,
		store:  conversations,
		client: client,
		logger: logger.Named("chat"),
		locks:  newUserLocks(),
	}, nil
}

// Handle runs a single conversational turn for req.UserID.
func (s *Service) Handle(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.Message) == "" {
		return nil, ErrValidation
	}

	unlock := s.locks.lock(req.UserID)
	defer unlock()

	history := s.store.Load(ctx, req.UserID)
	if len(history) == 0 {
		history = append(history, models.Message{Role: models.RoleSystem, Content: s.cfg.SystemPrompt})
	}
	history = append(history, models.Message{Role: models.RoleUser, Content: req.Message})

	reply, model, err := s.complete(ctx, req.UserID, history)
	if err != nil {
		s.logger.Error("chat turn failed", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, err
	}

	history = append(history, models.Message{Role: models.RoleAssistant, Content: reply})

	// the reply exists, so the turn is committed even if the caller has gone away
	if err := s.store.Save(context.WithoutCancel(ctx), req.UserID, history); err != nil {
		s.logger.Warn("save conversation failed", zap.String("user_id", req.UserID), zap.Error(err))
	}

	return &Response{Answer: reply, Model: model}, nil
}

func (s *Service) complete(ctx context.Context, userID string, history []models.Message) (string, string, error) {
	var lastErr error

	for _, model := range []string{s.cfg.PrimaryModel, s.cfg.BackupModel} {
		reply, err := s.attempt(ctx, model, history)
		if err == nil {
			return reply, model, nil
		}

		lastErr = err
		s.logger.Warn("completion attempt failed",
			zap.String("user_id", userID),
			zap.String("model", model),
			zap.Error(err),
		)
	}

	return "", "", fmt.Errorf("%w: %w", ErrBothModelsFailed, lastErr)
}

func (s *Service) attempt(ctx context.Context, model string, history []models.Message) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	reply, err := s.client.Complete(attemptCtx, model, models.CloneMessages(history))
	if err != nil {
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, completion.ErrTimeout) {
			return "", fmt.Errorf("%w: %w", completion.ErrTimeout, err)
		}
		return "", err
	}

	if strings.TrimSpace(reply) == "" {
		return "", ErrEmptyReply
	}

	return reply, nil
}
