package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wuwenbin0122/ryoku/internal/models"
)

var (
	ErrTimeout          = errors.New("completion: timed out")
	ErrModelUnavailable = errors.New("completion: model unavailable")
	ErrProtocol         = errors.New("completion: protocol error")
	ErrUnknownModel     = errors.New("completion: unknown model")
)

// Client produces a single reply for an ordered message history.
// Implementations make exactly one backend call and never retry.
type Client interface {
	Complete(ctx context.Context, model string, messages []models.Message) (string, error)
}

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// ParseModelID splits "provider:name" identifiers. A bare name uses defaultProvider.
func ParseModelID(id, defaultProvider string) (provider, name string, err error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "", fmt.Errorf("%w: empty model identifier", ErrUnknownModel)
	}

	provider, name, found := strings.Cut(id, ":")
	if !found {
		provider, name = defaultProvider, id
	}

	provider = strings.ToLower(strings.TrimSpace(provider))
	name = strings.TrimSpace(name)
	if provider == "" || name == "" {
		return "", "", fmt.Errorf("%w: malformed identifier %q", ErrUnknownModel, id)
	}

	return provider, name, nil
}

// classify maps a backend error onto the package's error kinds.
func classify(ctx context.Context, err error, unavailable bool) error {
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if unavailable {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	return fmt.Errorf("%w: %v", ErrProtocol, err)
}

func isUnavailableStatus(status int) bool {
	return status == 404 || status == 408 || status == 429 || status >= 500
}
