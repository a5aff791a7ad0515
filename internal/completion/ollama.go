package completion

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"

	"github.com/wuwenbin0122/ryoku/internal/models"
)

// Ollama serves models from a local or remote Ollama daemon.
type Ollama struct {
	client *api.Client
}

func NewOllama(endpoint *url.URL, httpClient *http.Client) *Ollama {
	return &Ollama{client: api.NewClient(endpoint, httpClient)}
}

func (c *Ollama) Complete(ctx context.Context, model string, messages []models.Message) (string, error) {
	stream := false
	var reply string

	err := c.client.Chat(ctx, &api.ChatRequest{
		Model:    model,
		Messages: toOllamaMessages(messages),
		Stream:   &stream,
	}, func(resp api.ChatResponse) error {
		reply += resp.Message.Content
		return nil
	})
	if err != nil {
		var statusErr api.StatusError
		if errors.As(err, &statusErr) {
			return "", classify(ctx, err, isUnavailableStatus(statusErr.StatusCode))
		}
		return "", classify(ctx, err, true)
	}

	return reply, nil
}

func toOllamaMessages(messages []models.Message) []api.Message {
	out := make([]api.Message, 0, len(messages))
	for _, msg := range messages {
		out = append(out, api.Message{Role: string(msg.Role), Content: msg.Content})
	}
	return out
}
