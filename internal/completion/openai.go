package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/wuwenbin0122/ryoku/internal/models"
)

type chatCompletions interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAI talks to any OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	completions chatCompletions
}

func NewOpenAI(baseURL, apiKey string, opts ...option.RequestOption) *OpenAI {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = "https://api.openai.com/v1"
	}

	clientOpts := []option.RequestOption{
		option.WithBaseURL(base + "/"),
		option.WithMaxRetries(0),
	}
	if apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(apiKey))
	}
	clientOpts = append(clientOpts, opts...)

	client := openai.NewClient(clientOpts...)
	return &OpenAI{completions: &client.Chat.Completions}
}

func (c *OpenAI) Complete(ctx context.Context, model string, messages []models.Message) (string, error) {
	res, err := c.completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    model,
		Messages: toOpenAIMessages(messages),
		N:        openai.Int(1),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", classify(ctx, err, isUnavailableStatus(apiErr.StatusCode))
		}
		// no status code means the request never got an answer
		return "", classify(ctx, err, true)
	}

	if res == nil || len(res.Choices) == 0 {
		return "", fmt.Errorf("%w: response contained no choices", ErrProtocol)
	}

	return res.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []models.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case models.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case models.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}
