package completion

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/wuwenbin0122/ryoku/internal/models"
	"github.com/wuwenbin0122/ryoku/internal/utils"
)

// Model is a configured model identifier bound to the backend that serves it.
type Model struct {
	ID       string
	Provider string
	Name     string

	client Client
}

// Resolver maps model identifiers to backends. Every identifier it will ever
// serve is resolved when it is built, so a typo fails at startup.
type Resolver struct {
	models map[string]Model
}

func NewResolver(providers map[string]Client, defaultProvider string, ids ...string) (*Resolver, error) {
	r := &Resolver{models: make(map[string]Model, len(ids))}

	for _, id := range ids {
		provider, name, err := ParseModelID(id, defaultProvider)
		if err != nil {
			return nil, err
		}

		client, ok := providers[provider]
		if !ok || client == nil {
			return nil, fmt.Errorf("%w: provider %q for model %q is not configured", ErrUnknownModel, provider, id)
		}

		r.models[strings.TrimSpace(id)] = Model{ID: id, Provider: provider, Name: name, client: client}
	}

	return r, nil
}

// Resolve returns the model registered under id.
func (r *Resolver) Resolve(id string) (Model, error) {
	model, ok := r.models[strings.TrimSpace(id)]
	if !ok {
		return Model{}, fmt.Errorf("%w: %q", ErrUnknownModel, id)
	}
	return model, nil
}

// Complete implements Client, taking a configured model identifier.
func (r *Resolver) Complete(ctx context.Context, id string, messages []models.Message) (string, error) {
	model, err := r.Resolve(id)
	if err != nil {
		return "", err
	}
	return model.client.Complete(ctx, model.Name, messages)
}

// NewProviders builds one client per supported backend from configuration.
func NewProviders(cfg utils.CompletionConfig, logger *zap.Logger) (map[string]Client, error) {
	providers := map[string]Client{
		ProviderOpenAI: NewOpenAI(cfg.BaseURL, cfg.APIKey),
	}

	if endpoint := strings.TrimSpace(cfg.OllamaEndpoint); endpoint != "" {
		u, err := url.Parse(endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("completion: invalid OLLAMA_ENDPOINT %q", endpoint)
		}
		providers[ProviderOllama] = NewOllama(u, http.DefaultClient)
	}

	if cfg.APIKey == "" {
		logger.Warn("completion api key is empty; openai-compatible backends may reject requests")
	}

	return providers, nil
}
