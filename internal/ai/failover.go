// Package ai implements script generation through an ordered cascade of
// OpenAI-compatible chat completion providers.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/verbalist/podcast-studio/podcast"
)

//go:generate moq -out mocks/http_client.go -pkg mocks -skip-ensure -fmt goimports . HTTPClient

// HTTPClient defines the interface for HTTP client operations
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Provider describes one chat completion backend in the cascade
type Provider struct {
	Name     string `yaml:"name"`
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"-"`
}

// Message is a role-tagged prompt entry in the chat completion format
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// request parameters shared by every provider
const (
	providerTimeout = 30 * time.Second
	temperature     = 0.7
	maxTokens       = 2000
)

// FailoverClient tries an ordered list of providers until one succeeds.
// The provider list is fixed at construction; order is a preference list,
// not load balancing.
type FailoverClient struct {
	providers  []Provider
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewFailoverClient creates a failover client over the given provider list
func NewFailoverClient(providers []Provider, httpClient HTTPClient, log zerolog.Logger) *FailoverClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: providerTimeout}
	}
	return &FailoverClient{
		providers:  providers,
		httpClient: httpClient,
		log:        log.With().Str("component", "ai").Logger(),
	}
}

// Generate sends the messages to each configured provider in order and
// returns the first successful completion. Providers without credentials are
// skipped without counting as failures; each remaining provider gets exactly
// one attempt. When the cascade is exhausted the error aggregates the last
// underlying failure.
func (c *FailoverClient) Generate(ctx context.Context, messages []Message) (string, error) {
	var lastErr error

	for _, provider := range c.providers {
		if provider.APIKey == "" {
			c.log.Debug().Str("provider", provider.Name).Msg("skipping provider, no API key configured")
			continue
		}

		c.log.Info().Str("provider", provider.Name).Str("model", provider.Model).Msg("trying provider")

		content, err := c.call(ctx, provider, messages)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", provider.Name, err)
			c.log.Warn().Err(err).Str("provider", provider.Name).Msg("provider failed")
			continue
		}

		c.log.Info().Str("provider", provider.Name).Msg("successfully generated script")
		return content, nil
	}

	return "", &podcast.ProviderExhaustedError{Last: lastErr}
}

// chatRequest is the OpenAI-compatible chat completion request body
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// call issues a single bounded request to one provider
func (c *FailoverClient) call(ctx context.Context, provider Provider, messages []Message) (string, error) {
	requestBody, err := json.Marshal(chatRequest{
		Model:       provider.Model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, provider.Endpoint, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+provider.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return result.Choices[0].Message.Content, nil
}
