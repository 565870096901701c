// Package llm implements the completion client port against the Perplexity
// chat completions API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/listflow/backend/internal/domain/listing"
)

const (
	defaultBaseURL        = "https://api.perplexity.ai"
	defaultTimeoutSeconds = 120

	// maxResponseSize limits the response body size to prevent memory exhaustion
	maxResponseSize = 10 * 1024 * 1024 // 10MB max response
)

// Config holds Perplexity API settings
type Config struct {
	// BaseURL is the API base, overridable for tests
	BaseURL string `mapstructure:"base_url"`
	// APIKey authenticates every request
	APIKey string `mapstructure:"api_key"`
	// Model names the completion model, e.g. "sonar"
	Model string `mapstructure:"model"`
	// TimeoutSeconds bounds every completion call
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// Validate checks required settings and fills defaults
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("llm: api_key is required")
	}
	if c.Model == "" {
		return errors.New("llm: model is required")
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultTimeoutSeconds
	}
	return nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type jsonSchemaFormat struct {
	Schema map[string]any `json:"schema"`
}

type responseFormat struct {
	Type       string           `json:"type"`
	JSONSchema jsonSchemaFormat `json:"json_schema"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatChoice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// Client talks to the Perplexity chat completions API
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a completion client for the given configuration
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: time.Duration(config.TimeoutSeconds) * time.Second},
	}, nil
}

// Complete sends a role-tagged conversation and returns the single answer.
// schema, when non-nil, constrains the answer through the json_schema
// response format. A response with zero or more than one choice fails.
func (c *Client) Complete(ctx context.Context, messages []listing.Message, schema map[string]any) (string, error) {
	request := chatRequest{
		Model:    c.config.Model,
		Messages: make([]chatMessage, 0, len(messages)),
	}
	for _, m := range messages {
		request.Messages = append(request.Messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}
	if schema != nil {
		request.ResponseFormat = &responseFormat{
			Type:       "json_schema",
			JSONSchema: jsonSchemaFormat{Schema: schema},
		}
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode request: %w", listing.ErrCompletion, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %w", listing.ErrCompletion, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %w", listing.ErrCompletion, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %w", listing.ErrCompletion, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d: %s", listing.ErrCompletion, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: failed to parse response: %w", listing.ErrCompletion, err)
	}
	if len(parsed.Choices) != 1 {
		return "", fmt.Errorf("%w: expected exactly one choice, got %d", listing.ErrCompletion, len(parsed.Choices))
	}
	content := parsed.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("%w: empty answer", listing.ErrCompletion)
	}
	return content, nil
}

var _ listing.CompletionClient = (*Client)(nil)
