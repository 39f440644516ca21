// internal/ai/client.go
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	appErrors "github.com/orchestrate-labs/campaign-chat-backend/internal/errors"
)

// ChatTurn is one turn of a completion conversation.
type ChatTurn struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// CompletionClient is the boundary to the external text-generation service.
type CompletionClient interface {
	Complete(ctx context.Context, turns []ChatTurn, maxTokens int) (string, error)
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	Temperature float64
}

// DefaultConfig returns sensible defaults for the chat-completions API.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:      apiKey,
		BaseURL:     "https://api.openai.com/v1",
		Model:       "gpt-3.5-turbo",
		Timeout:     30 * time.Second,
		Temperature: 0.7,
	}
}

// Client implements CompletionClient against an OpenAI-style
// chat-completions endpoint.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	httpClient  *http.Client
}

func NewClient(apiKey string) *Client {
	return NewClientWithConfig(DefaultConfig(apiKey))
}

func NewClientWithConfig(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com/v1"
	}
	if config.Model == "" {
		config.Model = "gpt-3.5-turbo"
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &Client{
		apiKey:      config.APIKey,
		baseURL:     config.BaseURL,
		model:       config.Model,
		temperature: config.Temperature,
		httpClient:  &http.Client{Timeout: config.Timeout},
	}
}

type completionRequest struct {
	Model       string     `json:"model"`
	Messages    []ChatTurn `json:"messages"`
	MaxTokens   int        `json:"max_tokens,omitempty"`
	Temperature float64    `json:"temperature,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message ChatTurn `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends the conversation and returns the assistant's reply. All
// failures (transport, non-2xx, empty choices) come back as
// ExternalServiceError so the orchestrator can degrade uniformly.
func (c *Client) Complete(ctx context.Context, turns []ChatTurn, maxTokens int) (string, error) {
	reqBody := completionRequest{
		Model:       c.model,
		Messages:    turns,
		MaxTokens:   maxTokens,
		Temperature: c.temperature,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", appErrors.NewExternalService("completion", err)
	}
	defer resp.Body.Close()

	var body completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", appErrors.NewExternalService("completion", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Errorf("status %d", resp.StatusCode)
		if body.Error != nil {
			msg = fmt.Errorf("status %d: %s", resp.StatusCode, body.Error.Message)
		}
		return "", appErrors.NewExternalService("completion", msg)
	}
	if len(body.Choices) == 0 {
		return "", appErrors.NewExternalService("completion", fmt.Errorf("no choices returned"))
	}
	return body.Choices[0].Message.Content, nil
}

var _ CompletionClient = (*Client)(nil)
