// Package anthropic implements pkg/llm's Client against Anthropic's messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/papergrid/askdocs/pkg/llm"
)

const (
	// DefaultModel is the default completion model.
	DefaultModel = "claude-haiku-4-5-20251001"

	// DefaultBaseURL is the default Anthropic API URL.
	DefaultBaseURL = "https://api.anthropic.com"

	// apiVersion is the required anthropic-version header value.
	apiVersion = "2023-06-01"

	// defaultMaxTokens applies when the request does not set a budget, since
	// the messages API requires max_tokens.
	defaultMaxTokens = 1024
)

// Client wraps Anthropic's messages API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// Config holds configuration for the Anthropic client.
type Config struct {
	// BaseURL is the API URL. Defaults to DefaultBaseURL if empty.
	BaseURL string

	// APIKey authenticates requests. Required.
	APIKey string

	// Model is the completion model. Defaults to DefaultModel if empty.
	Model string
}

// NewClient creates a new Anthropic completion client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// Complete issues one messages call and returns the concatenated text blocks.
// System messages are lifted into the top-level system field since the
// messages API rejects them inside the messages array.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	var system string
	messages := make([]message, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role == llm.RoleSystem {
			system = m.Content
			continue
		}
		messages = append(messages, message{Role: m.Role, Content: m.Content})
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	body := messagesRequest{
		Model:         c.model,
		MaxTokens:     maxTokens,
		Messages:      messages,
		System:        system,
		Temperature:   req.Temperature,
		StopSequences: req.Stop,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%w: marshaling request: %v", llm.ErrGeneration, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %v", llm.ErrGeneration, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: sending request: %v", llm.ErrGeneration, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: anthropic returned status %d: %s", llm.ErrGeneration, resp.StatusCode, string(respBody))
	}

	var msgResp messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&msgResp); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", llm.ErrGeneration, err)
	}

	if msgResp.Error != nil {
		return "", fmt.Errorf("%w: anthropic error: %s", llm.ErrGeneration, msgResp.Error.Message)
	}

	var sb strings.Builder
	for _, block := range msgResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: anthropic returned no text content", llm.ErrGeneration)
	}

	return sb.String(), nil
}

// Close releases resources held by the client.
func (c *Client) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}
