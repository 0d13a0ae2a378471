// Package llm talks to the external structured-completion service. It builds
// strict prompt/schema requests, decodes responses, and repairs malformed
// structured output with at most one additional service call.
package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrServiceFailure wraps completion-service transport and status errors.
var ErrServiceFailure = errors.New("llm: completion service failure")

// ImagePart is an inline image attached to a completion request.
type ImagePart struct {
	MIMEType string
	Data     []byte
}

// Request is one structured-completion call.
type Request struct {
	System    string
	Prompt    string
	Images    []ImagePart
	MaxTokens int
}

// Response carries the service's raw text plus its token accounting.
type Response struct {
	Text       string
	TokensUsed int
}

// Completer is the completion-service contract. Implementations must be safe
// for sequential reuse within one pipeline invocation.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// ClientConfig configures the HTTP completion client.
type ClientConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url"`
	APIKey  string `json:"api_key" yaml:"api_key"`
	Model   string `json:"model" yaml:"model"`

	// Timeout for one completion call (default: 120s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	Logger *slog.Logger `json:"-" yaml:"-"`
}

// HTTPClient talks to an OpenAI-compatible chat completions endpoint.
type HTTPClient struct {
	cfg    ClientConfig
	client *http.Client
	logger *slog.Logger
}

// NewHTTPClient creates a completion client.
func NewHTTPClient(cfg ClientConfig) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &HTTPClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: cfg.Logger,
	}
}

// Wire types for the chat completions endpoint.

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float32         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete sends one chat completion request. Images are inlined as data
// URLs. JSON output mode is always requested; schema conformance is still
// verified by the caller.
func (c *HTTPClient) Complete(ctx context.Context, req Request) (*Response, error) {
	parts := []contentPart{{Type: "text", Text: req.Prompt}}
	for _, img := range req.Images {
		parts = append(parts, contentPart{
			Type: "image_url",
			ImageURL: &imageURL{
				URL: "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data),
			},
		})
	}

	body := chatRequest{
		Model:          c.cfg.Model,
		MaxTokens:      req.MaxTokens,
		ResponseFormat: &responseFormat{Type: "json_object"},
		Messages: []chatMessage{
			{Role: "system", Content: []contentPart{{Type: "text", Text: req.System}}},
			{Role: "user", Content: parts},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("completion service error",
			"status", resp.StatusCode,
			"body", string(raw),
			"duration", time.Since(start))
		return nil, fmt.Errorf("%w: status %d", ErrServiceFailure, resp.StatusCode)
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrServiceFailure, err)
	}
	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices", ErrServiceFailure)
	}

	c.logger.Debug("completion received",
		"duration", time.Since(start),
		"tokens", decoded.Usage.TotalTokens,
		"finish_reason", decoded.Choices[0].FinishReason)

	return &Response{
		Text:       decoded.Choices[0].Message.Content,
		TokensUsed: decoded.Usage.TotalTokens,
	}, nil
}
