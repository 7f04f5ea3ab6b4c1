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

	"golang.org/x/time/rate"
)

// Roles of a chat message
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	// ErrUpstreamStatus reports a non-2xx answer from the generation service.
	ErrUpstreamStatus = errors.New("generation service returned an error status")
	// ErrMalformedResponse reports a body without the expected fields.
	ErrMalformedResponse = errors.New("malformed generation response")
)

// Message is one role-tagged entry of a generation request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator turns an ordered list of messages into a single completion.
type Generator interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// ChatCompletionRequest is the POST body of the chat completions API.
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Stream      bool      `json:"stream,omitempty"`
}

// ChatCompletionChoice is one completion alternative.
type ChatCompletionChoice struct {
	Index        int      `json:"index"`
	Message      *Message `json:"message"`
	FinishReason string   `json:"finish_reason"`
}

// ChatCompletionResponse is the body returned by the chat completions API.
type ChatCompletionResponse struct {
	ID      string                 `json:"id"`
	Object  string                 `json:"object"`
	Created int64                  `json:"created"`
	Model   string                 `json:"model"`
	Choices []ChatCompletionChoice `json:"choices"`
	Usage   map[string]int         `json:"usage"`
}

// ClientConfig configures Client.
type ClientConfig struct {
	APIURL        string        // base URL, "/chat/completions" is appended
	APIKey        string        // sent as a bearer token
	Model         string
	MaxTokens     int
	Temperature   float64
	Timeout       time.Duration // bounds every call
	RatePerSecond float64       // outbound pacing, 0 disables it
}

// DefaultClientConfig returns the parameters the advisor was tuned with.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		APIURL:        "https://api.mistral.ai/v1",
		Model:         "mistral-medium",
		MaxTokens:     1000,
		Temperature:   0.7,
		Timeout:       30 * time.Second,
		RatePerSecond: 2,
	}
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	cfg     ClientConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Client. Zero-valued fields fall back to DefaultClientConfig.
func NewClient(cfg ClientConfig) *Client {
	def := DefaultClientConfig()
	if cfg.APIURL == "" {
		cfg.APIURL = def.APIURL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	c := &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.RatePerSecond > 0 {
		burst := int(cfg.RatePerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	return c
}

// Generate sends messages to the completions endpoint and returns the text
// of the first choice. No retries are made.
func (c *Client) Generate(ctx context.Context, messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	reqBody := ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request body: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.APIURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w: status %d, body: %s", ErrUpstreamStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var completion ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrMalformedResponse, err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}
	if completion.Choices[0].Message == nil {
		return "", fmt.Errorf("%w: choice without message", ErrMalformedResponse)
	}

	return completion.Choices[0].Message.Content, nil
}
