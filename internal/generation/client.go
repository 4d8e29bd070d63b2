package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Levilaell/script-post-ai/internal/config"
	"github.com/Levilaell/script-post-ai/internal/httpclient"
)

// ChatClient issues single-shot prompts to a text-generation backend and
// returns the raw completion text.
type ChatClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// chatRequest is the wire format for OpenAI-compatible chat completions.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Client talks to an OpenAI-compatible chat-completion endpoint.
type Client struct {
	http    *httpclient.Client
	baseURL string
	apiKey  string
	model   string
	logger  *slog.Logger
}

// NewClient creates a chat-completion client from configuration.
func NewClient(cfg config.GenerationConfig, hc *httpclient.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:    hc,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		logger:  logger,
	}
}

// Complete sends one user message and returns the trimmed completion text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	headers := map[string]string{
		httpclient.HeaderAuthorization: "Bearer " + c.apiKey,
	}

	resp, err := c.http.PostJSON(ctx, c.baseURL+"/chat/completions", headers, body)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading chat completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("chat completion returned non-OK status",
			slog.Int("status", resp.StatusCode),
			slog.String("body", truncateForLog(string(data))),
		)
		return "", fmt.Errorf("%w: %d", httpclient.ErrUnexpectedStatus, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decoding chat completion response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("chat completion backend error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completion response contained no choices")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// truncateForLog caps response bodies logged for diagnosis.
func truncateForLog(s string) string {
	const max = 512
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
