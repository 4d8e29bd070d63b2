// Package imaging renders, normalizes and stores post images.
package imaging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Levilaell/script-post-ai/internal/config"
	"github.com/Levilaell/script-post-ai/internal/httpclient"
)

// renderRequest is the wire format for the text-to-image backend.
type renderRequest struct {
	Prompt         string `json:"prompt"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Steps          int    `json:"steps"`
	OutputFormat   string `json:"output_format"`
	ResponseFormat string `json:"response_format"`
}

type renderResponse struct {
	URL   string `json:"url"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client renders images through a hosted text-to-image endpoint. The backend
// returns a short-lived URL which the client immediately downloads; callers
// only ever see the image bytes.
type Client struct {
	http      *httpclient.Client
	endpoint  string
	apiKey    string
	width     int
	height    int
	steps     int
	converter *Converter
	logger    *slog.Logger
}

// NewClient creates an image-rendering client from configuration.
func NewClient(cfg config.ImagingConfig, hc *httpclient.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:      hc,
		endpoint:  cfg.Endpoint,
		apiKey:    cfg.APIKey,
		width:     cfg.Width,
		height:    cfg.Height,
		steps:     cfg.Steps,
		converter: NewConverter(cfg.Width, cfg.Height, cfg.JPEGQuality),
		logger:    logger,
	}
}

// Render synthesizes one image for the prompt and returns normalized JPEG
// bytes at the configured dimensions.
func (c *Client) Render(ctx context.Context, prompt string) ([]byte, error) {
	body := renderRequest{
		Prompt:         prompt,
		Width:          c.width,
		Height:         c.height,
		Steps:          c.steps,
		OutputFormat:   "jpeg",
		ResponseFormat: "url",
	}

	headers := map[string]string{
		httpclient.HeaderAuthorization: "Bearer " + c.apiKey,
	}

	resp, err := c.http.PostJSON(ctx, c.endpoint, headers, body)
	if err != nil {
		return nil, fmt.Errorf("image render request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading image render response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("image render returned non-OK status",
			slog.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: %d", httpclient.ErrUnexpectedStatus, resp.StatusCode)
	}

	var parsed renderResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decoding image render response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("image render backend error: %s", parsed.Error.Message)
	}
	if parsed.URL == "" {
		return nil, fmt.Errorf("image render response contained no URL")
	}

	raw, err := c.http.GetBytes(ctx, parsed.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("downloading rendered image: %w", err)
	}

	normalized, err := c.converter.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("normalizing rendered image: %w", err)
	}
	return normalized, nil
}
