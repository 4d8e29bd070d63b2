package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"github.com/Levilaell/script-post-ai/internal/config"
	"github.com/Levilaell/script-post-ai/internal/httpclient"
	"github.com/Levilaell/script-post-ai/internal/models"
)

// ErrMissingFeaturedImage indicates the package reached the gateway without a
// stored featured image. Publishing without one is never attempted.
var ErrMissingFeaturedImage = errors.New("content package has no featured image")

// ideaPayload is one idea entry in the post's ideas JSON field. Idea titles
// carry their 1-based position so the rendered post lists them numbered.
type ideaPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
}

// postResponse is the backend's reply to a successful post creation.
type postResponse struct {
	ID   int    `json:"id"`
	Link string `json:"link"`
}

// Gateway publishes assembled content packages to the backend's post
// endpoint.
type Gateway struct {
	http     *httpclient.Client
	baseURL  string
	siteBase string
	token    string
	slugMax  int
	logger   *slog.Logger
}

// NewGateway creates a publish gateway.
func NewGateway(cfg config.CMSConfig, hc *httpclient.Client, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	return &Gateway{
		http:     hc,
		baseURL:  base,
		siteBase: strings.TrimSuffix(base, "/api"),
		token:    cfg.Token,
		slugMax:  cfg.SlugMaxLength,
		logger:   logger,
	}
}

// Publish sends the package plus its featured image as one multipart request.
// Success is a 201 whose body carries the post's public link, or at minimum
// its numeric id, from which a canonical URL is derived.
func (g *Gateway) Publish(ctx context.Context, pkg *models.ContentPackage, category models.RemoteCategory) (*models.PublishedPost, error) {
	featured := pkg.FeaturedItem()
	if featured == nil || featured.ImagePath == "" {
		return nil, ErrMissingFeaturedImage
	}

	body, contentType, err := g.encodePackage(pkg, category, featured.ImagePath)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/posts/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building publish request: %w", err)
	}
	req.Header.Set(httpclient.HeaderContentType, contentType)
	req.Header.Set(httpclient.HeaderAuthorization, "Token "+g.token)

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("publishing post: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading publish response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		g.logger.Warn("post creation failed",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(data)),
		)
		return nil, fmt.Errorf("%w: %d creating post", httpclient.ErrUnexpectedStatus, resp.StatusCode)
	}

	var parsed postResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decoding publish response: %w", err)
	}

	publicURL := parsed.Link
	if publicURL == "" {
		if parsed.ID == 0 {
			return nil, fmt.Errorf("publish response carried neither link nor id")
		}
		publicURL = fmt.Sprintf("%s/posts/%d/", g.siteBase, parsed.ID)
		g.logger.Info("publish response had no link, derived canonical URL",
			slog.Int("post_id", parsed.ID),
			slog.String("url", publicURL),
		)
	}

	g.logger.Info("post published",
		slog.String("title", pkg.Title.Text),
		slog.String("url", publicURL),
	)

	return &models.PublishedPost{
		Title:             pkg.Title.Text,
		MainDescription:   pkg.MainDescription,
		FeaturedImagePath: featured.ImagePath,
		PublicURL:         publicURL,
	}, nil
}

// encodePackage serializes the package into a multipart body.
func (g *Gateway) encodePackage(pkg *models.ContentPackage, category models.RemoteCategory, imagePath string) ([]byte, string, error) {
	ideas := make([]ideaPayload, 0, len(pkg.Items))
	for i, item := range pkg.Items {
		ideas = append(ideas, ideaPayload{
			Title:       fmt.Sprintf("%d. %s", i+1, item.Idea.Headline),
			Description: item.Idea.Description,
			ImageURL:    item.ImageURL,
		})
	}
	ideasJSON, err := json.Marshal(ideas)
	if err != nil {
		return nil, "", fmt.Errorf("encoding ideas: %w", err)
	}

	postSlug := slug.Make(pkg.Title.Text)
	if g.slugMax > 0 && len(postSlug) > g.slugMax {
		postSlug = strings.Trim(postSlug[:g.slugMax], "-")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":            pkg.Title.Text,
		"slug":             postSlug,
		"content":          pkg.MainDescription,
		"main_description": pkg.MainDescription,
		"meta_description": pkg.MetaDescription,
		"ideas":            string(ideasJSON),
		"themes":           category.Slug,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("writing field %s: %w", name, err)
		}
	}

	image, err := os.Open(imagePath)
	if err != nil {
		return nil, "", fmt.Errorf("opening featured image: %w", err)
	}
	defer image.Close()

	part, err := w.CreateFormFile("featured_image", filepath.Base(imagePath))
	if err != nil {
		return nil, "", fmt.Errorf("creating image part: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, "", fmt.Errorf("copying featured image: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalizing multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
