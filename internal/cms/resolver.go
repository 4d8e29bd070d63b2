// Package cms integrates with the content-management backend: idempotent
// theme resolution and multipart post publishing.
package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gosimple/slug"

	"github.com/Levilaell/script-post-ai/internal/config"
	"github.com/Levilaell/script-post-ai/internal/httpclient"
	"github.com/Levilaell/script-post-ai/internal/models"
)

// themePayload is the backend's theme representation.
type themePayload struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Resolver performs get-or-create theme resolution against the backend.
// Resolved themes are cached for the run so repeated iterations of the same
// campaign hit the network once.
type Resolver struct {
	http    *httpclient.Client
	baseURL string
	token   string
	logger  *slog.Logger

	cache map[string]models.RemoteCategory
}

// NewResolver creates a theme resolver.
func NewResolver(cfg config.CMSConfig, hc *httpclient.Client, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		http:    hc,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		logger:  logger,
		cache:   make(map[string]models.RemoteCategory),
	}
}

func (r *Resolver) authHeaders() map[string]string {
	return map[string]string{
		httpclient.HeaderAuthorization: "Token " + r.token,
	}
}

// EnsureCategory resolves the theme by slug, creating it when absent. A
// creation conflict (another writer created the same theme concurrently) is
// resolved by looking the theme up again rather than failing.
func (r *Resolver) EnsureCategory(ctx context.Context, name string) (models.RemoteCategory, error) {
	themeSlug := slug.Make(name)

	if cached, ok := r.cache[themeSlug]; ok {
		return cached, nil
	}

	if theme, found, err := r.lookup(ctx, themeSlug); err != nil {
		return models.RemoteCategory{}, err
	} else if found {
		r.cache[themeSlug] = theme
		return theme, nil
	}

	theme, err := r.create(ctx, name, themeSlug)
	if err != nil {
		return models.RemoteCategory{}, err
	}

	r.cache[themeSlug] = theme
	return theme, nil
}

// lookup fetches themes matching the slug and returns the exact match.
func (r *Resolver) lookup(ctx context.Context, themeSlug string) (models.RemoteCategory, bool, error) {
	url := fmt.Sprintf("%s/themes/?slug=%s", r.baseURL, themeSlug)
	data, err := r.http.GetBytes(ctx, url, r.authHeaders())
	if err != nil {
		return models.RemoteCategory{}, false, fmt.Errorf("looking up theme %q: %w", themeSlug, err)
	}

	var themes []themePayload
	if err := json.Unmarshal(data, &themes); err != nil {
		return models.RemoteCategory{}, false, fmt.Errorf("decoding theme lookup response: %w", err)
	}

	for _, t := range themes {
		if t.Slug == themeSlug {
			return models.RemoteCategory{Name: t.Name, Slug: t.Slug}, true, nil
		}
	}
	return models.RemoteCategory{}, false, nil
}

// create posts a new theme. On a conflict status the theme is assumed to have
// been created concurrently and is re-resolved.
func (r *Resolver) create(ctx context.Context, name, themeSlug string) (models.RemoteCategory, error) {
	resp, err := r.http.PostJSON(ctx, r.baseURL+"/themes/", r.authHeaders(), themePayload{Name: name})
	if err != nil {
		return models.RemoteCategory{}, fmt.Errorf("creating theme %q: %w", name, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		return models.RemoteCategory{Name: name, Slug: themeSlug}, nil
	case http.StatusBadRequest, http.StatusConflict:
		// Lost a creation race. The theme exists now, so resolve it again.
		r.logger.Debug("theme creation conflicted, re-resolving",
			slog.String("slug", themeSlug),
			slog.Int("status", resp.StatusCode),
		)
		theme, found, err := r.lookup(ctx, themeSlug)
		if err != nil {
			return models.RemoteCategory{}, err
		}
		if !found {
			return models.RemoteCategory{}, fmt.Errorf("theme %q conflicted on create but was not found on re-resolve", themeSlug)
		}
		return theme, nil
	default:
		body, _ := io.ReadAll(resp.Body)
		r.logger.Warn("theme creation failed",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return models.RemoteCategory{}, fmt.Errorf("%w: %d creating theme %q", httpclient.ErrUnexpectedStatus, resp.StatusCode, name)
	}
}
