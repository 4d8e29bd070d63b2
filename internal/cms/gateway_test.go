package cms

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Levilaell/script-post-ai/internal/config"
	"github.com/Levilaell/script-post-ai/internal/httpclient"
	"github.com/Levilaell/script-post-ai/internal/models"
)

func testPackage(t *testing.T) *models.ContentPackage {
	t.Helper()
	imagePath := filepath.Join(t.TempDir(), "featured.jpg")
	require.NoError(t, os.WriteFile(imagePath, []byte("jpeg-bytes"), 0o644))

	return &models.ContentPackage{
		Title:           models.TitleCandidate{Text: "5 Christmas Decor Ideas", NumericLead: 5},
		MainDescription: "Cozy seasonal decor for every room.",
		MetaDescription: "Cozy seasonal decor for every room.",
		Items: []models.PackageItem{
			{
				Idea:      models.Idea{Headline: "Cozy Fireplace Nook", Description: "desc one"},
				ImagePath: imagePath,
				ImageURL:  "https://www.example.com/media/featured_images/f.jpg",
				Featured:  true,
			},
			{
				Idea:     models.Idea{Headline: "Layered Lighting", Description: "desc two"},
				ImageURL: "https://www.example.com/media/images/i.jpg",
			},
		},
	}
}

func newTestGateway(t *testing.T, handler http.HandlerFunc) *Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGateway(config.CMSConfig{
		BaseURL:       srv.URL + "/api",
		Token:         "token",
		SlugMaxLength: 50,
	}, httpclient.NewWithDefaults(), nil)
}

func TestGateway_Publish(t *testing.T) {
	ctx := context.Background()
	category := models.RemoteCategory{Name: "christmas decor ideas", Slug: "christmas-decor-ideas"}

	t.Run("link preferred from response", func(t *testing.T) {
		var fields map[string]string
		var imageBytes []byte
		var gotAuth string

		g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, r.ParseMultipartForm(1<<20))

			fields = make(map[string]string)
			for name, values := range r.MultipartForm.Value {
				fields[name] = values[0]
			}

			file, _, err := r.FormFile("featured_image")
			require.NoError(t, err)
			imageBytes, err = io.ReadAll(file)
			require.NoError(t, err)

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{"id": 42, "link": "https://www.example.com/posts/5-christmas-decor-ideas/"})
		})

		post, err := g.Publish(ctx, testPackage(t), category)
		require.NoError(t, err)

		assert.Equal(t, "Token token", gotAuth)
		assert.Equal(t, "https://www.example.com/posts/5-christmas-decor-ideas/", post.PublicURL)
		assert.Equal(t, "5 Christmas Decor Ideas", post.Title)

		assert.Equal(t, "5 Christmas Decor Ideas", fields["title"])
		assert.Equal(t, "5-christmas-decor-ideas", fields["slug"])
		assert.Equal(t, fields["main_description"], fields["content"])
		assert.Equal(t, "christmas-decor-ideas", fields["themes"])
		assert.Equal(t, []byte("jpeg-bytes"), imageBytes)

		var ideas []ideaPayload
		require.NoError(t, json.Unmarshal([]byte(fields["ideas"]), &ideas))
		require.Len(t, ideas, 2)
		assert.Equal(t, "1. Cozy Fireplace Nook", ideas[0].Title)
		assert.Equal(t, "2. Layered Lighting", ideas[1].Title)
		assert.Contains(t, ideas[0].ImageURL, "featured_images")
	})

	t.Run("id-only response derives canonical URL", func(t *testing.T) {
		g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{"id": 42})
		})

		post, err := g.Publish(ctx, testPackage(t), category)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(post.PublicURL, "/posts/42/"))
		assert.NotContains(t, post.PublicURL, "/api/")
	})

	t.Run("response without link or id is an error", func(t *testing.T) {
		g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{}`))
		})

		_, err := g.Publish(ctx, testPackage(t), category)
		assert.ErrorContains(t, err, "neither link nor id")
	})

	t.Run("non-201 status is an error", func(t *testing.T) {
		g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"title":["This field is required."]}`))
		})

		_, err := g.Publish(ctx, testPackage(t), category)
		assert.ErrorIs(t, err, httpclient.ErrUnexpectedStatus)
	})

	t.Run("missing featured image never hits the network", func(t *testing.T) {
		called := false
		g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		pkg := testPackage(t)
		pkg.Items[0].Featured = false

		_, err := g.Publish(ctx, pkg, category)
		assert.ErrorIs(t, err, ErrMissingFeaturedImage)
		assert.False(t, called)
	})

	t.Run("long title slug truncated", func(t *testing.T) {
		var gotSlug string
		g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			gotSlug = r.MultipartForm.Value["slug"][0]
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{"id": 1})
		})

		pkg := testPackage(t)
		pkg.Title.Text = strings.Repeat("Very Long Title ", 10)

		_, err := g.Publish(ctx, pkg, category)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(gotSlug), 50)
		assert.False(t, strings.HasSuffix(gotSlug, "-"))
	})
}
