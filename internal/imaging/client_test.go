package imaging

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Levilaell/script-post-ai/internal/config"
	"github.com/Levilaell/script-post-ai/internal/httpclient"
)

// encodeTestImage returns PNG bytes for a blank image of the given size.
func encodeTestImage(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func testImagingConfig(endpoint string) config.ImagingConfig {
	return config.ImagingConfig{
		Endpoint:    endpoint,
		APIKey:      "img-test",
		Width:       24,
		Height:      40,
		Steps:       4,
		JPEGQuality: 80,
	}
}

func TestClient_Render(t *testing.T) {
	t.Run("renders download and normalize", func(t *testing.T) {
		imageData := encodeTestImage(t, 24, 40)

		var gotReq renderRequest
		var gotAuth string
		mux := http.NewServeMux()
		srv := httptest.NewServer(mux)
		defer srv.Close()

		mux.HandleFunc("/v1/render", func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			json.NewEncoder(w).Encode(map[string]string{"url": srv.URL + "/files/out.png"})
		})
		mux.HandleFunc("/files/out.png", func(w http.ResponseWriter, r *http.Request) {
			w.Write(imageData)
		})

		c := NewClient(testImagingConfig(srv.URL+"/v1/render"), httpclient.NewWithDefaults(), nil)
		data, err := c.Render(context.Background(), "a cozy fireplace nook")
		require.NoError(t, err)

		assert.Equal(t, "Bearer img-test", gotAuth)
		assert.Equal(t, "a cozy fireplace nook", gotReq.Prompt)
		assert.Equal(t, 24, gotReq.Width)
		assert.Equal(t, 40, gotReq.Height)
		assert.Equal(t, 4, gotReq.Steps)
		assert.Equal(t, "jpeg", gotReq.OutputFormat)
		assert.Equal(t, "url", gotReq.ResponseFormat)

		img, err := jpeg.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 24, img.Bounds().Dx())
		assert.Equal(t, 40, img.Bounds().Dy())
	})

	t.Run("missing url is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		c := NewClient(testImagingConfig(srv.URL), httpclient.NewWithDefaults(), nil)
		_, err := c.Render(context.Background(), "prompt")
		assert.ErrorContains(t, err, "no URL")
	})

	t.Run("backend error surfaces", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":{"message":"nsfw prompt rejected"}}`))
		}))
		defer srv.Close()

		c := NewClient(testImagingConfig(srv.URL), httpclient.NewWithDefaults(), nil)
		_, err := c.Render(context.Background(), "prompt")
		assert.ErrorContains(t, err, "nsfw prompt rejected")
	})

	t.Run("non-OK status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		c := NewClient(testImagingConfig(srv.URL), httpclient.NewWithDefaults(), nil)
		_, err := c.Render(context.Background(), "prompt")
		assert.ErrorIs(t, err, httpclient.ErrUnexpectedStatus)
	})
}
