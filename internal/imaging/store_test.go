package imaging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Levilaell/script-post-ai/internal/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(config.StorageConfig{
		MediaDir:          t.TempDir(),
		PublicBaseURL:     "https://www.example.com/",
		FilenameMaxLength: 93,
	}, nil, nil)
}

// fakeMirror records uploads and optionally fails them.
type fakeMirror struct {
	uploads []string
	err     error
}

func (f *fakeMirror) Upload(localPath, rel string) error {
	f.uploads = append(f.uploads, rel)
	return f.err
}

func TestStore_Save(t *testing.T) {
	t.Run("regular image lands under images", func(t *testing.T) {
		s := newTestStore(t)

		path, publicURL, err := s.Save("5 Christmas Decor Ideas", 2, false, []byte("jpeg"))
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(s.mediaDir, "images", "5_Christmas_Decor_Ideas_2.jpg"), path)
		assert.Equal(t, "https://www.example.com/media/images/5_Christmas_Decor_Ideas_2.jpg", publicURL)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte("jpeg"), data)
	})

	t.Run("featured image lands under featured_images", func(t *testing.T) {
		s := newTestStore(t)

		path, publicURL, err := s.Save("5 Christmas Decor Ideas", 1, true, []byte("jpeg"))
		require.NoError(t, err)
		assert.Contains(t, path, filepath.Join("featured_images", ""))
		assert.Contains(t, publicURL, "/media/featured_images/")
	})

	t.Run("unsafe characters stripped", func(t *testing.T) {
		s := newTestStore(t)

		path, _, err := s.Save(`7 "Ideas": You/Won't\Believe!`, 1, false, []byte("x"))
		require.NoError(t, err)

		name := filepath.Base(path)
		assert.NotContains(t, name, "/")
		assert.NotContains(t, name, `"`)
		assert.NotContains(t, name, "!")
		assert.True(t, strings.HasSuffix(name, "_1.jpg"))
	})

	t.Run("long title capped", func(t *testing.T) {
		s := newTestStore(t)

		path, _, err := s.Save(strings.Repeat("Very Long Title ", 20), 3, false, []byte("x"))
		require.NoError(t, err)
		assert.LessOrEqual(t, len(filepath.Base(path)), 93)
	})

	t.Run("stored files mirrored with relative paths", func(t *testing.T) {
		mirror := &fakeMirror{}
		s := NewStore(config.StorageConfig{
			MediaDir:          t.TempDir(),
			PublicBaseURL:     "https://www.example.com",
			FilenameMaxLength: 93,
		}, mirror, nil)

		_, _, err := s.Save("Title", 1, true, []byte("x"))
		require.NoError(t, err)
		_, _, err = s.Save("Title", 2, false, []byte("x"))
		require.NoError(t, err)

		assert.Equal(t, []string{"featured_images/Title_1.jpg", "images/Title_2.jpg"}, mirror.uploads)
	})

	t.Run("mirror failure does not fail the save", func(t *testing.T) {
		mirror := &fakeMirror{err: assert.AnError}
		s := NewStore(config.StorageConfig{
			MediaDir:          t.TempDir(),
			PublicBaseURL:     "https://www.example.com",
			FilenameMaxLength: 93,
		}, mirror, nil)

		path, _, err := s.Save("Title", 1, true, []byte("x"))
		require.NoError(t, err)
		assert.FileExists(t, path)
	})

	t.Run("empty title falls back", func(t *testing.T) {
		s := newTestStore(t)

		path, _, err := s.Save("???", 1, false, []byte("x"))
		require.NoError(t, err)
		assert.Equal(t, "image_1.jpg", filepath.Base(path))
	})
}
