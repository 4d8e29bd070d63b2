package imaging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Levilaell/script-post-ai/internal/config"
)

const (
	imagesDir   = "images"
	featuredDir = "featured_images"
)

// unsafeFilenameChars matches everything a portable file name cannot carry.
var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Mirror replicates stored files to a remote host. Implemented by
// transfer.Client.
type Mirror interface {
	Upload(localPath, rel string) error
}

// Store writes normalized images under the local media root and reports the
// public URL each file will be served from. With a mirror attached, every
// stored file is also pushed to the remote media root; mirror failures are
// logged but never block the iteration, since the local copy is what the
// publish path consumes.
type Store struct {
	mediaDir   string
	publicBase string
	maxName    int
	mirror     Mirror
	logger     *slog.Logger
}

// NewStore creates a media store rooted at cfg.MediaDir. mirror may be nil.
func NewStore(cfg config.StorageConfig, mirror Mirror, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		mediaDir:   cfg.MediaDir,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
		maxName:    cfg.FilenameMaxLength,
		mirror:     mirror,
		logger:     logger,
	}
}

// Save persists one image. Featured images land in their own directory so the
// serving layer can cache them separately from in-post images.
func (s *Store) Save(title string, index int, featured bool, data []byte) (string, string, error) {
	subdir := imagesDir
	if featured {
		subdir = featuredDir
	}

	dir := filepath.Join(s.mediaDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating media directory: %w", err)
	}

	name := s.filename(title, index)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", fmt.Errorf("writing image: %w", err)
	}

	if s.mirror != nil {
		if err := s.mirror.Upload(path, subdir+"/"+name); err != nil {
			s.logger.Warn("mirroring image failed",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
		}
	}

	publicURL := fmt.Sprintf("%s/media/%s/%s", s.publicBase, subdir, name)
	return path, publicURL, nil
}

// filename builds a sanitized, length-capped file name from the post title
// and the 1-based image index.
func (s *Store) filename(title string, index int) string {
	base := unsafeFilenameChars.ReplaceAllString(strings.ReplaceAll(title, " ", "_"), "")
	base = strings.Trim(base, "._-")
	if base == "" {
		base = "image"
	}

	suffix := fmt.Sprintf("_%d.jpg", index)
	if s.maxName > 0 && len(base)+len(suffix) > s.maxName {
		cut := s.maxName - len(suffix)
		if cut < 1 {
			cut = 1
		}
		base = base[:cut]
	}
	return base + suffix
}
