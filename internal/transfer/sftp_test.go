package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Levilaell/script-post-ai/internal/config"
)

func TestRemotePath(t *testing.T) {
	c := New(config.TransferConfig{RemoteRoot: "/srv/media"}, nil)

	tests := []struct {
		name string
		rel  string
		want string
	}{
		{"plain relative path", "images/post_1.jpg", "/srv/media/images/post_1.jpg"},
		{"featured subdirectory", "featured_images/post_1.jpg", "/srv/media/featured_images/post_1.jpg"},
		{"leading slash normalized", "/images/post_1.jpg", "/srv/media/images/post_1.jpg"},
		{"traversal stripped", "../../etc/passwd", "/srv/media/etc/passwd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.remotePath(tt.rel))
		})
	}
}
