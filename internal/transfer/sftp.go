// Package transfer mirrors generated media to a remote host over SFTP so the
// serving web host sees the same directory layout as the local media root.
package transfer

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/Levilaell/script-post-ai/internal/config"
)

const dialTimeout = 30 * time.Second

// Client uploads files to the configured remote root. A fresh connection is
// made per upload; uploads are rare enough that pooling buys nothing.
type Client struct {
	cfg    config.TransferConfig
	logger *slog.Logger
}

// New creates an SFTP mirror client.
func New(cfg config.TransferConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, logger: logger.With(slog.String("component", "transfer"))}
}

// remotePath maps a media-root-relative path onto the remote root.
func (c *Client) remotePath(rel string) string {
	return path.Join(c.cfg.RemoteRoot, path.Clean("/"+rel))
}

// Upload copies one local file to the mirrored location under the remote
// root, creating intermediate directories as needed.
func (c *Client) Upload(localPath, rel string) error {
	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))
	sshCfg := &ssh.ClientConfig{
		User:            c.cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(c.cfg.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         dialTimeout,
	}

	conn, err := ssh.Dial("tcp", addr, sshCfg)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", addr, err)
	}
	defer conn.Close()

	client, err := sftp.NewClient(conn)
	if err != nil {
		return fmt.Errorf("opening sftp session: %w", err)
	}
	defer client.Close()

	remote := c.remotePath(rel)
	if err := client.MkdirAll(path.Dir(remote)); err != nil {
		return fmt.Errorf("creating remote directory %s: %w", path.Dir(remote), err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", localPath, err)
	}
	defer src.Close()

	dst, err := client.Create(remote)
	if err != nil {
		return fmt.Errorf("creating remote file %s: %w", remote, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copying to %s: %w", remote, err)
	}

	c.logger.Debug("file mirrored",
		slog.String("local", localPath),
		slog.String("remote", remote),
	)
	return nil
}
