// Package browser manages the long-lived automated browser session used for
// pin publishing: login, bounded element interaction, and diagnostic
// screenshots.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/Levilaell/script-post-ai/internal/config"
)

// Login page and post-login selectors.
const (
	selectorLoginEmail    = `input[name="id"]`
	selectorLoginPassword = `input[name="password"]`
	selectorHomeMarker    = `[data-test-id="dynamic-menu-controller"]`
)

// Session owns one browser for the lifetime of a run. Every element
// interaction is bounded by the configured element wait; nothing blocks
// indefinitely.
type Session struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	elementWait time.Duration
	shotDir     string
	logger      *slog.Logger
}

// NewSession launches a browser and returns a session bound to one tab.
func NewSession(ctx context.Context, cfg config.BrowserConfig, screenshotDir string, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-extensions", true),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// Starts the browser process eagerly so a broken environment fails here
	// rather than mid-iteration.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	return &Session{
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		elementWait: cfg.ElementWait,
		shotDir:     screenshotDir,
		logger:      logger.With(slog.String("component", "browser")),
	}, nil
}

// Close tears the browser down. Safe to call exactly once, always.
func (s *Session) Close() {
	s.cancelTab()
	s.cancelAlloc()
}

// run executes actions under the element-wait deadline.
func (s *Session) run(actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.elementWait)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// queryOpt picks the locator strategy: XPath expressions start with "//",
// everything else is a CSS selector.
func queryOpt(selector string) chromedp.QueryOption {
	if strings.HasPrefix(selector, "//") {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

// Login authenticates the session. Failure here is fatal for the whole run,
// so the error carries enough context to diagnose from logs alone.
func (s *Session) Login(cfg config.PinterestConfig) error {
	s.logger.Info("logging in", slog.String("url", cfg.LoginURL))

	err := s.run(
		chromedp.Navigate(cfg.LoginURL),
		chromedp.WaitVisible(selectorLoginEmail, chromedp.ByQuery),
		chromedp.SendKeys(selectorLoginEmail, cfg.Email, chromedp.ByQuery),
		chromedp.WaitVisible(selectorLoginPassword, chromedp.ByQuery),
		chromedp.SendKeys(selectorLoginPassword, cfg.Password+kb.Enter, chromedp.ByQuery),
	)
	if err != nil {
		s.Screenshot("login_error")
		return fmt.Errorf("submitting login form: %w", err)
	}

	if err := s.run(chromedp.WaitReady(selectorHomeMarker, chromedp.ByQuery)); err != nil {
		s.Screenshot("login_error")
		return fmt.Errorf("waiting for home page after login: %w", err)
	}

	s.logger.Info("login complete")
	return nil
}

// WaitVisible blocks until the element is visible or the wait expires.
func (s *Session) WaitVisible(selector string) error {
	if err := s.run(chromedp.WaitVisible(selector, queryOpt(selector))); err != nil {
		return fmt.Errorf("waiting for %s: %w", selector, err)
	}
	return nil
}

// Click waits for the element and clicks it.
func (s *Session) Click(selector string) error {
	if err := s.run(chromedp.Click(selector, queryOpt(selector))); err != nil {
		return fmt.Errorf("clicking %s: %w", selector, err)
	}
	return nil
}

// SendKeys waits for the element and types into it.
func (s *Session) SendKeys(selector, text string) error {
	if err := s.run(
		chromedp.WaitVisible(selector, queryOpt(selector)),
		chromedp.SendKeys(selector, text, queryOpt(selector)),
	); err != nil {
		return fmt.Errorf("typing into %s: %w", selector, err)
	}
	return nil
}

// Clear empties the element's current value.
func (s *Session) Clear(selector string) error {
	if err := s.run(chromedp.Clear(selector, queryOpt(selector))); err != nil {
		return fmt.Errorf("clearing %s: %w", selector, err)
	}
	return nil
}

// SetFiles delivers a local file path directly to a file input, bypassing the
// OS file picker.
func (s *Session) SetFiles(selector, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	if err := s.run(chromedp.SetUploadFiles(selector, []string{abs}, queryOpt(selector))); err != nil {
		return fmt.Errorf("uploading file to %s: %w", selector, err)
	}
	return nil
}

// ScrollIntoView brings an off-screen element into the viewport.
func (s *Session) ScrollIntoView(selector string) error {
	if err := s.run(chromedp.ScrollIntoView(selector, queryOpt(selector))); err != nil {
		return fmt.Errorf("scrolling to %s: %w", selector, err)
	}
	return nil
}

// Screenshot captures the page for offline diagnosis. Capture failures are
// logged, never propagated, since screenshots only ever accompany another
// failure.
func (s *Session) Screenshot(name string) {
	var buf []byte
	if err := s.run(chromedp.CaptureScreenshot(&buf)); err != nil {
		s.logger.Warn("screenshot capture failed", slog.String("name", name), slog.String("error", err.Error()))
		return
	}

	if err := os.MkdirAll(s.shotDir, 0o755); err != nil {
		s.logger.Warn("creating screenshot directory failed", slog.String("error", err.Error()))
		return
	}

	path := filepath.Join(s.shotDir, fmt.Sprintf("%s_%s.png", name, time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		s.logger.Warn("writing screenshot failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	s.logger.Info("screenshot captured", slog.String("path", path))
}

// Pause sleeps a random duration in [min, max] to emulate human pacing.
func (s *Session) Pause(min, max time.Duration) {
	d := min
	if max > min {
		d += rand.N(max - min)
	}
	select {
	case <-s.ctx.Done():
	case <-time.After(d):
	}
}
