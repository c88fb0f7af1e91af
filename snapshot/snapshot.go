// Package snapshot captures a rendered dashboard page to a PNG with headless Chrome.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"vehicle-dashboard/utils"
)

// ErrNoURL is returned when Capture is called without a page to load.
var ErrNoURL = errors.New("snapshot: no page URL")

const (
	pageTimeout       = 60 * time.Second
	screenshotQuality = 100 // 100 makes chromedp emit PNG
)

// Capturer drives one headless browser per Capture call.
type Capturer struct {
	chromeBin string
	logger    *utils.Logger
	retry     *utils.RetryConfig
	settle    time.Duration
}

// New returns a Capturer. An empty chromeBin falls back to FindChromeBinary.
func New(chromeBin string, maxRetries int, logger *utils.Logger) *Capturer {
	if chromeBin == "" {
		chromeBin = FindChromeBinary()
	}
	return &Capturer{
		chromeBin: chromeBin,
		logger:    logger,
		retry: &utils.RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		settle: time.Second,
	}
}

// Capture loads pageURL, waits for both chart panels, and writes a full-page
// screenshot to path.
func (c *Capturer) Capture(ctx context.Context, pageURL, path string) error {
	if pageURL == "" {
		return ErrNoURL
	}
	if path == "" {
		return errors.New("snapshot: no output path")
	}

	c.logger.Info("[snapshot] Using browser binary: %s", c.displayBin())

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, c.allocatorOptions()...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	var buf []byte
	err := c.retry.DoContext(ctx, "snapshot "+pageURL, func(context.Context) error {
		tabCtx, cancel := chromedp.NewContext(browserCtx)
		defer cancel()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, pageTimeout)
		defer cancelTimeout()

		return chromedp.Run(tabCtx,
			chromedp.Navigate(pageURL),
			chromedp.WaitReady("#controls", chromedp.ByID),
			chromedp.Sleep(c.settle),
			chromedp.FullScreenshot(&buf, screenshotQuality),
		)
	})
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", pageURL, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("snapshot: create dir: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", path, err)
	}

	c.logger.Info("[snapshot] Saved %s (%d bytes)", path, len(buf))
	return nil
}

func (c *Capturer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(1280, 1600),
	)
	if c.chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(c.chromeBin))
	}
	return opts
}

func (c *Capturer) displayBin() string {
	if c.chromeBin == "" {
		return "(chromedp default)"
	}
	return c.chromeBin
}

// FindChromeBinary looks at CHROME_BIN, then PATH, then well-known install
// locations. It returns "" when nothing is found.
func FindChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
