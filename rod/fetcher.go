// Package rod implements makerfetch.PageFetcher with a headless Chrome
// browser for model pages that only serve their embedded data after
// JavaScript has run.
package rod

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fwojciec/makerfetch"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Fetcher implements makerfetch.PageFetcher at compile time.
var _ makerfetch.PageFetcher = (*Fetcher)(nil)

// DefaultFetchTimeout bounds a single page load when the request carries no
// timeout of its own.
const DefaultFetchTimeout = 30 * time.Second

// Fetcher retrieves rendered HTML using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager  *BrowserManager
	timeout  time.Duration
	maxBytes int64

	mu     sync.RWMutex
	closed bool
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchTimeout sets the default page load timeout.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxBytes caps the size of the returned HTML. Zero disables the cap.
func WithMaxBytes(n int64) FetcherOption {
	return func(f *Fetcher) {
		f.maxBytes = n
	}
}

// WithManagerOptions passes options to the underlying BrowserManager.
func WithManagerOptions(opts ...ManagerOption) FetcherOption {
	return func(f *Fetcher) {
		f.manager.opts = append(f.manager.opts, opts...)
	}
}

// NewFetcher launches a headless Chrome browser. Close must be called when
// the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...FetcherOption) (*Fetcher, error) {
	f := &Fetcher{
		manager: &BrowserManager{maxPages: DefaultMaxPages},
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.manager.start(); err != nil {
		return nil, err
	}
	return f, nil
}

// FetchPage implements makerfetch.PageFetcher. Configured headers are sent
// as extra request headers; the User-Agent header overrides the browser's.
func (f *Fetcher) FetchPage(ctx context.Context, url string, req makerfetch.Request) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return "", makerfetch.Errorf(makerfetch.ENETWORK, "Browser fetcher is closed.")
	}

	if err := ctx.Err(); err != nil {
		return "", pageError(url, err)
	}

	timeout := f.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	html, err := f.render(ctx, url, req.Headers)
	if err != nil {
		return "", pageError(url, err)
	}
	f.manager.IncrementPageCount()

	if f.maxBytes > 0 && int64(len(html)) > f.maxBytes {
		return "", makerfetch.Errorf(makerfetch.EMALFORMED, "Model page exceeds %d bytes.", f.maxBytes)
	}
	return html, nil
}

func (f *Fetcher) render(ctx context.Context, url string, headers map[string]string) (string, error) {
	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)

	extra := make([]string, 0, 2*len(headers))
	for k, v := range headers {
		if k == "User-Agent" {
			if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: v}); err != nil {
				return "", err
			}
			continue
		}
		extra = append(extra, k, v)
	}
	if len(extra) > 0 {
		cleanup, err := page.SetExtraHeaders(extra)
		if err != nil {
			return "", err
		}
		defer cleanup()
	}

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}
	return page.HTML()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

func pageError(url string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return makerfetch.Errorf(makerfetch.ETIMEOUT, "Rendering %s timed out.", url)
	}
	return makerfetch.Errorf(makerfetch.ENETWORK, "Rendering %s failed: %v", url, err)
}
