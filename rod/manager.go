package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the number of rendered pages after which the browser
// is replaced.
const DefaultMaxPages = 50

// BrowserManager owns the Chrome process behind a Fetcher and replaces it
// after a fixed number of rendered pages, since a long-lived browser keeps
// growing its memory baseline.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	browser   *rod.Browser
	launcher  *launcher.Launcher
	pageCount atomic.Int64
	maxPages  int64
	mu        sync.Mutex
	closed    atomic.Bool
	opts      []ManagerOption
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets how many pages are rendered before the browser is
// replaced.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// NewBrowserManager launches a headless Chrome browser. Close must be called
// when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxPages: DefaultMaxPages,
		opts:     opts,
	}
	if err := bm.start(); err != nil {
		return nil, err
	}
	return bm, nil
}

// start applies the collected options and launches the first browser.
func (bm *BrowserManager) start() error {
	for _, opt := range bm.opts {
		opt(bm)
	}
	return bm.launch()
}

// Browser returns the current browser, replacing it first when the page
// budget is spent.
func (bm *BrowserManager) Browser() *rod.Browser {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.maxPages > 0 && bm.pageCount.Load() >= bm.maxPages {
		bm.recycle()
	}
	return bm.browser
}

// IncrementPageCount records one rendered page.
func (bm *BrowserManager) IncrementPageCount() {
	bm.pageCount.Add(1)
}

// Close releases browser resources. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	return bm.shutdown()
}

// launch starts a browser with flags that keep background pages rendering.
func (bm *BrowserManager) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	bm.browser = browser
	bm.launcher = l
	return nil
}

// shutdown must be called with mu held.
func (bm *BrowserManager) shutdown() error {
	var err error
	if bm.browser != nil {
		err = bm.browser.Close()
		bm.browser = nil
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
		bm.launcher = nil
	}
	return err
}

// recycle swaps in a fresh browser. When the launch fails the old browser
// stays in service. Must be called with mu held.
func (bm *BrowserManager) recycle() {
	oldBrowser, oldLauncher := bm.browser, bm.launcher
	bm.browser, bm.launcher = nil, nil

	if err := bm.launch(); err != nil {
		bm.browser, bm.launcher = oldBrowser, oldLauncher
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	bm.pageCount.Store(0)
}

// LauncherPID returns the process ID of the browser launcher, or zero once
// closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}
