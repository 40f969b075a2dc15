package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/makerfetch"
)

// Ensure LoggingFetcher implements makerfetch.PageFetcher.
var _ makerfetch.PageFetcher = (*LoggingFetcher)(nil)

// PageCloser is a PageFetcher holding resources that must be released.
type PageCloser interface {
	makerfetch.PageFetcher
	Close() error
}

// LoggingFetcher wraps a browser fetcher with logging of every render.
type LoggingFetcher struct {
	next   PageCloser
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next PageCloser, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// FetchPage logs the rendered URL, size and reason code.
func (f *LoggingFetcher) FetchPage(ctx context.Context, url string, req makerfetch.Request) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("render",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"reason", makerfetch.ErrorCode(err),
		)
	}(time.Now())
	return f.next.FetchPage(ctx, url, req)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
