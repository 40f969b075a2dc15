package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/makerfetch"
)

// Ensure LoggingPageFetcher implements makerfetch.PageFetcher.
var _ makerfetch.PageFetcher = (*LoggingPageFetcher)(nil)

// LoggingPageFetcher wraps a PageFetcher with debug logging.
type LoggingPageFetcher struct {
	next   makerfetch.PageFetcher
	logger *slog.Logger
}

// NewLoggingPageFetcher creates a new LoggingPageFetcher.
func NewLoggingPageFetcher(next makerfetch.PageFetcher, logger *slog.Logger) *LoggingPageFetcher {
	return &LoggingPageFetcher{next: next, logger: logger}
}

// FetchPage logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingPageFetcher) FetchPage(ctx context.Context, url string, req makerfetch.Request) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("page fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchPage(ctx, url, req)
}
