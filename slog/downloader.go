package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/makerfetch"
)

// Ensure LoggingDownloader implements makerfetch.Downloader.
var _ makerfetch.Downloader = (*LoggingDownloader)(nil)

// LoggingDownloader wraps a Downloader with logging.
type LoggingDownloader struct {
	next   makerfetch.Downloader
	logger *slog.Logger
}

// NewLoggingDownloader creates a new LoggingDownloader.
func NewLoggingDownloader(next makerfetch.Downloader, logger *slog.Logger) *LoggingDownloader {
	return &LoggingDownloader{next: next, logger: logger}
}

// Download delegates to the wrapped downloader and logs the outcome.
func (d *LoggingDownloader) Download(ctx context.Context, url string, opts makerfetch.DownloadOptions) (out *makerfetch.DownloadOutcome) {
	defer func(begin time.Time) {
		if !out.OK() {
			d.logger.Warn("download failed",
				"url", url,
				"reason", out.Failure.Reason,
				"message", out.Failure.Message,
				"duration", time.Since(begin),
			)
			return
		}
		d.logger.Info("download",
			"url", url,
			"filename", out.Asset.Filename,
			"bytes", out.Asset.Size,
			"hash", out.Asset.ContentHash,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return d.next.Download(ctx, url, opts)
}
