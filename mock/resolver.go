package mock

import (
	"context"

	"github.com/fwojciec/makerfetch"
)

// Compile-time interface verification.
var (
	_ makerfetch.Resolver         = (*Resolver)(nil)
	_ makerfetch.Downloader       = (*Downloader)(nil)
	_ makerfetch.ArchiveInspector = (*ArchiveInspector)(nil)
)

// Resolver is a mock implementation of makerfetch.Resolver.
type Resolver struct {
	ResolveFn func(ctx context.Context, sourceURL string, opts makerfetch.ResolveOptions) *makerfetch.ResolveOutcome
}

func (r *Resolver) Resolve(ctx context.Context, sourceURL string, opts makerfetch.ResolveOptions) *makerfetch.ResolveOutcome {
	return r.ResolveFn(ctx, sourceURL, opts)
}

// Downloader is a mock implementation of makerfetch.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context, url string, opts makerfetch.DownloadOptions) *makerfetch.DownloadOutcome
}

func (d *Downloader) Download(ctx context.Context, url string, opts makerfetch.DownloadOptions) *makerfetch.DownloadOutcome {
	return d.DownloadFn(ctx, url, opts)
}

// ArchiveInspector is a mock implementation of makerfetch.ArchiveInspector.
type ArchiveInspector struct {
	InspectFn func(data []byte) (*makerfetch.ArchiveSummary, error)
}

func (i *ArchiveInspector) Inspect(data []byte) (*makerfetch.ArchiveSummary, error) {
	return i.InspectFn(data)
}
