package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/makerfetch"
)

// Ensure Downloader implements makerfetch.Downloader at compile time.
var _ makerfetch.Downloader = (*Downloader)(nil)

// Downloader fetches model assets and validates their size and format.
type Downloader struct {
	client    *http.Client
	inspector makerfetch.ArchiveInspector
	headers   map[string]string
	timeout   time.Duration
	maxBytes  int64
}

// NewDownloader creates a Downloader using the configured headers, timeout
// and download size cap as defaults.
func NewDownloader(cfg makerfetch.Config, opts ...Option) *Downloader {
	o := newOptions(opts)
	return &Downloader{
		client:    o.client,
		inspector: o.inspector,
		headers:   cfg.HeaderSet(),
		timeout:   cfg.Timeout,
		maxBytes:  cfg.MaxDownloadBytes,
	}
}

// Download implements makerfetch.Downloader.
func (d *Downloader) Download(ctx context.Context, rawURL string, opts makerfetch.DownloadOptions) *makerfetch.DownloadOutcome {
	asset, err := d.download(ctx, rawURL, opts)
	if err != nil {
		return &makerfetch.DownloadOutcome{Failure: makerfetch.FailureFrom(err)}
	}
	return &makerfetch.DownloadOutcome{Asset: asset}
}

func (d *Downloader) download(ctx context.Context, rawURL string, opts makerfetch.DownloadOptions) (*makerfetch.DownloadedAsset, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return nil, makerfetch.Errorf(makerfetch.EINVALIDURL, "Download URL %q is not an http(s) URL.", rawURL)
	}

	timeout := d.timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	maxBytes := d.maxBytes
	if opts.MaxBytes > 0 {
		maxBytes = opts.MaxBytes
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, makerfetch.Errorf(makerfetch.EINVALIDURL, "Download URL %q is not valid.", rawURL)
	}
	setHeaders(req, d.headers)
	setHeaders(req, opts.Headers)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, downloadError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, makerfetch.Errorf(makerfetch.ENOTFOUND, "Asset not found (HTTP 404).")
	case resp.StatusCode == http.StatusRequestTimeout, resp.StatusCode == http.StatusGatewayTimeout:
		return nil, makerfetch.Errorf(makerfetch.ETIMEOUT, "Asset download timed out (HTTP %d).", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, makerfetch.Errorf(makerfetch.EUNAVAILABLE, "Asset download failed with HTTP %d.", resp.StatusCode)
	}

	if resp.ContentLength > maxBytes {
		return nil, makerfetch.Errorf(makerfetch.EUNAVAILABLE,
			"Asset is %d bytes, above the %d byte limit.", resp.ContentLength, maxBytes)
	}

	data, tooLarge, err := readLimited(resp.Body, maxBytes)
	if err != nil {
		return nil, downloadError(err)
	}
	if tooLarge {
		return nil, makerfetch.Errorf(makerfetch.EUNAVAILABLE, "Asset exceeds the %d byte limit.", maxBytes)
	}
	if len(data) == 0 {
		return nil, makerfetch.Errorf(makerfetch.EUNAVAILABLE, "Asset response is empty.")
	}

	finalURL := resp.Request.URL.String()
	contentType := resp.Header.Get("Content-Type")
	filename := makerfetch.DeriveFilename(resp.Header.Get("Content-Disposition"), finalURL)
	ext := makerfetch.InferExtension(filename, finalURL, contentType)
	if ext == "" {
		return nil, makerfetch.Errorf(makerfetch.EFORMAT,
			"Cannot determine a supported model format for %s (content type %q).", filename, contentType)
	}

	asset := &makerfetch.DownloadedAsset{
		URL:         rawURL,
		FinalURL:    finalURL,
		Filename:    makerfetch.EnsureExtension(filename, ext),
		Extension:   ext,
		ContentType: contentType,
		Size:        int64(len(data)),
		ContentHash: fmt.Sprintf("%016x", xxhash.Sum64(data)),
		Data:        data,
	}

	if ext == makerfetch.Ext3MF && d.inspector != nil {
		summary, err := d.inspector.Inspect(data)
		if err != nil {
			asset.Warnings = append(asset.Warnings, fmt.Sprintf("3MF inspection failed: %v", err))
		} else {
			asset.Archive = summary
		}
	}

	return asset, nil
}

func downloadError(err error) error {
	if isTimeout(err) {
		return makerfetch.Errorf(makerfetch.ETIMEOUT, "Asset download timed out.")
	}
	return makerfetch.Errorf(makerfetch.EUNAVAILABLE, "Asset download failed: %v", err)
}
