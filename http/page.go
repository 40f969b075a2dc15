package http

import (
	"context"
	"net/http"

	"github.com/fwojciec/makerfetch"
)

// Ensure PageFetcher implements makerfetch.PageFetcher at compile time.
var _ makerfetch.PageFetcher = (*PageFetcher)(nil)

// PageFetcher retrieves model pages with plain HTTP requests. It does not
// execute JavaScript; the embedded payload is server-rendered.
type PageFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewPageFetcher creates a PageFetcher reading at most cfg.MaxPageBytes per
// page.
func NewPageFetcher(cfg makerfetch.Config, opts ...Option) *PageFetcher {
	o := newOptions(opts)
	return &PageFetcher{
		client:   o.client,
		maxBytes: cfg.MaxPageBytes,
	}
}

// FetchPage implements makerfetch.PageFetcher.
func (f *PageFetcher) FetchPage(ctx context.Context, url string, req makerfetch.Request) (string, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", makerfetch.Errorf(makerfetch.EINVALIDURL, "Invalid page URL %s.", url)
	}
	setHeaders(httpReq, req.Headers)
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return "", transportError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", makerfetch.Errorf(makerfetch.ReasonForStatus(resp.StatusCode),
			"Model page returned HTTP %d.", resp.StatusCode)
	}

	body, tooLarge, err := readLimited(resp.Body, f.maxBytes)
	if err != nil {
		return "", transportError(url, err)
	}
	if tooLarge {
		return "", makerfetch.Errorf(makerfetch.EMALFORMED, "Model page exceeds %d bytes.", f.maxBytes)
	}
	return string(body), nil
}

func transportError(url string, err error) error {
	if isTimeout(err) {
		return makerfetch.Errorf(makerfetch.ETIMEOUT, "Request to %s timed out.", url)
	}
	return makerfetch.Errorf(makerfetch.ENETWORK, "Request to %s failed: %v", url, err)
}
