// Package http implements the upstream transports of makerfetch on top of
// net/http: the design-service API client, the model page fetcher used by the
// fallback stage, and the asset downloader.
package http

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/fwojciec/makerfetch"
)

// options are shared by every constructor in this package.
type options struct {
	client    *http.Client
	limiter   makerfetch.DomainLimiter
	inspector makerfetch.ArchiveInspector
}

// Option configures a Client, PageFetcher or Downloader.
type Option func(*options)

// WithHTTPClient replaces the default http.Client. Timeouts are enforced
// per request through the context, so the client needs none of its own.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithLimiter paces requests per host. Only the API client uses it.
func WithLimiter(l makerfetch.DomainLimiter) Option {
	return func(o *options) {
		o.limiter = l
	}
}

// WithInspector enables 3MF inspection of downloaded assets.
func WithInspector(i makerfetch.ArchiveInspector) Option {
	return func(o *options) {
		o.inspector = i
	}
}

func newOptions(opts []Option) options {
	o := options{client: &http.Client{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.client == nil {
		o.client = &http.Client{}
	}
	return o
}

func setHeaders(req *http.Request, headers map[string]string) {
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}

// readLimited reads at most limit bytes from r. The second result reports
// whether the body was longer than limit.
func readLimited(r io.Reader, limit int64) ([]byte, bool, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(data)) > limit {
		return nil, true, nil
	}
	return data, false, nil
}

// isTimeout reports whether err stems from a deadline.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
