package makerfetch

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultDomain           = "makerworld.com"
	DefaultAPIBaseURL       = "https://makerworld.com/api/v1/design-service"
	DefaultTargetPrinter    = "P2S"
	DefaultTimeout          = 15 * time.Second
	DefaultRetries          = 2
	DefaultRetryDelay       = 250 * time.Millisecond
	DefaultMaxPageBytes     = 5 << 20
	DefaultMaxDownloadBytes = 200 << 20
	DefaultRateLimit        = 4.0
	DefaultUserAgent        = "makerfetch/0.1 (+https://github.com/fwojciec/makerfetch)"
)

// Config is the immutable configuration shared by every resolve and download
// call. It is passed by value; Headers is cloned on read.
type Config struct {
	// Domain is the upstream site; model URLs must be on it or a subdomain.
	Domain string

	// APIBaseURL is the design-service root that endpoint paths are joined to.
	APIBaseURL string

	// TargetPrinter is the printer the selected profile should be compatible with.
	TargetPrinter string

	// Headers are sent with every upstream request.
	Headers map[string]string

	Timeout          time.Duration
	Retries          int
	RetryDelay       time.Duration
	MaxPageBytes     int64
	MaxDownloadBytes int64

	// RateLimit is the number of API requests per second allowed per host.
	RateLimit float64

	// AllowRelaxed permits falling back to printer-incompatible variants when
	// no compatible one has complete metrics.
	AllowRelaxed bool
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Domain:        DefaultDomain,
		APIBaseURL:    DefaultAPIBaseURL,
		TargetPrinter: DefaultTargetPrinter,
		Headers: map[string]string{
			"User-Agent":      DefaultUserAgent,
			"Accept":          "application/json, text/html;q=0.9, */*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		},
		Timeout:          DefaultTimeout,
		Retries:          DefaultRetries,
		RetryDelay:       DefaultRetryDelay,
		MaxPageBytes:     DefaultMaxPageBytes,
		MaxDownloadBytes: DefaultMaxDownloadBytes,
		RateLimit:        DefaultRateLimit,
		AllowRelaxed:     true,
	}
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Domain) == "" {
		return fmt.Errorf("domain must be set")
	}
	if !strings.HasPrefix(c.APIBaseURL, "https://") && !strings.HasPrefix(c.APIBaseURL, "http://") {
		return fmt.Errorf("api base URL must be an http(s) URL: %q", c.APIBaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0")
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must be >= 0")
	}
	if c.MaxPageBytes <= 0 {
		return fmt.Errorf("max page bytes must be > 0")
	}
	if c.MaxDownloadBytes <= 0 {
		return fmt.Errorf("max download bytes must be > 0")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must be >= 0")
	}
	return nil
}

// HeaderSet returns a copy of the configured headers.
func (c Config) HeaderSet() map[string]string {
	return maps.Clone(c.Headers)
}

// Request carries the effective per-call transport settings.
type Request struct {
	Timeout time.Duration
	Retries int
	Headers map[string]string
}

// RequestOptions are caller overrides of the configured transport settings.
// Zero values keep the configured defaults.
type RequestOptions struct {
	Timeout time.Duration
	Retries *int
	Headers map[string]string
}

// Request merges caller overrides into the configured settings. Override
// headers replace configured headers with the same name.
func (c Config) Request(opts *RequestOptions) Request {
	req := Request{
		Timeout: c.Timeout,
		Retries: c.Retries,
		Headers: c.HeaderSet(),
	}
	if req.Headers == nil {
		req.Headers = make(map[string]string)
	}
	if opts == nil {
		return req
	}
	if opts.Timeout > 0 {
		req.Timeout = opts.Timeout
	}
	if opts.Retries != nil && *opts.Retries >= 0 {
		req.Retries = *opts.Retries
	}
	for k, v := range opts.Headers {
		req.Headers[k] = v
	}
	return req
}
