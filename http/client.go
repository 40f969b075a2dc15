package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/makerfetch"
	"github.com/fwojciec/makerfetch/jsontree"
)

// Ensure Client implements makerfetch.API at compile time.
var _ makerfetch.API = (*Client)(nil)

// Client calls the design-service API.
type Client struct {
	client     *http.Client
	limiter    makerfetch.DomainLimiter
	baseURL    string
	retryDelay time.Duration
	maxBytes   int64
}

// NewClient creates a Client for cfg.APIBaseURL. Response bodies are capped
// at cfg.MaxPageBytes.
func NewClient(cfg makerfetch.Config, opts ...Option) *Client {
	o := newOptions(opts)
	return &Client{
		client:     o.client,
		limiter:    o.limiter,
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		retryDelay: cfg.RetryDelay,
		maxBytes:   cfg.MaxPageBytes,
	}
}

// Design implements makerfetch.API.
func (c *Client) Design(ctx context.Context, designID int64, req makerfetch.Request) (jsontree.Value, error) {
	return c.get(ctx, "/design/"+strconv.FormatInt(designID, 10), req)
}

// Instances implements makerfetch.API.
func (c *Client) Instances(ctx context.Context, designID int64, req makerfetch.Request) (jsontree.Value, error) {
	return c.get(ctx, "/design/"+strconv.FormatInt(designID, 10)+"/instances", req)
}

// Profile implements makerfetch.API.
func (c *Client) Profile(ctx context.Context, profileID int64, req makerfetch.Request) (jsontree.Value, error) {
	return c.get(ctx, "/profile/"+strconv.FormatInt(profileID, 10), req)
}

// InstanceAsset implements makerfetch.API.
func (c *Client) InstanceAsset(ctx context.Context, instanceID int64, req makerfetch.Request) (jsontree.Value, error) {
	return c.get(ctx, "/instance/"+strconv.FormatInt(instanceID, 10)+"/f3mf", req)
}

// DesignModel implements makerfetch.API.
func (c *Client) DesignModel(ctx context.Context, designID int64, req makerfetch.Request) (jsontree.Value, error) {
	return c.get(ctx, "/design/"+strconv.FormatInt(designID, 10)+"/model", req)
}

func (c *Client) get(ctx context.Context, path string, req makerfetch.Request) (jsontree.Value, error) {
	endpoint := c.baseURL + path
	body, err := FetchWithRetry(ctx, req.Retries, c.retryDelay, func(ctx context.Context) ([]byte, error) {
		return c.fetchOnce(ctx, endpoint, req)
	})
	if err != nil {
		if _, ok := err.(*makerfetch.Error); ok {
			return nil, err
		}
		return nil, transportError(endpoint, err)
	}

	v, err := jsontree.Parse(body)
	if errors.Is(err, jsontree.ErrEmpty) {
		return nil, makerfetch.Errorf(makerfetch.EMALFORMED, "Empty response from %s.", endpoint)
	} else if err != nil {
		return nil, makerfetch.Errorf(makerfetch.EMALFORMED, "Response from %s is not valid JSON.", endpoint)
	}
	return v, nil
}

// fetchOnce performs a single attempt. Transport failures other than a
// deadline are returned as retryable.
func (c *Client) fetchOnce(ctx context.Context, endpoint string, req makerfetch.Request) ([]byte, error) {
	if c.limiter != nil {
		if u, err := url.Parse(endpoint); err == nil {
			if err := c.limiter.Wait(ctx, u.Host); err != nil {
				return nil, err
			}
		}
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	setHeaders(httpReq, req.Headers)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if isTimeout(err) || ctx.Err() != nil {
			return nil, err
		}
		return nil, &retryableError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, makerfetch.Errorf(makerfetch.ReasonForStatus(resp.StatusCode),
			"Upstream returned HTTP %d for %s.", resp.StatusCode, endpoint)
	}

	body, tooLarge, err := readLimited(resp.Body, c.maxBytes)
	if err != nil {
		if isTimeout(err) || ctx.Err() != nil {
			return nil, err
		}
		return nil, &retryableError{err: err}
	}
	if tooLarge {
		return nil, makerfetch.Errorf(makerfetch.EMALFORMED, "Response from %s exceeds %d bytes.", endpoint, c.maxBytes)
	}
	return body, nil
}
