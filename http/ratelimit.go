package http

import (
	"context"
	"sync"

	"github.com/fwojciec/makerfetch"
	"golang.org/x/time/rate"
)

var _ makerfetch.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter paces design-service API attempts. Client waits on it before
// every attempt, retries included, so a resolve with enrichment fan-out
// cannot burst past Config.RateLimit against the upstream host.
type DomainLimiter struct {
	rps float64

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewDomainLimiter returns a limiter allowing rps attempts per second to each
// API host, with no burst. Zero or a negative rps leaves attempts unpaced.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		rps:     rps,
		buckets: make(map[string]*rate.Limiter),
	}
}

// Wait implements makerfetch.DomainLimiter. host is the API host including
// any port.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	if d.rps <= 0 {
		return ctx.Err()
	}
	return d.bucket(host).Wait(ctx)
}

func (d *DomainLimiter) bucket(host string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.buckets[host]
	if !ok {
		b = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.buckets[host] = b
	}
	return b
}
