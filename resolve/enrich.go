package resolve

import (
	"context"

	"github.com/fwojciec/makerfetch"
	"golang.org/x/sync/errgroup"
)

// enrich looks up the profile of every candidate that still misses its
// printer, material or metrics, concurrently. Lookups that fail leave the
// candidate unchanged and never abort the batch.
func (r *Resolver) enrich(ctx context.Context, candidates []*makerfetch.VariantCandidate, req makerfetch.Request) {
	var g errgroup.Group
	if r.Concurrency > 0 {
		g.SetLimit(r.Concurrency)
	}
	for _, c := range candidates {
		if c.ProfileID == nil || !c.NeedsEnrichment() {
			continue
		}
		g.Go(func() error {
			_ = guard(func() error {
				payload, err := r.API.Profile(ctx, *c.ProfileID, req)
				if err != nil {
					return err
				}
				c.Enrich(makerfetch.ExtractProfile(payload))
				return nil
			})
			return nil
		})
	}
	_ = g.Wait()
}
