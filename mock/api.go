package mock

import (
	"context"

	"github.com/fwojciec/makerfetch"
	"github.com/fwojciec/makerfetch/jsontree"
)

// Compile-time interface verification.
var (
	_ makerfetch.API                   = (*API)(nil)
	_ makerfetch.PageFetcher           = (*PageFetcher)(nil)
	_ makerfetch.EmbeddedDataExtractor = (*EmbeddedDataExtractor)(nil)
	_ makerfetch.DomainLimiter         = (*DomainLimiter)(nil)
)

// API is a mock implementation of makerfetch.API.
type API struct {
	DesignFn        func(ctx context.Context, designID int64, req makerfetch.Request) (jsontree.Value, error)
	InstancesFn     func(ctx context.Context, designID int64, req makerfetch.Request) (jsontree.Value, error)
	ProfileFn       func(ctx context.Context, profileID int64, req makerfetch.Request) (jsontree.Value, error)
	InstanceAssetFn func(ctx context.Context, instanceID int64, req makerfetch.Request) (jsontree.Value, error)
	DesignModelFn   func(ctx context.Context, designID int64, req makerfetch.Request) (jsontree.Value, error)
}

func (a *API) Design(ctx context.Context, designID int64, req makerfetch.Request) (jsontree.Value, error) {
	return a.DesignFn(ctx, designID, req)
}

func (a *API) Instances(ctx context.Context, designID int64, req makerfetch.Request) (jsontree.Value, error) {
	return a.InstancesFn(ctx, designID, req)
}

func (a *API) Profile(ctx context.Context, profileID int64, req makerfetch.Request) (jsontree.Value, error) {
	return a.ProfileFn(ctx, profileID, req)
}

func (a *API) InstanceAsset(ctx context.Context, instanceID int64, req makerfetch.Request) (jsontree.Value, error) {
	return a.InstanceAssetFn(ctx, instanceID, req)
}

func (a *API) DesignModel(ctx context.Context, designID int64, req makerfetch.Request) (jsontree.Value, error) {
	return a.DesignModelFn(ctx, designID, req)
}

// PageFetcher is a mock implementation of makerfetch.PageFetcher.
type PageFetcher struct {
	FetchPageFn func(ctx context.Context, url string, req makerfetch.Request) (string, error)
}

func (f *PageFetcher) FetchPage(ctx context.Context, url string, req makerfetch.Request) (string, error) {
	return f.FetchPageFn(ctx, url, req)
}

// EmbeddedDataExtractor is a mock implementation of makerfetch.EmbeddedDataExtractor.
type EmbeddedDataExtractor struct {
	ExtractEmbeddedFn func(html string) (*makerfetch.EmbeddedPage, error)
}

func (e *EmbeddedDataExtractor) ExtractEmbedded(html string) (*makerfetch.EmbeddedPage, error) {
	return e.ExtractEmbeddedFn(html)
}

// DomainLimiter is a mock implementation of makerfetch.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
