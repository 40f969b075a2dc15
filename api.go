package makerfetch

import (
	"context"

	"github.com/fwojciec/makerfetch/jsontree"
)

// API is the upstream design service. Every method returns the decoded JSON
// body, or an *Error whose code reflects the HTTP status or transport failure.
// An empty or non-JSON body is an EMALFORMED error.
type API interface {
	// Design returns design metadata.
	Design(ctx context.Context, designID int64, req Request) (jsontree.Value, error)

	// Instances returns the printable instances of a design.
	Instances(ctx context.Context, designID int64, req Request) (jsontree.Value, error)

	// Profile returns the profile record used to enrich a variant.
	Profile(ctx context.Context, profileID int64, req Request) (jsontree.Value, error)

	// InstanceAsset returns the 3MF download descriptor of an instance.
	InstanceAsset(ctx context.Context, instanceID int64, req Request) (jsontree.Value, error)

	// DesignModel returns the design-level model download descriptor.
	DesignModel(ctx context.Context, designID int64, req Request) (jsontree.Value, error)
}

// PageFetcher retrieves the HTML of a model page. Implementations bound the
// number of bytes read and honor req.Timeout.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string, req Request) (html string, err error)
}

// EmbeddedPage is the data embedded in a model page.
type EmbeddedPage struct {
	// Data is the parsed embedded JSON payload.
	Data jsontree.Value

	// Title is the page title from metadata, used when the payload has none.
	Title string
}

// EmbeddedDataExtractor pulls the embedded JSON payload out of page HTML.
// A missing or unparseable payload is an EMALFORMED error.
type EmbeddedDataExtractor interface {
	ExtractEmbedded(html string) (*EmbeddedPage, error)
}

// DomainLimiter paces requests per host.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed or ctx is done.
	Wait(ctx context.Context, domain string) error
}
