package makerfetch

import (
	"context"
	"time"
)

// DownloadOptions are per-call overrides. Zero values keep the configured
// defaults.
type DownloadOptions struct {
	Timeout  time.Duration
	MaxBytes int64
	Headers  map[string]string
}

// DownloadedAsset is a fetched and validated model file.
type DownloadedAsset struct {
	URL         string `json:"url"`
	FinalURL    string `json:"finalUrl"`
	Filename    string `json:"filename"`
	Extension   string `json:"extension"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`

	// ContentHash is the hex xxhash64 of Data.
	ContentHash string `json:"contentHash"`

	Data []byte `json:"-"`

	// Archive summarizes a 3MF package; nil for other formats or when
	// inspection failed.
	Archive *ArchiveSummary `json:"archive,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
}

// DownloadOutcome is the result of Download. Exactly one of Asset and
// Failure is set.
type DownloadOutcome struct {
	Asset   *DownloadedAsset `json:"asset,omitempty"`
	Failure *Failure         `json:"failure,omitempty"`
}

// OK reports whether the download succeeded.
func (o *DownloadOutcome) OK() bool {
	return o != nil && o.Asset != nil
}

// Downloader fetches and validates model assets. Implementations never
// return errors; failures are reported in the outcome.
type Downloader interface {
	Download(ctx context.Context, url string, opts DownloadOptions) *DownloadOutcome
}

// ArchiveSummary describes the content of a 3MF package.
type ArchiveSummary struct {
	Title       string         `json:"title,omitempty"`
	Designer    string         `json:"designer,omitempty"`
	Application string         `json:"application,omitempty"`
	Objects     int            `json:"objects"`
	Plates      []PlateSummary `json:"plates,omitempty"`
}

// PlateSummary is the slicer output recorded for one plate.
type PlateSummary struct {
	Index          int      `json:"index"`
	PrinterModelID string   `json:"printerModelId,omitempty"`
	NozzleDiameter *float64 `json:"nozzleDiameterMm,omitempty"`
	EstimatedHours *float64 `json:"estimatedHours,omitempty"`
	EstimatedGrams *float64 `json:"estimatedGrams,omitempty"`
	Filaments      []string `json:"filaments,omitempty"`
}

// ArchiveInspector reads metadata from a 3MF package.
type ArchiveInspector interface {
	Inspect(data []byte) (*ArchiveSummary, error)
}

// AssetWriter stores a downloaded asset, optionally with the resolution
// that selected it, and returns where it was written.
type AssetWriter interface {
	WriteAsset(ctx context.Context, asset *DownloadedAsset, resolved *ResolvedData) (string, error)
}
