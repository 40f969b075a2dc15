package makerfetch

import "context"

// Source names a resolution stage.
type Source string

const (
	SourceAPI      Source = "api"
	SourceNextData Source = "next_data"
)

// SelectionStrategy records which precedence rule picked the variant.
type SelectionStrategy string

const (
	StrategyRequested SelectionStrategy = "requested_variant_id"
	StrategyUser      SelectionStrategy = "user_selected_variant"
	StrategyShortest  SelectionStrategy = "shortest_time_fallback"
)

// ResolutionMode tells whether the selected variant was constrained to
// printer-compatible candidates.
type ResolutionMode string

const (
	ModeStrict  ResolutionMode = "strict"
	ModeRelaxed ResolutionMode = "relaxed_printer"
)

// Confidence grades how trustworthy the profile match is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
)

// AvailableVariant is a metric-complete variant offered for selection.
type AvailableVariant struct {
	VariantID      *int64  `json:"variantId,omitempty"`
	ProfileID      *int64  `json:"profileId,omitempty"`
	Name           string  `json:"name"`
	Printer        string  `json:"printer"`
	Material       string  `json:"material"`
	EstimatedHours float64 `json:"estimatedHours"`
	EstimatedGrams float64 `json:"estimatedGrams"`
	Compatible     bool    `json:"compatible"`
}

// ResolvedData is the result of a successful resolution.
type ResolvedData struct {
	SourceURL   string `json:"sourceUrl"`
	DesignID    int64  `json:"designId"`
	ModelTitle  string `json:"modelTitle"`
	DownloadURL string `json:"downloadUrl"`
	Filename    string `json:"filename"`

	SelectedVariantID *int64            `json:"selectedVariantId,omitempty"`
	SelectedProfileID *int64            `json:"selectedProfileId,omitempty"`
	SelectionStrategy SelectionStrategy `json:"selectionStrategy"`
	AvailableVariants []AvailableVariant `json:"availableVariants"`
	ImportWarnings    []string           `json:"importWarnings"`

	ProfileResolutionMode       ResolutionMode `json:"profileResolutionMode"`
	ProfileResolutionConfidence Confidence     `json:"profileResolutionConfidence"`

	ProfileName    string   `json:"profileName"`
	Printer        string   `json:"printer"`
	Material       string   `json:"material"`
	EstimatedHours float64  `json:"estimatedHours"`
	EstimatedGrams float64  `json:"estimatedGrams"`
	Settings       Settings `json:"settingsSummary"`

	// Source is the stage that produced the data.
	Source Source `json:"source"`
}

// Attempt records the result of one resolution stage.
type Attempt struct {
	Source  Source `json:"source"`
	OK      bool   `json:"ok"`
	Reason  string `json:"reasonCode,omitempty"`
	Message string `json:"message,omitempty"`
}

// Diagnostics describes how a resolution went. It is built during a single
// call and never shared.
type Diagnostics struct {
	RequestID string    `json:"requestId"`
	Pipeline  []Source  `json:"pipeline"`
	Attempts  []Attempt `json:"attempts"`
	Warnings  []string  `json:"warnings"`
}

// Record appends a stage attempt.
func (d *Diagnostics) Record(a Attempt) {
	d.Pipeline = append(d.Pipeline, a.Source)
	d.Attempts = append(d.Attempts, a)
}

// Warn appends warnings that have not been seen yet.
func (d *Diagnostics) Warn(warnings ...string) {
	d.Warnings = MergeWarnings(d.Warnings, warnings)
}

// ResolveOutcome is the result of Resolve. Exactly one of Data and Failure
// is set.
type ResolveOutcome struct {
	Data        *ResolvedData `json:"data,omitempty"`
	Failure     *Failure      `json:"failure,omitempty"`
	Diagnostics Diagnostics   `json:"diagnostics"`
}

// OK reports whether the resolution succeeded.
func (o *ResolveOutcome) OK() bool {
	return o != nil && o.Data != nil
}

// ResolveOptions are per-call overrides.
type ResolveOptions struct {
	// VariantID is a caller-selected variant or profile id.
	VariantID *int64

	Request *RequestOptions
}

// Resolver resolves a model page URL into print profile metadata.
// Implementations never return errors; failures are reported in the outcome.
type Resolver interface {
	Resolve(ctx context.Context, sourceURL string, opts ResolveOptions) *ResolveOutcome
}

// MergeWarnings appends the warnings in extra that are neither blank nor
// already present, preserving first-seen order.
func MergeWarnings(base []string, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, w := range base {
		if _, ok := seen[w]; ok || w == "" {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	for _, w := range extra {
		if _, ok := seen[w]; ok || w == "" {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
