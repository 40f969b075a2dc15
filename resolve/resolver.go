// Package resolve orchestrates model resolution: the upstream API stage and
// the embedded page data fallback, sharing extraction, enrichment and
// variant selection.
package resolve

import (
	"context"
	"fmt"

	"github.com/fwojciec/makerfetch"
	"github.com/google/uuid"
)

// Ensure Resolver implements makerfetch.Resolver at compile time.
var _ makerfetch.Resolver = (*Resolver)(nil)

// Resolver resolves model page URLs. It holds no per-call state and is safe
// for concurrent use.
type Resolver struct {
	API       makerfetch.API
	Pages     makerfetch.PageFetcher
	Extractor makerfetch.EmbeddedDataExtractor
	Config    makerfetch.Config

	// Concurrency bounds simultaneous profile lookups. Zero means no limit.
	Concurrency int
}

// stageInput is what both stages work from.
type stageInput struct {
	target      *makerfetch.ModelURL
	req         makerfetch.Request
	userVariant *int64
}

// stageResult is the outcome of one stage. Exactly one of data and err is
// set; warnings are kept either way.
type stageResult struct {
	data     *makerfetch.ResolvedData
	err      error
	warnings []string
}

func (s stageResult) attempt(source makerfetch.Source) makerfetch.Attempt {
	a := makerfetch.Attempt{Source: source, OK: s.err == nil}
	if s.err != nil {
		a.Reason = makerfetch.ErrorCode(s.err)
		a.Message = makerfetch.ErrorMessage(s.err)
	}
	return a
}

// Resolve implements makerfetch.Resolver. The API stage runs first; the
// embedded page data stage runs only when it fails. When both fail the
// fallback's failure is reported. Panics are recovered into a generic
// network error so callers always receive an outcome.
func (r *Resolver) Resolve(ctx context.Context, sourceURL string, opts makerfetch.ResolveOptions) (out *makerfetch.ResolveOutcome) {
	diag := makerfetch.Diagnostics{
		RequestID: uuid.NewString(),
		Pipeline:  []makerfetch.Source{},
		Attempts:  []makerfetch.Attempt{},
		Warnings:  []string{},
	}
	defer func() {
		if p := recover(); p != nil {
			out = &makerfetch.ResolveOutcome{
				Failure:     makerfetch.FailureFrom(fmt.Errorf("resolve panic: %v", p)),
				Diagnostics: diag,
			}
		}
	}()

	target, err := makerfetch.NormalizeURL(sourceURL, r.Config.Domain)
	if err != nil {
		return &makerfetch.ResolveOutcome{
			Failure:     makerfetch.FailureFrom(err),
			Diagnostics: diag,
		}
	}

	in := stageInput{
		target:      target,
		req:         r.Config.Request(opts.Request),
		userVariant: opts.VariantID,
	}

	api := r.apiStage(ctx, in)
	diag.Record(api.attempt(makerfetch.SourceAPI))
	if api.err == nil {
		diag.Warn(api.data.ImportWarnings...)
		return &makerfetch.ResolveOutcome{Data: api.data, Diagnostics: diag}
	}

	fallback := r.nextDataStage(ctx, in)
	diag.Record(fallback.attempt(makerfetch.SourceNextData))
	if fallback.err == nil {
		fallback.data.ImportWarnings = makerfetch.MergeWarnings(
			[]string{fmt.Sprintf(WarningAPIFallback, makerfetch.ErrorCode(api.err))},
			append(api.warnings, fallback.data.ImportWarnings...),
		)
		diag.Warn(fallback.data.ImportWarnings...)
		return &makerfetch.ResolveOutcome{Data: fallback.data, Diagnostics: diag}
	}

	diag.Warn(api.warnings...)
	diag.Warn(fallback.warnings...)
	return &makerfetch.ResolveOutcome{
		Failure:     makerfetch.FailureFrom(fallback.err),
		Diagnostics: diag,
	}
}
