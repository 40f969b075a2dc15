// Package slog decorates makerfetch services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/makerfetch"
)

// Ensure LoggingResolver implements makerfetch.Resolver.
var _ makerfetch.Resolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a Resolver with one log line per resolution.
type LoggingResolver struct {
	next   makerfetch.Resolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next makerfetch.Resolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// Resolve delegates to the wrapped resolver and logs the request id, the
// stages that ran and either the selection or the failure reason.
func (r *LoggingResolver) Resolve(ctx context.Context, sourceURL string, opts makerfetch.ResolveOptions) (out *makerfetch.ResolveOutcome) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", sourceURL,
			"request_id", out.Diagnostics.RequestID,
			"pipeline", out.Diagnostics.Pipeline,
			"duration", time.Since(begin),
		}
		if !out.OK() {
			attrs = append(attrs, "reason", out.Failure.Reason, "message", out.Failure.Message)
			r.logger.Warn("resolve failed", attrs...)
			return
		}
		attrs = append(attrs,
			"source", out.Data.Source,
			"strategy", out.Data.SelectionStrategy,
			"mode", out.Data.ProfileResolutionMode,
			"variants", len(out.Data.AvailableVariants),
			"warnings", len(out.Data.ImportWarnings),
		)
		if out.Data.SelectedVariantID != nil {
			attrs = append(attrs, "variant_id", *out.Data.SelectedVariantID)
		}
		r.logger.Info("resolve", attrs...)
	}(time.Now())
	return r.next.Resolve(ctx, sourceURL, opts)
}
