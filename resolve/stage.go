package resolve

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fwojciec/makerfetch"
	"github.com/fwojciec/makerfetch/jsontree"
	"golang.org/x/sync/errgroup"
)

// Warnings added by the stages.
const (
	WarningAPIFallback     = "Upstream API failed (%s); resolved from embedded page data."
	WarningDesignMissing   = "Design metadata unavailable: %s"
	WarningNoDownloadURL   = "No download URL was found for the selected variant."
	warningInstancesFailed = "Design instances unavailable: %s"
)

// apiStage resolves from the design and instances endpoints, which are
// requested concurrently. Only the instances request has to succeed.
func (r *Resolver) apiStage(ctx context.Context, in stageInput) stageResult {
	designID := in.target.DesignID

	var (
		design, instances       jsontree.Value
		designErr, instancesErr error
		g                       errgroup.Group
	)
	g.Go(func() error {
		designErr = guard(func() error {
			var err error
			design, err = r.API.Design(ctx, designID, in.req)
			return err
		})
		return nil
	})
	g.Go(func() error {
		instancesErr = guard(func() error {
			var err error
			instances, err = r.API.Instances(ctx, designID, in.req)
			return err
		})
		return nil
	})
	_ = g.Wait()

	var warnings []string
	if designErr != nil {
		warnings = append(warnings, fmt.Sprintf(WarningDesignMissing, makerfetch.ErrorMessage(designErr)))
	}
	if instancesErr != nil {
		return stageResult{
			err:      instancesErr,
			warnings: append(warnings, fmt.Sprintf(warningInstancesFailed, makerfetch.ErrorMessage(instancesErr))),
		}
	}

	candidates := makerfetch.ExtractCandidates(instances)
	if len(candidates) == 0 && design != nil {
		candidates = makerfetch.ExtractCandidates(design)
	}
	if len(candidates) == 0 {
		return stageResult{
			err:      makerfetch.Errorf(makerfetch.EMALFORMED, "API response contains no printable variants."),
			warnings: warnings,
		}
	}

	sel, err := r.selectVariant(ctx, in, candidates)
	if err != nil {
		return stageResult{err: err, warnings: warnings}
	}

	title := ""
	if design != nil {
		title = makerfetch.ExtractTitle(design)
	}
	downloadURL := r.refineDownloadURL(ctx, in, sel.Selected)

	data := buildData(in, sel, title, downloadURL, makerfetch.SourceAPI)
	data.ImportWarnings = makerfetch.MergeWarnings(warnings, data.ImportWarnings)
	return stageResult{data: data, warnings: data.ImportWarnings}
}

// nextDataStage resolves from the JSON payload embedded in the model page.
func (r *Resolver) nextDataStage(ctx context.Context, in stageInput) stageResult {
	html, err := r.Pages.FetchPage(ctx, in.target.URL, in.req)
	if err != nil {
		return stageResult{err: err}
	}

	page, err := r.Extractor.ExtractEmbedded(html)
	if err != nil {
		if makerfetch.ErrorCode(err) != makerfetch.EMALFORMED {
			err = makerfetch.Errorf(makerfetch.EMALFORMED, "Embedded page data is unusable: %s", makerfetch.ErrorMessage(err))
		}
		return stageResult{err: err}
	}

	candidates := makerfetch.ExtractCandidates(page.Data)
	if len(candidates) == 0 {
		return stageResult{err: makerfetch.Errorf(makerfetch.EMALFORMED, "Embedded page data contains no printable variants.")}
	}

	sel, err := r.selectVariant(ctx, in, candidates)
	if err != nil {
		return stageResult{err: err}
	}

	title := makerfetch.ExtractTitle(page.Data)
	if title == "" {
		title = page.Title
	}
	downloadURL := absoluteURL(in.target.URL, sel.Selected.DownloadURL)

	data := buildData(in, sel, title, downloadURL, makerfetch.SourceNextData)
	return stageResult{data: data, warnings: data.ImportWarnings}
}

// selectVariant dedupes, enriches and selects.
func (r *Resolver) selectVariant(ctx context.Context, in stageInput, candidates []*makerfetch.VariantCandidate) (*makerfetch.Selection, error) {
	candidates = makerfetch.DedupeCandidates(candidates)
	r.enrich(ctx, candidates, in.req)
	return makerfetch.SelectVariant(makerfetch.SelectionInput{
		Candidates:    candidates,
		HashVariantID: in.target.RequestedVariantID,
		UserVariantID: in.userVariant,
		TargetPrinter: r.Config.TargetPrinter,
		AllowRelaxed:  r.Config.AllowRelaxed,
	})
}

// refineDownloadURL asks the instance asset endpoint, then the design model
// endpoint, for a download URL. The first non-empty answer replaces the
// candidate's URL; failed or empty lookups keep it.
func (r *Resolver) refineDownloadURL(ctx context.Context, in stageInput, selected *makerfetch.VariantCandidate) string {
	lookups := make([]func() (jsontree.Value, error), 0, 2)
	if selected.VariantID != nil {
		id := *selected.VariantID
		lookups = append(lookups, func() (jsontree.Value, error) {
			return r.API.InstanceAsset(ctx, id, in.req)
		})
	}
	lookups = append(lookups, func() (jsontree.Value, error) {
		return r.API.DesignModel(ctx, in.target.DesignID, in.req)
	})

	for _, lookup := range lookups {
		var payload jsontree.Value
		err := guard(func() error {
			var err error
			payload, err = lookup()
			return err
		})
		if err != nil {
			continue
		}
		if u := makerfetch.ExtractDownloadURL(payload); u != "" {
			return absoluteURL(in.target.URL, u)
		}
	}
	return absoluteURL(in.target.URL, selected.DownloadURL)
}

func buildData(in stageInput, sel *makerfetch.Selection, title, downloadURL string, source makerfetch.Source) *makerfetch.ResolvedData {
	v := sel.Selected
	warnings := sel.Warnings
	if downloadURL == "" {
		warnings = append(warnings, WarningNoDownloadURL)
	}
	return &makerfetch.ResolvedData{
		SourceURL:                   in.target.URL,
		DesignID:                    in.target.DesignID,
		ModelTitle:                  title,
		DownloadURL:                 downloadURL,
		Filename:                    makerfetch.ResolvedFilename(downloadURL, title),
		SelectedVariantID:           v.VariantID,
		SelectedProfileID:           v.ProfileID,
		SelectionStrategy:           sel.Strategy,
		AvailableVariants:           sel.Available,
		ImportWarnings:              makerfetch.MergeWarnings(nil, warnings),
		ProfileResolutionMode:       sel.Mode,
		ProfileResolutionConfidence: sel.Confidence,
		ProfileName:                 v.Name,
		Printer:                     v.Printer,
		Material:                    v.Material,
		EstimatedHours:              *v.EstimatedHours,
		EstimatedGrams:              *v.EstimatedGrams,
		Settings:                    v.Settings,
		Source:                      source,
	}
}

// absoluteURL resolves ref against base. Unparseable input yields ref.
func absoluteURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	refURL, err := url.Parse(ref)
	if err != nil || refURL.IsAbs() {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

// guard runs fn and converts a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn()
}
