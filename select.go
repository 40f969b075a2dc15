package makerfetch

import (
	"fmt"
	"math"
	"sort"
)

// Warnings emitted by SelectVariant.
const (
	WarningInferredFromExplicit = "Profile compatibility inferred from explicitly selected variant."
	WarningRelaxedPrinter       = "No variant with complete metrics matches the target printer %s; selected among all printers."
	WarningRequestedMissing     = "Requested variant %d is not among the printable variants."
	WarningSelectedMissing      = "Selected variant %d is not among the printable variants."
)

// SelectionInput is everything SelectVariant needs.
type SelectionInput struct {
	Candidates []*VariantCandidate

	// HashVariantID comes from the "#profileId-<id>" URL fragment.
	HashVariantID *int64

	// UserVariantID is a caller override.
	UserVariantID *int64

	TargetPrinter string
	AllowRelaxed  bool
}

// Selection is the chosen variant together with the pool it was chosen from.
type Selection struct {
	Selected   *VariantCandidate
	Strategy   SelectionStrategy
	Mode       ResolutionMode
	Confidence Confidence
	Available  []AvailableVariant
	Warnings   []string
}

// DedupeCandidates collapses candidates sharing an id and name. When two
// collide the one with complete metrics and a download URL wins; on equal
// preference the first one is kept. Order of first appearance is preserved.
func DedupeCandidates(candidates []*VariantCandidate) []*VariantCandidate {
	index := make(map[string]int, len(candidates))
	out := make([]*VariantCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		key := c.dedupeKey()
		if i, ok := index[key]; ok {
			if c.preference() > out[i].preference() {
				out[i] = c
			}
			continue
		}
		index[key] = len(out)
		out = append(out, c)
	}
	return out
}

// SelectVariant picks one variant. Compatible, metric-complete candidates
// are preferred; without any, an explicitly requested variant or, when
// allowed, every metric-complete candidate is used in relaxed mode. The pool
// is ordered by estimated hours then grams, and the hash-requested id, the
// caller id and the shortest variant are tried in that order.
func SelectVariant(in SelectionInput) (*Selection, error) {
	candidates := DedupeCandidates(in.Candidates)
	aliases := TargetAliases(in.TargetPrinter)

	var complete, strict []*VariantCandidate
	for _, c := range candidates {
		if !c.HasCompleteMetrics() {
			continue
		}
		complete = append(complete, c)
		if IsCompatiblePrinter(c.Printer, aliases) {
			strict = append(strict, c)
		}
	}
	if len(complete) == 0 {
		return nil, Errorf(EMETRICS, "No variant has both estimated print time and filament weight.")
	}

	sel := &Selection{
		Mode:       ModeStrict,
		Confidence: ConfidenceHigh,
	}
	pool := strict
	if len(pool) == 0 {
		if explicit := findExplicit(complete, in.HashVariantID, in.UserVariantID); explicit != nil {
			pool = []*VariantCandidate{explicit}
			sel.Mode = ModeRelaxed
			sel.Warnings = append(sel.Warnings, WarningInferredFromExplicit)
		} else if in.AllowRelaxed {
			pool = complete
			sel.Mode = ModeRelaxed
			sel.Confidence = ConfidenceMedium
			sel.Warnings = append(sel.Warnings, fmt.Sprintf(WarningRelaxedPrinter, in.TargetPrinter))
		} else {
			return nil, Errorf(EINCOMPATIBLE, "No variant is compatible with printer %s.", in.TargetPrinter)
		}
	}

	pool = sortByDuration(pool)

	switch {
	case in.HashVariantID != nil && findByID(pool, *in.HashVariantID) != nil:
		sel.Selected = findByID(pool, *in.HashVariantID)
		sel.Strategy = StrategyRequested
	case in.UserVariantID != nil && findByID(pool, *in.UserVariantID) != nil:
		sel.Selected = findByID(pool, *in.UserVariantID)
		sel.Strategy = StrategyUser
	default:
		sel.Selected = pool[0]
		sel.Strategy = StrategyShortest
	}
	if in.HashVariantID != nil && sel.Strategy != StrategyRequested {
		sel.Warnings = append(sel.Warnings, fmt.Sprintf(WarningRequestedMissing, *in.HashVariantID))
	}
	if in.UserVariantID != nil && sel.Strategy == StrategyShortest {
		sel.Warnings = append(sel.Warnings, fmt.Sprintf(WarningSelectedMissing, *in.UserVariantID))
	}

	if !sel.Selected.HasCompleteMetrics() {
		return nil, Errorf(EMETRICS, "Selected variant is missing estimated print time or filament weight.")
	}

	sel.Available = make([]AvailableVariant, 0, len(pool))
	for _, c := range pool {
		sel.Available = append(sel.Available, AvailableVariant{
			VariantID:      c.VariantID,
			ProfileID:      c.ProfileID,
			Name:           c.Name,
			Printer:        c.Printer,
			Material:       c.Material,
			EstimatedHours: round4(*c.EstimatedHours),
			EstimatedGrams: round4(*c.EstimatedGrams),
			Compatible:     IsCompatiblePrinter(c.Printer, aliases),
		})
	}
	sel.Warnings = MergeWarnings(nil, sel.Warnings)
	return sel, nil
}

// findExplicit returns the candidate matching the hash id, or failing that
// the caller id.
func findExplicit(pool []*VariantCandidate, hashID, userID *int64) *VariantCandidate {
	if hashID != nil {
		if c := findByID(pool, *hashID); c != nil {
			return c
		}
	}
	if userID != nil {
		return findByID(pool, *userID)
	}
	return nil
}

func findByID(pool []*VariantCandidate, id int64) *VariantCandidate {
	for _, c := range pool {
		if c.MatchesID(id) {
			return c
		}
	}
	return nil
}

// sortByDuration returns a copy of pool ordered by hours then grams, with
// missing values last. The sort is stable so equal entries keep their order.
func sortByDuration(pool []*VariantCandidate) []*VariantCandidate {
	sorted := append([]*VariantCandidate(nil), pool...)
	sort.SliceStable(sorted, func(i, j int) bool {
		hi, hj := metricOrInf(sorted[i].EstimatedHours), metricOrInf(sorted[j].EstimatedHours)
		if hi != hj {
			return hi < hj
		}
		return metricOrInf(sorted[i].EstimatedGrams) < metricOrInf(sorted[j].EstimatedGrams)
	})
	return sorted
}

func metricOrInf(p *float64) float64 {
	if !validMetric(p) {
		return math.Inf(1)
	}
	return *p
}
