package makerfetch

import (
	"math"
	"strings"

	"github.com/fwojciec/makerfetch/jsontree"
)

// Unknown is the printer or material of a candidate that does not name one.
const Unknown = "unknown"

// Settings summarizes the slicer settings of a print profile. Nil fields
// were not present in the source.
type Settings struct {
	LayerHeightMM    *float64 `json:"layerHeightMm,omitempty"`
	NozzleDiameterMM *float64 `json:"nozzleDiameterMm,omitempty"`
	InfillPercent    *float64 `json:"infillPercent,omitempty"`
	WallLoops        *int     `json:"wallLoops,omitempty"`
	SupportEnabled   *bool    `json:"supportEnabled,omitempty"`
	SpeedProfile     string   `json:"speedProfile,omitempty"`
	FilamentProfile  string   `json:"filamentProfile,omitempty"`
}

// merge fills unset fields from other.
func (s *Settings) merge(other Settings) {
	if s.LayerHeightMM == nil {
		s.LayerHeightMM = other.LayerHeightMM
	}
	if s.NozzleDiameterMM == nil {
		s.NozzleDiameterMM = other.NozzleDiameterMM
	}
	if s.InfillPercent == nil {
		s.InfillPercent = other.InfillPercent
	}
	if s.WallLoops == nil {
		s.WallLoops = other.WallLoops
	}
	if s.SupportEnabled == nil {
		s.SupportEnabled = other.SupportEnabled
	}
	if s.SpeedProfile == "" {
		s.SpeedProfile = other.SpeedProfile
	}
	if s.FilamentProfile == "" {
		s.FilamentProfile = other.FilamentProfile
	}
}

// VariantCandidate is one printable variant extracted from a payload.
// At least one of VariantID and ProfileID is set.
type VariantCandidate struct {
	VariantID      *int64
	ProfileID      *int64
	Name           string
	Printer        string
	Material       string
	EstimatedHours *float64
	EstimatedGrams *float64
	Settings       Settings
	DownloadURL    string

	// Payload is the raw node the candidate was built from.
	Payload jsontree.Value
}

// HasCompleteMetrics reports whether both hours and grams are known,
// finite and positive.
func (v *VariantCandidate) HasCompleteMetrics() bool {
	return validMetric(v.EstimatedHours) && validMetric(v.EstimatedGrams)
}

// NeedsEnrichment reports whether the printer, material or metrics are
// still missing.
func (v *VariantCandidate) NeedsEnrichment() bool {
	return v.Printer == Unknown || v.Material == Unknown || !v.HasCompleteMetrics()
}

// MatchesID reports whether id is the variant id or the profile id.
func (v *VariantCandidate) MatchesID(id int64) bool {
	return (v.VariantID != nil && *v.VariantID == id) ||
		(v.ProfileID != nil && *v.ProfileID == id)
}

// Enrich fills fields that are unknown or missing from other. Known values
// and the ids are never overwritten.
func (v *VariantCandidate) Enrich(other *VariantCandidate) {
	if other == nil {
		return
	}
	if v.Name == "" {
		v.Name = other.Name
	}
	if v.Printer == Unknown && other.Printer != "" {
		v.Printer = other.Printer
	}
	if v.Material == Unknown && other.Material != "" {
		v.Material = other.Material
	}
	if !validMetric(v.EstimatedHours) && validMetric(other.EstimatedHours) {
		v.EstimatedHours = other.EstimatedHours
	}
	if !validMetric(v.EstimatedGrams) && validMetric(other.EstimatedGrams) {
		v.EstimatedGrams = other.EstimatedGrams
	}
	if v.DownloadURL == "" {
		v.DownloadURL = other.DownloadURL
	}
	v.Settings.merge(other.Settings)
}

// dedupeKey identifies a candidate as "<id>:<lowercased name>".
func (v *VariantCandidate) dedupeKey() string {
	id := "none"
	switch {
	case v.VariantID != nil:
		id = formatID(*v.VariantID)
	case v.ProfileID != nil:
		id = formatID(*v.ProfileID)
	}
	return id + ":" + strings.ToLower(strings.TrimSpace(v.Name))
}

// preference ranks duplicates: complete metrics and a download URL each add one.
func (v *VariantCandidate) preference() int {
	score := 0
	if v.HasCompleteMetrics() {
		score++
	}
	if v.DownloadURL != "" {
		score++
	}
	return score
}

func validMetric(p *float64) bool {
	return p != nil && !math.IsNaN(*p) && !math.IsInf(*p, 0) && *p > 0
}

// round4 rounds to four decimal places.
func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
