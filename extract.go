package makerfetch

import (
	"strconv"
	"strings"

	"github.com/fwojciec/makerfetch/jsontree"
)

// Key hints used to locate variant fields. Matching is by case-insensitive
// substring, so "printer" also matches "printerName" and "printer_model".
var (
	variantArrayHints = []string{"instance", "hits", "variant", "profiles", "items", "list"}
	variantIDKeys     = []string{"id", "instanceId", "instance_id", "variantId", "variant_id"}
	profileIDHints    = []string{"profileid", "profile_id"}
	printerHints      = []string{"printer", "devproductname", "devmodelname", "machine"}
	materialHints     = []string{"material", "filamenttype", "filament_type"}
	filamentHints     = []string{"filament"}
	hoursHints        = []string{"prediction", "printtime", "print_time", "estimatedtime", "costtime", "duration", "hours"}
	gramsHints        = []string{"weight", "gram", "usedg", "mass"}
	downloadHints     = []string{"downloadurl", "download_url", "fileurl", "file_url", "3mf", "modelurl", "model_url"}
	refineURLHints    = []string{"url", "link"}

	layerHeightHints = []string{"layerheight", "layer_height"}
	nozzleHints      = []string{"nozzlediameter", "nozzle_diameter", "nozzle"}
	infillHints      = []string{"infill"}
	wallLoopHints    = []string{"wallloops", "wall_loops", "wallcount", "wall_count"}
	supportHints     = []string{"enablesupport", "enable_support", "support"}
	speedHints       = []string{"speedprofile", "speed_profile", "processprofile", "process_profile"}
	filamentProfHint = []string{"filamentprofile", "filament_profile", "filamentname", "filament_name"}
)

// ExtractCandidate converts a raw node into a VariantCandidate. It returns
// nil when the node is not an object or carries neither a variant id nor a
// profile id.
func ExtractCandidate(node jsontree.Value) *VariantCandidate {
	obj, ok := jsontree.AsObject(node)
	if !ok {
		return nil
	}
	c := buildCandidate(obj)
	if c.VariantID == nil && c.ProfileID == nil {
		return nil
	}
	return c
}

// ExtractProfile reads candidate fields from a profile lookup payload. Unlike
// ExtractCandidate it does not require ids, since the payload is only used
// to enrich an existing candidate.
func ExtractProfile(payload jsontree.Value) *VariantCandidate {
	if payload == nil {
		return nil
	}
	return buildCandidate(payload)
}

func buildCandidate(node jsontree.Value) *VariantCandidate {
	c := &VariantCandidate{
		Printer:  Unknown,
		Material: Unknown,
		Payload:  node,
	}

	if obj, ok := jsontree.AsObject(node); ok {
		c.VariantID = findTopLevelID(obj, variantIDKeys)
	}
	if id, ok := jsontree.FindInteger(node, profileIDHints...); ok {
		c.ProfileID = &id
	}

	c.Name = findName(node)
	if printer, ok := jsontree.FindString(node, printerHints...); ok {
		c.Printer = printer
	}
	c.Material = findMaterial(node)

	if hours, ok := jsontree.FindDuration(node, hoursHints...); ok {
		c.EstimatedHours = &hours
	}
	if grams, ok := jsontree.FindNumber(node, gramsHints...); ok && grams > 0 {
		c.EstimatedGrams = &grams
	}

	c.Settings = extractSettings(node)
	c.DownloadURL = findURL(node, downloadHints)

	return c
}

// findName prefers a title, then a top-level name, then any name-like key.
func findName(node jsontree.Value) string {
	if title, ok := jsontree.FindString(node, "title"); ok {
		return title
	}
	if obj, ok := jsontree.AsObject(node); ok {
		if v, ok := obj.Get("name"); ok {
			if s, ok := jsontree.AsString(v); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	name, _ := jsontree.FindString(node, "name")
	return name
}

func extractSettings(node jsontree.Value) Settings {
	var s Settings
	if n, ok := jsontree.FindNumber(node, layerHeightHints...); ok && n > 0 {
		s.LayerHeightMM = &n
	}
	if n, ok := jsontree.FindNumber(node, nozzleHints...); ok && n > 0 {
		s.NozzleDiameterMM = &n
	}
	if n, ok := jsontree.FindNumber(node, infillHints...); ok && n >= 0 {
		s.InfillPercent = &n
	}
	if n, ok := jsontree.FindInteger(node, wallLoopHints...); ok {
		loops := int(n)
		s.WallLoops = &loops
	}
	if b, ok := jsontree.FindBool(node, supportHints...); ok {
		s.SupportEnabled = &b
	}
	if v, ok := jsontree.FindString(node, speedHints...); ok {
		s.SpeedProfile = v
	}
	if v, ok := jsontree.FindString(node, filamentProfHint...); ok {
		s.FilamentProfile = v
	}
	return s
}

// findMaterial prefers an explicit material field and falls back to the type
// of the first filament listed.
func findMaterial(node jsontree.Value) string {
	if m, ok := jsontree.FindString(node, materialHints...); ok {
		return m
	}
	arr, ok := jsontree.FindArray(node, filamentHints...)
	if !ok {
		return Unknown
	}
	for _, item := range arr.Items {
		obj, ok := jsontree.AsObject(item)
		if !ok {
			continue
		}
		for _, key := range []string{"type", "filamentType", "name"} {
			if v, ok := obj.Get(key); ok {
				if s, ok := jsontree.AsString(v); ok && strings.TrimSpace(s) != "" {
					return strings.TrimSpace(s)
				}
			}
		}
	}
	return Unknown
}

func findTopLevelID(obj *jsontree.Object, keys []string) *int64 {
	for _, key := range keys {
		v, ok := obj.Get(key)
		if !ok {
			continue
		}
		if n, ok := jsontree.ToNumber(v); ok && n >= 1 {
			id := int64(n)
			return &id
		}
	}
	return nil
}

// findURL returns the first URL-like string under a key matching hints.
func findURL(node jsontree.Value, hints []string) string {
	var found string
	jsontree.Walk(node, func(key string, value jsontree.Value, _ jsontree.Value) bool {
		if !jsontree.MatchesHint(key, hints) {
			return true
		}
		s, ok := jsontree.AsString(value)
		if !ok {
			return true
		}
		s = strings.TrimSpace(s)
		if isURLLike(s) {
			found = s
			return false
		}
		return true
	})
	return found
}

func isURLLike(s string) bool {
	return strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "http://") ||
		(strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//"))
}

// ExtractDownloadURL reads the asset URL from a download lookup payload.
func ExtractDownloadURL(payload jsontree.Value) string {
	if u := findURL(payload, downloadHints); u != "" {
		return u
	}
	return findURL(payload, refineURLHints)
}

// scoreItem rates how variant-like a node is.
func scoreItem(node jsontree.Value) int {
	obj, ok := jsontree.AsObject(node)
	if !ok {
		return 0
	}
	score := 0
	if findTopLevelID(obj, variantIDKeys) != nil {
		score += 4
	} else if _, ok := jsontree.FindInteger(obj, profileIDHints...); ok {
		score += 4
	}
	if _, ok := jsontree.FindString(obj, printerHints...); ok {
		score += 2
	}
	if _, ok := jsontree.FindDuration(obj, hoursHints...); ok {
		score += 2
	}
	if findMaterial(obj) != Unknown {
		score++
	}
	if g, ok := jsontree.FindNumber(obj, gramsHints...); ok && g > 0 {
		score += 2
	}
	if findURL(obj, downloadHints) != "" {
		score++
	}
	return score
}

// SelectVariantArray picks the array in payload most likely to hold print
// variants. Every object item is scored and the array with the highest total
// wins; ties go to the array with more objects, then to the earlier one.
func SelectVariantArray(payload jsontree.Value) (*jsontree.Array, bool) {
	var (
		best      *jsontree.Array
		bestScore int
	)
	for _, arr := range jsontree.CollectArrays(payload, variantArrayHints...) {
		total := 0
		for _, item := range arr.Items {
			total += scoreItem(item)
		}
		if total == 0 {
			continue
		}
		if best == nil || total > bestScore ||
			(total == bestScore && arr.ObjectCount() > best.ObjectCount()) {
			best, bestScore = arr, total
		}
	}
	return best, best != nil
}

// ExtractCandidates builds candidates from the best variant array of
// payload. Items that are not variant-like are dropped.
func ExtractCandidates(payload jsontree.Value) []*VariantCandidate {
	arr, ok := SelectVariantArray(payload)
	if !ok {
		return nil
	}
	var candidates []*VariantCandidate
	for _, item := range arr.Items {
		if c := ExtractCandidate(item); c != nil {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

// ExtractTitle returns the model title, preferring a nested "design" object
// when the payload wraps one.
func ExtractTitle(payload jsontree.Value) string {
	scope := payload
	jsontree.Walk(payload, func(key string, value jsontree.Value, _ jsontree.Value) bool {
		if obj, ok := jsontree.AsObject(value); ok && strings.EqualFold(key, "design") {
			scope = obj
			return false
		}
		return true
	})
	if title, ok := jsontree.FindString(scope, "title"); ok {
		return title
	}
	if name, ok := jsontree.FindString(scope, "name"); ok {
		return name
	}
	return ""
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
