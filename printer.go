package makerfetch

import (
	"strings"
	"unicode"
)

// printerFamily maps a token found in a normalized printer name to a
// canonical family id. Order matters: longer tokens shadow their prefixes.
type printerFamily struct {
	token string
	id    string
}

var printerFamilies = []printerFamily{
	{"x1carbon", "x1c"},
	{"blp001", "x1c"},
	{"x1c", "x1c"},
	{"x1e", "x1e"},
	{"blp002", "x1"},
	{"x1", "x1"},
	{"p1s", "p1s"},
	{"p1p", "p1p"},
	{"p2s", "p2s"},
	{"h2d", "h2d"},
	{"h2s", "h2s"},
	{"a1mini", "a1mini"},
	{"a1", "a1"},
}

// coreXYCluster lists families that share kinematics and build volume and
// accept each other's profiles.
var coreXYCluster = []string{"x1c", "x1", "x1e", "p1s", "p1p", "p2s"}

// NormalizePrinterName lowercases name and strips everything that is not a
// letter or digit.
func NormalizePrinterName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CanonicalPrinter returns the canonical family id for name, or the
// normalized name when no known family token occurs in it.
func CanonicalPrinter(name string) string {
	normalized := NormalizePrinterName(name)
	for _, f := range printerFamilies {
		if strings.Contains(normalized, f.token) {
			return f.id
		}
	}
	return normalized
}

// TargetAliases expands a configured target printer into the canonical ids
// it accepts: the whole core-XY cluster for cluster members, otherwise just
// the target itself.
func TargetAliases(target string) []string {
	id := CanonicalPrinter(target)
	if id == "" {
		return nil
	}
	for _, member := range coreXYCluster {
		if member == id {
			return append([]string(nil), coreXYCluster...)
		}
	}
	return []string{id}
}

// IsCompatiblePrinter reports whether printer matches any alias exactly or
// by containment in either direction.
func IsCompatiblePrinter(printer string, aliases []string) bool {
	id := CanonicalPrinter(printer)
	if id == "" || id == Unknown {
		return false
	}
	for _, alias := range aliases {
		if alias == "" {
			continue
		}
		if id == alias || strings.Contains(id, alias) || strings.Contains(alias, id) {
			return true
		}
	}
	return false
}
