package makerfetch

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

var (
	designPathPattern = regexp.MustCompile(`/models?/(\d+)`)
	profileFragment   = regexp.MustCompile(`^profileId-(\d+)$`)
)

// ModelURL is a validated model page URL.
type ModelURL struct {
	// URL is the normalized page URL without fragment.
	URL string

	// DesignID is the numeric design id embedded in the path.
	DesignID int64

	// RequestedVariantID comes from a "#profileId-<id>" fragment.
	RequestedVariantID *int64
}

// NormalizeURL validates raw as a model page URL on domain or one of its
// subdomains. Every failure is an EINVALIDURL error.
func NormalizeURL(raw string, domain string) (*ModelURL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, Errorf(EINVALIDURL, "model URL is empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, Errorf(EINVALIDURL, "model URL does not parse: %v", err)
	}
	if u.Scheme != "https" {
		return nil, Errorf(EINVALIDURL, "model URL must use https")
	}

	host, err := idna.Lookup.ToASCII(strings.ToLower(u.Hostname()))
	if err != nil || host == "" {
		return nil, Errorf(EINVALIDURL, "model URL has an invalid host")
	}
	domain = strings.ToLower(strings.TrimPrefix(domain, "."))
	if host != domain && !strings.HasSuffix(host, "."+domain) {
		return nil, Errorf(EINVALIDURL, "model URL must be on %s", domain)
	}

	m := designPathPattern.FindStringSubmatch(u.Path)
	if m == nil {
		return nil, Errorf(EINVALIDURL, "model URL must contain /models/<id>")
	}
	designID, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || designID <= 0 {
		return nil, Errorf(EINVALIDURL, "model URL has an invalid design id")
	}

	result := &ModelURL{DesignID: designID}
	if fm := profileFragment.FindStringSubmatch(u.Fragment); fm != nil {
		if id, err := strconv.ParseInt(fm[1], 10, 64); err == nil && id > 0 {
			result.RequestedVariantID = &id
		}
	}

	u.Fragment = ""
	u.RawFragment = ""
	u.Host = strings.Replace(u.Host, u.Hostname(), host, 1)
	result.URL = u.String()

	return result, nil
}
