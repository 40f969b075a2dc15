// Package goquery extracts embedded data from model pages using goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/makerfetch"
	"github.com/fwojciec/makerfetch/jsontree"
)

// NextDataSelector locates the server-rendered Next.js payload.
const NextDataSelector = "script#__NEXT_DATA__"

// Ensure Extractor implements makerfetch.EmbeddedDataExtractor at compile time.
var _ makerfetch.EmbeddedDataExtractor = (*Extractor)(nil)

// Extractor reads the __NEXT_DATA__ payload and title of a model page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractEmbedded implements makerfetch.EmbeddedDataExtractor.
func (e *Extractor) ExtractEmbedded(html string) (*makerfetch.EmbeddedPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, makerfetch.Errorf(makerfetch.EMALFORMED, "Model page is not valid HTML: %v", err)
	}

	script := doc.Find(NextDataSelector).First()
	if script.Length() == 0 {
		if isChallenge(doc) {
			return nil, makerfetch.Errorf(makerfetch.EMALFORMED, "Model page is a bot challenge without embedded data.")
		}
		return nil, makerfetch.Errorf(makerfetch.EMALFORMED, "Model page has no embedded data.")
	}

	data, err := jsontree.Parse([]byte(script.Text()))
	if err != nil {
		return nil, makerfetch.Errorf(makerfetch.EMALFORMED, "Embedded page data is not valid JSON.")
	}

	return &makerfetch.EmbeddedPage{
		Data:  data,
		Title: pageTitle(doc),
	}, nil
}

// pageTitle prefers og:title over <title> and drops a trailing
// " | Site" suffix.
func pageTitle(doc *goquery.Document) string {
	title, _ := doc.Find(`meta[property="og:title"]`).First().Attr("content")
	title = strings.TrimSpace(title)
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if i := strings.LastIndex(title, " | "); i > 0 {
		title = strings.TrimSpace(title[:i])
	}
	return title
}

// isChallenge reports whether the page is an anti-bot interstitial.
func isChallenge(doc *goquery.Document) bool {
	if doc.Find("#challenge-form, #cf-challenge-running, .cf-browser-verification").Length() > 0 {
		return true
	}
	title := strings.ToLower(doc.Find("title").First().Text())
	return strings.Contains(title, "just a moment") || strings.Contains(title, "attention required")
}
