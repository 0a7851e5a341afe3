package extractor

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nohype/nohype/internal/models"
)

// Page wraps a parsed product page and the selector primitives the site
// extractors share. It stands in for the live DOM the selectors were written
// against.
type Page struct {
	doc *goquery.Document
	url *url.URL
}

// ParsePage parses rendered HTML into a Page.
func ParsePage(html, pageURL string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	return &Page{doc: doc, url: u}, nil
}

// URL returns the page location.
func (p *Page) URL() *url.URL { return p.url }

// Text returns the trimmed text of the first element matching any selector,
// tried in order. Empty string when nothing matches.
func (p *Page) Text(selectors ...string) string {
	for _, sel := range selectors {
		if s := strings.TrimSpace(p.doc.Find(sel).First().Text()); s != "" {
			return s
		}
	}
	return ""
}

// Attr returns the named attribute of the first element matching the selector.
func (p *Page) Attr(selector, name string) string {
	v, _ := p.doc.Find(selector).First().Attr(name)
	return strings.TrimSpace(v)
}

// Each visits every element matching the selector.
func (p *Page) Each(selector string, fn func(sel *goquery.Selection)) {
	p.doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		fn(sel)
	})
}

// First returns the first selection matching any of the selectors, or nil.
func (p *Page) First(selectors ...string) *goquery.Selection {
	for _, sel := range selectors {
		if s := p.doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}
	return nil
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// CleanText collapses runs of whitespace (including newlines) to single
// spaces and trims the ends.
func CleanText(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

var priceCharsRe = regexp.MustCompile(`[^\d.,]`)

// ParsePrice extracts a numeric amount from price text such as "1 299,99 zł"
// or "$1,299.99". Returns false when no number can be recovered.
func ParsePrice(text string) (float64, bool) {
	cleaned := priceCharsRe.ReplaceAllString(text, "")
	if cleaned == "" {
		return 0, false
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		// 1.299,99 style, dots are thousands separators.
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		// 1,299.99 style, commas are thousands separators.
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case strings.Count(cleaned, ",") > 1:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case lastComma >= 0:
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case strings.Count(cleaned, ".") > 1:
		cleaned = strings.Replace(cleaned, ".", "", strings.Count(cleaned, ".")-1)
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// currencyMarkers is the detection priority table. First match wins; the
// order matters because "$" appears inside some compound markers.
var currencyMarkers = []struct {
	currency models.Currency
	markers  []string
}{
	{models.PLN, []string{"zł", "PLN"}},
	{models.USD, []string{"$", "USD"}},
	{models.EUR, []string{"€", "EUR"}},
	{models.GBP, []string{"£", "GBP"}},
	{models.CNY, []string{"¥", "CNY"}},
}

// DetectCurrency finds a currency symbol or code in price text. Falls back
// to the given default when nothing matches (historically PLN; see config).
func DetectCurrency(text string, fallback models.Currency) models.Currency {
	for _, entry := range currencyMarkers {
		for _, m := range entry.markers {
			if strings.Contains(text, m) {
				return entry.currency
			}
		}
	}
	return fallback
}

// leadingNumberRe matches the leading numeric token of rating/count summaries
// like "4,5 z 5 gwiazdek" or "1 234 ratings".
var leadingNumberRe = regexp.MustCompile(`([\d.,\s]+)`)

// ParseRating extracts a decimal rating from summary text, normalizing the
// comma decimal separator. Returns false (absence, not zero) on no match.
func ParseRating(text string) (float64, bool) {
	m := leadingNumberRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	token := strings.ReplaceAll(strings.TrimSpace(m[1]), ",", ".")
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseCount extracts an integer count from text like "1 234 opinii" or
// "2,341 ratings", dropping grouping separators.
func ParseCount(text string) (int, bool) {
	m := leadingNumberRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	token := strings.NewReplacer(" ", "", " ", "", ",", "", ".", "").Replace(m[1])
	if token == "" {
		return 0, false
	}
	v, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}
	return v, true
}
