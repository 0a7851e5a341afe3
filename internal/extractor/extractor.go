// Package extractor turns rendered marketplace pages into normalized
// ProductData. Each supported site has its own selector strategy behind a
// common interface; a fixed ordered registry picks the first one whose
// hostname pattern matches.
package extractor

import (
	"net/url"

	"github.com/nohype/nohype/internal/models"
)

// Extractor is a site-specific scraping strategy.
type Extractor interface {
	// Source names the marketplace this extractor handles.
	Source() models.Source
	// CanHandle reports whether the URL's host belongs to this site.
	CanHandle(rawURL string) bool
	// IsProductPage reports whether the location points at a product page
	// (as opposed to search results, category listings, the home page).
	IsProductPage(u *url.URL) bool
	// Extract scrapes the page into a ProductData snapshot. Returns nil when
	// the page is not a product page or scraping fails; extraction is
	// all-or-nothing, individual missing fields are not.
	Extract(page *Page) *models.ProductData
}

// Registry holds the closed, ordered set of extractors. The hostname
// patterns are mutually exclusive by construction, so order only decides
// hypothetical overlaps.
type Registry struct {
	extractors []Extractor
}

// NewRegistry builds the registry with all site strategies. fallbackCurrency
// is used when a price carries no recognizable symbol or code.
func NewRegistry(fallbackCurrency models.Currency) *Registry {
	return &Registry{
		extractors: []Extractor{
			NewAmazon(fallbackCurrency),
			NewAllegro(),
			NewAliExpress(fallbackCurrency),
		},
	}
}

// ForURL returns the first extractor that can handle the URL.
func (r *Registry) ForURL(rawURL string) (Extractor, bool) {
	for _, e := range r.extractors {
		if e.CanHandle(rawURL) {
			return e, true
		}
	}
	return nil, false
}

// Supported reports whether any extractor handles the URL.
func (r *Registry) Supported(rawURL string) bool {
	_, ok := r.ForURL(rawURL)
	return ok
}

// extract runs fn recovering from panics, converting any failure into a nil
// result. A broken selector or unexpected markup must never take down the
// caller.
func extract(page *Page, e Extractor, fn func() *models.ProductData) (p *models.ProductData) {
	if !e.IsProductPage(page.URL()) {
		return nil
	}
	defer func() {
		if recover() != nil {
			p = nil
		}
	}()
	return fn()
}

const maxReviews = 10

// minNameLen filters out breadcrumb fragments and icon labels that match
// generic h1 selectors.
const minNameLen = 5
