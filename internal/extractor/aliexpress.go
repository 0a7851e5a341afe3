package extractor

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nohype/nohype/internal/models"
)

var (
	aliHostRe = regexp.MustCompile(`aliexpress\.com`)
	aliPathRe = regexp.MustCompile(`/item/`)
)

// AliExpress scrapes aliexpress.com item pages. The markup uses generated
// class names, so most selectors are substring matches on class fragments.
type AliExpress struct {
	fallbackCurrency models.Currency
}

func NewAliExpress(fallbackCurrency models.Currency) *AliExpress {
	return &AliExpress{fallbackCurrency: fallbackCurrency}
}

func (e *AliExpress) Source() models.Source { return models.SourceAliExpress }

func (e *AliExpress) CanHandle(rawURL string) bool {
	return aliHostRe.MatchString(rawURL)
}

func (e *AliExpress) IsProductPage(u *url.URL) bool {
	return aliPathRe.MatchString(u.Path)
}

func (e *AliExpress) Extract(page *Page) *models.ProductData {
	return extract(page, e, func() *models.ProductData {
		price, originalPrice, currency := e.extractPrice(page)
		p := &models.ProductData{
			URL:           page.URL().String(),
			Name:          e.extractName(page),
			Price:         price,
			Currency:      currency,
			OriginalPrice: originalPrice,
			Description:   e.extractDescription(page),
			Reviews:       e.extractReviews(page),
			Seller:        page.Text(`[class*="Store"] [class*="name"]`, ".store-name", `[data-pl="store-name"]`),
			ImageURL:      e.extractImage(page),
			Source:        models.SourceAliExpress,
			Timestamp:     time.Now().UnixMilli(),
		}
		if rating, ok := ParseRating(page.Text(`[class*="Rating"] [class*="value"]`, ".overview-rating-average")); ok {
			p.Rating = rating
		}
		if count, ok := ParseCount(page.Text(`[class*="Review"] [class*="count"]`, ".product-reviewer-reviews")); ok {
			p.ReviewCount = count
		}
		return p
	})
}

func (e *AliExpress) extractName(page *Page) string {
	selectors := []string{
		`h1[data-pl="product-title"]`,
		".product-title-text",
		"h1.title",
		`[class*="ProductTitle"]`,
		"h1",
	}
	for _, sel := range selectors {
		if text := page.Text(sel); len(text) > minNameLen {
			return CleanText(text)
		}
	}
	return ""
}

func (e *AliExpress) extractPrice(page *Page) (price, originalPrice float64, currency models.Currency) {
	currency = e.fallbackCurrency

	priceSelectors := []string{
		`[class*="Price"] [class*="current"]`,
		".product-price-current",
		`[data-pl="product-price"]`,
		".uniform-banner-box-price",
	}
	for _, sel := range priceSelectors {
		text := page.Text(sel)
		if text == "" {
			continue
		}
		if v, ok := ParsePrice(text); ok {
			price = v
			currency = DetectCurrency(text, e.fallbackCurrency)
			break
		}
	}

	originalSelectors := []string{
		`[class*="Price"] [class*="origin"]`,
		".product-price-origin",
		`[class*="originalPrice"]`,
		"del",
	}
	for _, sel := range originalSelectors {
		text := page.Text(sel)
		if text == "" {
			continue
		}
		if v, ok := ParsePrice(text); ok && v > price {
			originalPrice = v
			break
		}
	}

	return price, originalPrice, currency
}

func (e *AliExpress) extractDescription(page *Page) string {
	var parts []string

	page.Each(`[class*="Specification"] li, .product-property-list li`, func(sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	descSelectors := []string{
		`[class*="Description"]`,
		".product-description",
		"#product-description",
	}
	for _, sel := range descSelectors {
		if text := page.Text(sel); len(text) > 50 {
			parts = append(parts, CleanText(text))
			break
		}
	}

	if len(parts) == 0 {
		// The description block is loaded lazily; an empty result usually means
		// the page was scraped before it rendered.
		return "Description unavailable (reload the page)"
	}
	return strings.Join(parts, "\n\n")
}

func (e *AliExpress) extractReviews(page *Page) []models.Review {
	var reviews []models.Review

	page.Each(`[class*="Review"] [class*="item"], .feedback-item`, func(sel *goquery.Selection) {
		if len(reviews) >= maxReviews {
			return
		}
		text := strings.TrimSpace(sel.Find(`[class*="content"], .buyer-feedback`).First().Text())
		if text == "" {
			return
		}

		// Filled star elements encode the rating; a review with none rendered
		// is treated as five stars rather than zero.
		rating := sel.Find(`[class*="star"][class*="full"], .star-active`).Length()
		if rating == 0 {
			rating = 5
		}

		reviews = append(reviews, models.Review{
			Text:     CleanText(text),
			Rating:   rating,
			Author:   strings.TrimSpace(sel.Find(`[class*="user"], .user-name`).First().Text()),
			Verified: true,
		})
	})

	return reviews
}

func (e *AliExpress) extractImage(page *Page) string {
	selectors := []string{
		`[class*="Gallery"] img`,
		".product-image img",
		`[class*="Image"] img[src*="alicdn"]`,
	}
	for _, sel := range selectors {
		if src := page.Attr(sel, "src"); strings.HasPrefix(src, "http") {
			return src
		}
	}
	return ""
}
