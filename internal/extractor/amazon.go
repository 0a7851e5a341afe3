package extractor

import (
	"encoding/json"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nohype/nohype/internal/models"
)

var (
	amazonHostRe = regexp.MustCompile(`amazon\.(com|pl|de|co\.uk|es|fr|it)`)
	amazonPathRe = regexp.MustCompile(`/dp/|/gp/product/`)
	amazonStarRe = regexp.MustCompile(`a-star-(\d)`)
)

// Amazon scrapes amazon.* product pages.
type Amazon struct {
	fallbackCurrency models.Currency
}

func NewAmazon(fallbackCurrency models.Currency) *Amazon {
	return &Amazon{fallbackCurrency: fallbackCurrency}
}

func (a *Amazon) Source() models.Source { return models.SourceAmazon }

func (a *Amazon) CanHandle(rawURL string) bool {
	return amazonHostRe.MatchString(rawURL)
}

func (a *Amazon) IsProductPage(u *url.URL) bool {
	return amazonPathRe.MatchString(u.Path)
}

func (a *Amazon) Extract(page *Page) *models.ProductData {
	return extract(page, a, func() *models.ProductData {
		price, originalPrice, currency := a.extractPrice(page)
		p := &models.ProductData{
			URL:           page.URL().String(),
			Name:          a.extractName(page),
			Price:         price,
			Currency:      currency,
			OriginalPrice: originalPrice,
			Description:   a.extractDescription(page),
			Reviews:       a.extractReviews(page),
			Seller:        page.Text("#sellerProfileTriggerId", "#merchant-info a", "#tabular-buybox .tabular-buybox-text a"),
			ImageURL:      a.extractImage(page),
			Source:        models.SourceAmazon,
			Timestamp:     time.Now().UnixMilli(),
		}
		if rating, ok := ParseRating(page.Text(`[data-hook="rating-out-of-text"]`, "#acrPopover", ".a-icon-star span")); ok {
			p.Rating = rating
		}
		if count, ok := ParseCount(page.Text("#acrCustomerReviewText", `[data-hook="total-review-count"]`)); ok {
			p.ReviewCount = count
		}
		return p
	})
}

func (a *Amazon) extractName(page *Page) string {
	selectors := []string{
		"#productTitle",
		"#title",
		"h1.product-title-word-break",
		`[data-feature-name="title"] h1`,
	}
	for _, sel := range selectors {
		if text := page.Text(sel); len(text) > minNameLen {
			return CleanText(text)
		}
	}
	return ""
}

func (a *Amazon) extractPrice(page *Page) (price, originalPrice float64, currency models.Currency) {
	currency = a.fallbackCurrency

	priceSelectors := []string{
		".a-price .a-offscreen",
		"#priceblock_ourprice",
		"#priceblock_dealprice",
		"#priceblock_saleprice",
		".a-price-whole",
		`[data-a-color="price"] .a-offscreen`,
	}
	for _, sel := range priceSelectors {
		text := page.Text(sel)
		if text == "" {
			continue
		}
		if v, ok := ParsePrice(text); ok {
			price = v
			currency = DetectCurrency(text, a.fallbackCurrency)
			break
		}
	}

	// A struck-through price only counts as the pre-discount price when it is
	// strictly above the current one; otherwise we likely re-matched the
	// current price.
	originalSelectors := []string{
		`.a-price[data-a-strike="true"] .a-offscreen`,
		".a-text-strike",
		"#priceblock_listprice",
		".basisPrice .a-offscreen",
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

func (a *Amazon) extractDescription(page *Page) string {
	var parts []string

	page.Each("#feature-bullets li, #productFactsDesktop_feature_div li", func(sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	descSelectors := []string{
		"#productDescription p",
		"#productDescription",
		"#aplus_feature_div",
		".a-expander-content",
	}
	for _, sel := range descSelectors {
		if text := page.Text(sel); len(text) > 50 {
			parts = append(parts, CleanText(text))
			break
		}
	}

	return strings.Join(parts, "\n\n")
}

func (a *Amazon) extractReviews(page *Page) []models.Review {
	var reviews []models.Review

	page.Each(`[data-hook="review"]`, func(sel *goquery.Selection) {
		if len(reviews) >= maxReviews {
			return
		}
		text := strings.TrimSpace(sel.Find(`[data-hook="review-body"]`).First().Text())
		if text == "" {
			return
		}

		rating := 0
		class, _ := sel.Find(`[data-hook="review-star-rating"] span`).First().Attr("class")
		if m := amazonStarRe.FindStringSubmatch(class); m != nil {
			rating = int(m[1][0] - '0')
		}

		reviews = append(reviews, models.Review{
			Text:     CleanText(text),
			Rating:   rating,
			Author:   strings.TrimSpace(sel.Find(".a-profile-name").First().Text()),
			Date:     strings.TrimSpace(sel.Find(`[data-hook="review-date"]`).First().Text()),
			Verified: sel.Find(`[data-hook="avp-badge"]`).Length() > 0,
		})
	})

	return reviews
}

func (a *Amazon) extractImage(page *Page) string {
	selectors := []string{"#landingImage", "#imgBlkFront", "#main-image", ".a-dynamic-image"}
	for _, sel := range selectors {
		if src := page.Attr(sel, "src"); strings.HasPrefix(src, "http") {
			return src
		}
		// Fallback: the dynamic-image attribute maps image URL -> dimensions.
		// Map order is randomized, so sort the usable keys for a stable pick.
		if data := page.Attr(sel, "data-a-dynamic-image"); data != "" {
			var images map[string][]int
			if err := json.Unmarshal([]byte(data), &images); err == nil {
				urls := make([]string, 0, len(images))
				for u := range images {
					if strings.HasPrefix(u, "http") {
						urls = append(urls, u)
					}
				}
				if len(urls) > 0 {
					slices.Sort(urls)
					return urls[0]
				}
			}
		}
	}
	return ""
}
