package extractor

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nohype/nohype/internal/models"
)

var (
	allegroHostRe  = regexp.MustCompile(`allegro\.pl`)
	allegroPathRe  = regexp.MustCompile(`/oferta/`)
	leadingDigitRe = regexp.MustCompile(`(\d)`)
)

// Allegro scrapes allegro.pl offer pages. Allegro lists in PLN only, so no
// currency detection is involved.
type Allegro struct{}

func NewAllegro() *Allegro { return &Allegro{} }

func (e *Allegro) Source() models.Source { return models.SourceAllegro }

func (e *Allegro) CanHandle(rawURL string) bool {
	return allegroHostRe.MatchString(rawURL)
}

func (e *Allegro) IsProductPage(u *url.URL) bool {
	return allegroPathRe.MatchString(u.Path)
}

func (e *Allegro) Extract(page *Page) *models.ProductData {
	return extract(page, e, func() *models.ProductData {
		price, originalPrice := e.extractPrice(page)
		p := &models.ProductData{
			URL:           page.URL().String(),
			Name:          e.extractName(page),
			Price:         price,
			Currency:      models.PLN,
			OriginalPrice: originalPrice,
			Description:   e.extractDescription(page),
			Reviews:       e.extractReviews(page),
			Seller:        page.Text(`[data-box-name="allegro.offer.seller"] a`, `[data-role="seller-name"]`, ".seller-info a"),
			ImageURL:      e.extractImage(page),
			Source:        models.SourceAllegro,
			Timestamp:     time.Now().UnixMilli(),
		}
		ratingLabel := page.Attr(`[data-box-name="allegro.offer.rating"] [aria-label*="gwiazdek"]`, "aria-label")
		if rating, ok := ParseRating(ratingLabel); ok {
			p.Rating = rating
		}
		if count, ok := ParseCount(page.Text(`[data-box-name="allegro.offer.rating"] a`, `[data-role="reviews-count"]`)); ok {
			p.ReviewCount = count
		}
		return p
	})
}

func (e *Allegro) extractName(page *Page) string {
	selectors := []string{
		`h1[data-box-name="allegro.offer.title"]`,
		"h1.mgn2_14",
		`[data-box-name="Title"] h1`,
		"h1",
	}
	for _, sel := range selectors {
		if text := page.Text(sel); len(text) > minNameLen {
			return CleanText(text)
		}
	}
	return ""
}

// extractPrice prefers the JSON-LD structured data block, falling back to a
// selector chain over the buy box. Attribute values (content, data-price,
// aria-label) take precedence over element text.
func (e *Allegro) extractPrice(page *Page) (price, originalPrice float64) {
	if v, ok := e.priceFromJSONLD(page); ok {
		price = v
	} else {
		selectors := []string{
			`[data-box-name="allegro.offer.price"] [aria-label^="cena"]`,
			`[data-box-name="allegro.offer.price"] [aria-label*="cena"] span`,
			`[data-cy="buy-box-price-value"]`,
			"[data-price]",
			`meta[itemprop="price"]`,
		}
		for _, sel := range selectors {
			node := page.First(sel)
			if node == nil {
				continue
			}
			text := firstNonEmpty(
				attrOf(node, "content"),
				attrOf(node, "data-price"),
				attrOf(node, "aria-label"),
				node.Text(),
			)
			if v, ok := ParsePrice(text); ok && v > 1 {
				price = v
				break
			}
		}
	}

	originalSelectors := []string{
		`[data-box-name="allegro.offer.price"] del`,
		`[data-role="original-price"]`,
		".m7er_k4 del",
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

	return price, originalPrice
}

func (e *Allegro) priceFromJSONLD(page *Page) (float64, bool) {
	var price float64
	var found bool
	page.Each(`script[type="application/ld+json"]`, func(sel *goquery.Selection) {
		if found {
			return
		}
		var data struct {
			Type   string          `json:"@type"`
			Offers json.RawMessage `json:"offers"`
		}
		if err := json.Unmarshal([]byte(sel.Text()), &data); err != nil || data.Type != "Product" || data.Offers == nil {
			return
		}
		var offer struct {
			Price json.Number `json:"price"`
		}
		// offers may be a single object or an array; take the first.
		if err := json.Unmarshal(data.Offers, &offer); err != nil {
			var offers []json.RawMessage
			if err := json.Unmarshal(data.Offers, &offers); err != nil || len(offers) == 0 {
				return
			}
			if err := json.Unmarshal(offers[0], &offer); err != nil {
				return
			}
		}
		if v, err := strconv.ParseFloat(offer.Price.String(), 64); err == nil {
			price = v
			found = true
		}
	})
	return price, found
}

func (e *Allegro) extractDescription(page *Page) string {
	var parts []string

	page.Each(`[data-box-name="Parameters"] li, [data-box-name="allegro.offer.parameters"] li`, func(sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	descSelectors := []string{
		`[data-box-name="Description"]`,
		`[data-box-name="allegro.offer.description"]`,
	}
	for _, sel := range descSelectors {
		if text := page.Text(sel); len(text) > 50 {
			parts = append(parts, CleanText(text))
			break
		}
	}

	return strings.Join(parts, "\n\n")
}

func (e *Allegro) extractReviews(page *Page) []models.Review {
	var reviews []models.Review

	page.Each(`[data-box-name="allegro.offer.reviews"] > div, [data-box-name="Reviews"] li`, func(sel *goquery.Selection) {
		if len(reviews) >= maxReviews {
			return
		}
		text := strings.TrimSpace(sel.Find("p, .review-content").First().Text())
		if text == "" {
			return
		}

		rating := 0
		label, _ := sel.Find(`[aria-label*="gwiazdek"], [aria-label*="stars"]`).First().Attr("aria-label")
		if m := leadingDigitRe.FindStringSubmatch(label); m != nil {
			rating = int(m[1][0] - '0')
		}

		reviews = append(reviews, models.Review{
			Text:     CleanText(text),
			Rating:   rating,
			Author:   strings.TrimSpace(sel.Find(`.author, [data-role="reviewer-name"]`).First().Text()),
			Verified: true, // Allegro only shows reviews from completed purchases
		})
	})

	return reviews
}

func (e *Allegro) extractImage(page *Page) string {
	selectors := []string{
		`[data-box-name="allegro.offer.gallery"] img`,
		`[data-role="gallery-image"]`,
		".gallery img",
	}
	for _, sel := range selectors {
		if src := page.Attr(sel, "src"); strings.HasPrefix(src, "http") {
			return src
		}
	}
	return ""
}

func attrOf(sel *goquery.Selection, name string) string {
	v, _ := sel.Attr(name)
	return strings.TrimSpace(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
