package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nohype/nohype/internal/models"
)

func TestRegistry_ForURL(t *testing.T) {
	r := NewRegistry(models.PLN)

	tests := []struct {
		url    string
		source models.Source
	}{
		{"https://www.amazon.pl/dp/B0ABCDEF", models.SourceAmazon},
		{"https://www.amazon.co.uk/gp/product/B0ABCDEF", models.SourceAmazon},
		{"https://allegro.pl/oferta/sluchawki-123456", models.SourceAllegro},
		{"https://www.aliexpress.com/item/1005001.html", models.SourceAliExpress},
	}
	for _, tt := range tests {
		e, ok := r.ForURL(tt.url)
		require.True(t, ok, tt.url)
		assert.Equal(t, tt.source, e.Source(), tt.url)
	}
}

func TestRegistry_UnsupportedURL(t *testing.T) {
	r := NewRegistry(models.PLN)

	_, ok := r.ForURL("https://example.com/product/123")
	assert.False(t, ok)
	assert.False(t, r.Supported("https://sklep.example.pl/oferta/1"))
}

func TestExtract_NonProductPageReturnsNil(t *testing.T) {
	page, err := ParsePage(`<html><h1>Wyniki wyszukiwania</h1></html>`, "https://allegro.pl/listing?string=kabel")
	require.NoError(t, err)

	assert.Nil(t, NewAllegro().Extract(page))
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		text string
		want float64
		ok   bool
	}{
		{"1 299,99 zł", 1299.99, true},
		{"$1,299.99", 1299.99, true},
		{"1.299,99 €", 1299.99, true},
		{"49,90 zł", 49.90, true},
		{"£12.50", 12.50, true},
		{"1299", 1299, true},
		{"darmowa dostawa", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParsePrice(tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 0.001, tt.text)
		}
	}
}

func TestDetectCurrency(t *testing.T) {
	tests := []struct {
		text string
		want models.Currency
	}{
		{"129,99 zł", models.PLN},
		{"$9.99", models.USD},
		{"12,30 €", models.EUR},
		{"£5.00", models.GBP},
		{"¥100", models.CNY},
		{"129.99", models.PLN}, // fallback
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectCurrency(tt.text, models.PLN), tt.text)
	}
}

func TestParseRating(t *testing.T) {
	got, ok := ParseRating("4,5 z 5 gwiazdek")
	require.True(t, ok)
	assert.InDelta(t, 4.5, got, 0.001)

	got, ok = ParseRating("4.8 out of 5 stars")
	require.True(t, ok)
	assert.InDelta(t, 4.8, got, 0.001)

	_, ok = ParseRating("brak ocen")
	assert.False(t, ok)
}

func TestParseCount(t *testing.T) {
	got, ok := ParseCount("1 234 opinii")
	require.True(t, ok)
	assert.Equal(t, 1234, got)

	got, ok = ParseCount("2,341 ratings")
	require.True(t, ok)
	assert.Equal(t, 2341, got)

	_, ok = ParseCount("opinie")
	assert.False(t, ok)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Kabel USB-C 2m", CleanText("  Kabel \n  USB-C\t 2m  "))
}

const amazonHTML = `<html><body>
<h1 id="productTitle"> Słuchawki Bezprzewodowe Pro </h1>
<div class="a-price"><span class="a-offscreen">199,99 zł</span></div>
<div class="a-price" data-a-strike="true"><span class="a-offscreen">399,99 zł</span></div>
<div id="feature-bullets"><ul><li>Bluetooth 5.3</li><li>ANC</li></ul></div>
<span data-hook="rating-out-of-text">4,5 z 5</span>
<span id="acrCustomerReviewText">1 234 oceny</span>
<span id="sellerProfileTriggerId">AudioShop</span>
<img id="landingImage" src="https://images.example/img.jpg">
<div data-hook="review">
  <span class="a-profile-name">Jan</span>
  <i data-hook="review-star-rating"><span class="a-icon a-star-4"></span></i>
  <span data-hook="review-date">12 maja 2026</span>
  <span data-hook="review-body">Dobre słuchawki, polecam.</span>
  <span data-hook="avp-badge">Zweryfikowany zakup</span>
</div>
</body></html>`

func TestAmazon_Extract(t *testing.T) {
	page, err := ParsePage(amazonHTML, "https://www.amazon.pl/dp/B0TEST123")
	require.NoError(t, err)

	p := NewAmazon(models.PLN).Extract(page)
	require.NotNil(t, p)

	assert.Equal(t, "Słuchawki Bezprzewodowe Pro", p.Name)
	assert.Equal(t, 199.99, p.Price)
	assert.Equal(t, 399.99, p.OriginalPrice)
	assert.Equal(t, models.PLN, p.Currency)
	assert.Equal(t, models.SourceAmazon, p.Source)
	assert.Contains(t, p.Description, "Bluetooth 5.3")
	assert.Equal(t, 4.5, p.Rating)
	assert.Equal(t, 1234, p.ReviewCount)
	assert.Equal(t, "AudioShop", p.Seller)
	assert.Equal(t, "https://images.example/img.jpg", p.ImageURL)

	require.Len(t, p.Reviews, 1)
	assert.Equal(t, 4, p.Reviews[0].Rating)
	assert.Equal(t, "Jan", p.Reviews[0].Author)
	assert.True(t, p.Reviews[0].Verified)
}

func TestAmazon_OriginalPriceMustExceedPrice(t *testing.T) {
	html := `<html><body>
<h1 id="productTitle">Kabel HDMI dwumetrowy</h1>
<div class="a-price"><span class="a-offscreen">59,99 zł</span></div>
<div class="a-price" data-a-strike="true"><span class="a-offscreen">59,99 zł</span></div>
</body></html>`
	page, err := ParsePage(html, "https://www.amazon.pl/dp/B0TEST123")
	require.NoError(t, err)

	p := NewAmazon(models.PLN).Extract(page)
	require.NotNil(t, p)
	assert.Equal(t, 59.99, p.Price)
	assert.Zero(t, p.OriginalPrice)
}

func TestAmazon_DynamicImageFallback(t *testing.T) {
	html := `<html><body>
<h1 id="productTitle">Kabel USB-C</h1>
<div class="a-price"><span class="a-offscreen">19,99 zł</span></div>
<img id="landingImage" data-a-dynamic-image='{"https://m.media-amazon.com/images/I/zzz.jpg":[500,500],"https://m.media-amazon.com/images/I/aaa.jpg":[1000,1000],"data:image/gif;base64,R0lGOD":[1,1]}'>
</body></html>`
	page, err := ParsePage(html, "https://www.amazon.pl/dp/B0TEST123")
	require.NoError(t, err)

	// The pick must be stable across runs and never a data: URI.
	for i := 0; i < 5; i++ {
		p := NewAmazon(models.PLN).Extract(page)
		require.NotNil(t, p)
		assert.Equal(t, "https://m.media-amazon.com/images/I/aaa.jpg", p.ImageURL)
	}
}

const allegroHTML = `<html><body>
<h1 data-box-name="allegro.offer.title">Zegarek sportowy GPS</h1>
<script type="application/ld+json">{"@type":"Product","name":"Zegarek sportowy GPS","offers":{"@type":"Offer","price":"649.00","priceCurrency":"PLN"}}</script>
<div data-box-name="allegro.offer.price"><del>899,00 zł</del></div>
<div data-box-name="allegro.offer.seller"><a href="/sklep">SportWatch24</a></div>
<div data-box-name="allegro.offer.rating">
  <span aria-label="4,8 z 5 gwiazdek"></span>
  <a href="#opinie">123 opinie</a>
</div>
<div data-box-name="allegro.offer.gallery"><img src="https://a.allegroimg.com/original/zegarek.jpg"></div>
</body></html>`

func TestAllegro_Extract(t *testing.T) {
	page, err := ParsePage(allegroHTML, "https://allegro.pl/oferta/zegarek-sportowy-gps-1234567")
	require.NoError(t, err)

	p := NewAllegro().Extract(page)
	require.NotNil(t, p)

	assert.Equal(t, "Zegarek sportowy GPS", p.Name)
	assert.Equal(t, 649.00, p.Price)
	assert.Equal(t, 899.00, p.OriginalPrice)
	assert.Equal(t, models.PLN, p.Currency)
	assert.Equal(t, models.SourceAllegro, p.Source)
	assert.Equal(t, "SportWatch24", p.Seller)
	assert.Equal(t, 4.8, p.Rating)
	assert.Equal(t, 123, p.ReviewCount)
}

func TestAllegro_PriceFromSelectorsWhenNoJSONLD(t *testing.T) {
	html := `<html><body>
<h1 data-box-name="allegro.offer.title">Plecak turystyczny 40l</h1>
<div data-box-name="allegro.offer.price"><span aria-label="cena 159,99 zł">159,99 zł</span></div>
</body></html>`
	page, err := ParsePage(html, "https://allegro.pl/oferta/plecak-40l-7654321")
	require.NoError(t, err)

	p := NewAllegro().Extract(page)
	require.NotNil(t, p)
	assert.Equal(t, 159.99, p.Price)
}

const aliexpressHTML = `<html><body>
<h1 data-pl="product-title">Wireless Earbuds TWS Pro Max</h1>
<div class="Price_wrap"><span class="Price_current">US $12.99</span><span class="Price_origin">US $49.99</span></div>
<div class="Rating_box"><span class="Rating_value">4.7</span></div>
<div class="Review_box"><span class="Review_count">2,341 Reviews</span></div>
<div data-pl="store-name">TechStore Official</div>
<div class="Gallery_box"><img src="https://ae01.alicdn.com/kf/earbuds.jpg"></div>
<div class="Review_list">
  <div class="Review_item">
    <span class="item_content">Great sound for the price.</span>
    <span class="user_name">A***v</span>
    <i class="star full"></i><i class="star full"></i><i class="star full"></i><i class="star full"></i>
  </div>
</div>
</body></html>`

func TestAliExpress_Extract(t *testing.T) {
	page, err := ParsePage(aliexpressHTML, "https://www.aliexpress.com/item/1005006789.html")
	require.NoError(t, err)

	p := NewAliExpress(models.USD).Extract(page)
	require.NotNil(t, p)

	assert.Equal(t, "Wireless Earbuds TWS Pro Max", p.Name)
	assert.Equal(t, 12.99, p.Price)
	assert.Equal(t, 49.99, p.OriginalPrice)
	assert.Equal(t, models.USD, p.Currency)
	assert.Equal(t, models.SourceAliExpress, p.Source)
	assert.Equal(t, 4.7, p.Rating)
	assert.Equal(t, 2341, p.ReviewCount)
	assert.Equal(t, "TechStore Official", p.Seller)

	require.Len(t, p.Reviews, 1)
	assert.Equal(t, 4, p.Reviews[0].Rating)
	assert.True(t, p.Reviews[0].Verified)
}

func TestAliExpress_DescriptionFallback(t *testing.T) {
	html := `<html><body><h1 data-pl="product-title">USB Hub 4 Port Splitter</h1></body></html>`
	page, err := ParsePage(html, "https://www.aliexpress.com/item/100500.html")
	require.NoError(t, err)

	p := NewAliExpress(models.USD).Extract(page)
	require.NotNil(t, p)
	assert.Equal(t, "Description unavailable (reload the page)", p.Description)
}
