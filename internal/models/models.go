package models

// Currency is an ISO-4217 code for the currencies the extractors recognize.
type Currency string

const (
	PLN Currency = "PLN"
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	CNY Currency = "CNY"
)

// Symbol returns the display symbol for the currency.
func (c Currency) Symbol() string {
	switch c {
	case PLN:
		return "zł"
	case USD:
		return "$"
	case EUR:
		return "€"
	case GBP:
		return "£"
	case CNY:
		return "¥"
	default:
		return string(c)
	}
}

// Source identifies the marketplace a product was extracted from.
type Source string

const (
	SourceAmazon     Source = "amazon"
	SourceAllegro    Source = "allegro"
	SourceAliExpress Source = "aliexpress"
	SourceCeneo      Source = "ceneo"
	SourceSephora    Source = "sephora"
	SourceZalando    Source = "zalando"
	SourceUnknown    Source = "unknown"
)

// RiskLevel is the four-tier classification derived from the hype score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskFromScore maps a clamped hype score to its risk level.
// Thresholds: <=40 low, <=60 medium, <=80 high, else critical.
func RiskFromScore(score int) RiskLevel {
	switch {
	case score <= 40:
		return RiskLow
	case score <= 60:
		return RiskMedium
	case score <= 80:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// FlagType enumerates the hype warning categories.
type FlagType string

const (
	FlagExaggeratedClaims FlagType = "exaggerated_claims"
	FlagFakeDiscount      FlagType = "fake_discount"
	FlagSuspiciousReviews FlagType = "suspicious_reviews"
	FlagDropshipping      FlagType = "dropshipping"
	FlagPriceInflation    FlagType = "price_inflation"
	FlagMissingInfo       FlagType = "missing_info"
	FlagNewSeller         FlagType = "new_seller"
	FlagTooGoodToBeTrue   FlagType = "too_good_to_be_true"
)

// Severity grades a flag.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// BuzzwordCategory classifies a matched lexicon entry.
type BuzzwordCategory string

const (
	CategoryMarketing    BuzzwordCategory = "marketing"
	CategoryFakeUrgency  BuzzwordCategory = "fake_urgency"
	CategoryExaggeration BuzzwordCategory = "exaggeration"
	CategoryUnverified   BuzzwordCategory = "unverified"
)

// Review is a single customer review owned by the ProductData it came from.
type Review struct {
	Text     string `json:"text"`
	Rating   int    `json:"rating"`
	Author   string `json:"author,omitempty"`
	Date     string `json:"date,omitempty"`
	Verified bool   `json:"verified,omitempty"`
}

// ProductData is an immutable snapshot of a product page at extraction time.
type ProductData struct {
	URL           string   `json:"url"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	Currency      Currency `json:"currency"`
	OriginalPrice float64  `json:"originalPrice,omitempty"`
	Description   string   `json:"description"`
	Reviews       []Review `json:"reviews"`
	Rating        float64  `json:"rating,omitempty"`
	ReviewCount   int      `json:"reviewCount,omitempty"`
	Seller        string   `json:"seller,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	Source        Source   `json:"source"`
	Timestamp     int64    `json:"timestamp"` // epoch ms
}

// HypeFlag is a single warning raised by the analyzer.
type HypeFlag struct {
	Type     FlagType `json:"type"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Details  string   `json:"details,omitempty"`
}

// BuzzwordMatch records one lexicon hit in the product text.
type BuzzwordMatch struct {
	Word     string           `json:"word"`
	Count    int              `json:"count"`
	Category BuzzwordCategory `json:"category"`
}

// ReviewAnalysis summarizes review credibility. The heuristic engine fills it
// with randomized placeholder values; see analyzer.New for the RNG contract.
type ReviewAnalysis struct {
	SuspiciousPercentage float64 `json:"suspiciousPercentage"`
	AverageSentiment     float64 `json:"averageSentiment"`
	FakePatternDetected  bool    `json:"fakePatternDetected"`
	Details              string  `json:"details"`
}

// Alternative is a suggested substitute product.
type Alternative struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	URL      string  `json:"url"`
	Source   Source  `json:"source"`
	Reason   string  `json:"reason"`
	Savings  float64 `json:"savings,omitempty"`
}

// AnalysisResult is the immutable outcome of analyzing one ProductData.
// Cached by normalized URL; a stale entry is replaced wholesale, never patched.
type AnalysisResult struct {
	ID             string          `json:"id"`
	HypeScore      int             `json:"hypeScore"`
	RiskLevel      RiskLevel       `json:"riskLevel"`
	Summary        string          `json:"summary"`
	Flags          []HypeFlag      `json:"flags"`
	Buzzwords      []BuzzwordMatch `json:"buzzwords"`
	ReviewAnalysis ReviewAnalysis  `json:"reviewAnalysis"`
	Alternatives   []Alternative   `json:"alternatives"`
	AnalyzedAt     int64           `json:"analyzedAt"` // epoch ms
}

// PriceAlert is a user-defined price watch. Deactivated, not deleted, once
// triggered; at most one alert exists per product URL.
type PriceAlert struct {
	ID           string  `json:"id"`
	ProductURL   string  `json:"productUrl"`
	ProductName  string  `json:"productName"`
	CurrentPrice float64 `json:"currentPrice"`
	TargetPrice  float64 `json:"targetPrice"`
	Currency     string  `json:"currency"`
	CreatedAt    int64   `json:"createdAt"`
	Source       Source  `json:"source"`
	IsActive     bool    `json:"isActive"`
}

// HistoryItem is one entry in the bounded analysis log, newest first.
type HistoryItem struct {
	URL         string `json:"url"`
	ProductName string `json:"productName"`
	HypeScore   int    `json:"hypeScore"`
	Date        string `json:"date"` // RFC 3339
}

// Settings holds user preferences persisted under the "settings" document.
type Settings struct {
	AutoAnalyze       bool   `json:"autoAnalyze"`
	ShowNotifications bool   `json:"showNotifications"`
	Language          string `json:"language"` // "pl" or "en"
	AlertThreshold    int    `json:"alertThreshold"`
}

// DefaultSettings returns the settings written on first run.
func DefaultSettings() Settings {
	return Settings{
		AutoAnalyze:       false,
		ShowNotifications: true,
		Language:          "pl",
		AlertThreshold:    70,
	}
}

// DetectSource maps a hostname to the marketplace it belongs to.
func DetectSource(host string) Source {
	domains := map[Source][]string{
		SourceAmazon:     {"amazon.com", "amazon.pl", "amazon.de", "amazon.co.uk"},
		SourceAllegro:    {"allegro.pl"},
		SourceAliExpress: {"aliexpress.com"},
		SourceCeneo:      {"ceneo.pl"},
		SourceSephora:    {"sephora.pl"},
		SourceZalando:    {"zalando.pl"},
	}
	for src, hosts := range domains {
		for _, d := range hosts {
			if host == d || len(host) > len(d) && host[len(host)-len(d)-1] == '.' && host[len(host)-len(d):] == d {
				return src
			}
		}
	}
	return SourceUnknown
}
