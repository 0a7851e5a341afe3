// Package analyzer scores product listings for marketing hype using lexical
// and pricing heuristics. It is the canonical analysis engine: the remote API
// client falls back to it whenever the backend is unreachable.
package analyzer

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nohype/nohype/internal/models"
)

const baseScore = 20

// Analyzer produces an AnalysisResult from a ProductData snapshot.
// The zero value is not usable; construct with New.
type Analyzer struct {
	lexicon Lexicon
	lang    string
	rng     *rand.Rand
	now     func() time.Time
	newID   func() string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLanguage selects the lexicon and summary language ("pl" or "en").
func WithLanguage(lang string) Option {
	return func(a *Analyzer) {
		a.lang = lang
		a.lexicon = LexiconFor(lang)
	}
}

// WithRand injects the random source used for the placeholder review block.
// Tests pass a seeded source to get deterministic output.
func WithRand(r *rand.Rand) Option {
	return func(a *Analyzer) { a.rng = r }
}

// WithClock injects the time source for AnalyzedAt.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// WithIDFunc injects the result-ID generator.
func WithIDFunc(fn func() string) Option {
	return func(a *Analyzer) { a.newID = fn }
}

// New creates an Analyzer with the Polish lexicon and real time/randomness.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		lexicon: LexiconPL,
		lang:    "pl",
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze scores the product synchronously. It never fails: missing fields
// simply contribute nothing to the score.
func (a *Analyzer) Analyze(product models.ProductData) models.AnalysisResult {
	text := strings.ToLower(product.Name) + " " + strings.ToLower(product.Description)

	buzzwords := a.scanBuzzwords(text)
	score := baseScore + 10*len(buzzwords)

	discount := discountPercent(product)
	switch {
	case discount > 70:
		score += 25
	case discount > 50:
		score += 15
	}

	score = clamp(score, 0, 100)

	return models.AnalysisResult{
		ID:             a.newID(),
		HypeScore:      score,
		RiskLevel:      models.RiskFromScore(score),
		Summary:        a.summary(score, len(buzzwords)),
		Flags:          a.flags(len(buzzwords), discount),
		Buzzwords:      buzzwords,
		ReviewAnalysis: a.placeholderReviewAnalysis(),
		Alternatives:   []models.Alternative{},
		AnalyzedAt:     a.now().UnixMilli(),
	}
}

// scanBuzzwords walks the lexicon. Marketing words are counted per
// occurrence; urgency and exaggeration phrases are presence-only with a
// fixed count of 1. The Unverified list is deliberately not scanned: its
// entries ("eko", "bio") are too short for substring matching.
func (a *Analyzer) scanBuzzwords(text string) []models.BuzzwordMatch {
	var matches []models.BuzzwordMatch

	for _, word := range a.lexicon.Marketing {
		if n := strings.Count(text, word); n > 0 {
			matches = append(matches, models.BuzzwordMatch{
				Word:     word,
				Count:    n,
				Category: models.CategoryMarketing,
			})
		}
	}
	for _, phrase := range a.lexicon.FakeUrgency {
		if strings.Contains(text, phrase) {
			matches = append(matches, models.BuzzwordMatch{
				Word:     phrase,
				Count:    1,
				Category: models.CategoryFakeUrgency,
			})
		}
	}
	for _, phrase := range a.lexicon.Exaggeration {
		if strings.Contains(text, phrase) {
			matches = append(matches, models.BuzzwordMatch{
				Word:     phrase,
				Count:    1,
				Category: models.CategoryExaggeration,
			})
		}
	}

	return matches
}

func (a *Analyzer) flags(buzzwordCount int, discount float64) []models.HypeFlag {
	var flags []models.HypeFlag

	if buzzwordCount > 3 {
		msg := fmt.Sprintf("Znaleziono %d buzzwordów marketingowych", buzzwordCount)
		if a.lang == "en" {
			msg = fmt.Sprintf("Found %d marketing buzzwords", buzzwordCount)
		}
		flags = append(flags, models.HypeFlag{
			Type:     models.FlagExaggeratedClaims,
			Message:  msg,
			Severity: models.SeverityWarning,
		})
	}

	if discount > 50 {
		severity := models.SeverityWarning
		if discount > 70 {
			severity = models.SeverityDanger
		}
		msg := fmt.Sprintf("Rabat %.0f%% może być zawyżony", discount)
		if a.lang == "en" {
			msg = fmt.Sprintf("The %.0f%% discount may be inflated", discount)
		}
		flags = append(flags, models.HypeFlag{
			Type:     models.FlagFakeDiscount,
			Message:  msg,
			Severity: severity,
		})
	}

	return flags
}

func (a *Analyzer) summary(score, buzzwordCount int) string {
	if a.lang == "en" {
		switch {
		case score < 30:
			return "This product looks genuine. The description is factual and free of exaggerated claims."
		case score < 50:
			return "The listing contains some marketing language but looks OK overall. Stay cautious."
		case score < 75:
			return fmt.Sprintf("Caution: %d buzzwords found. The description may be exaggerated. Compare with other offers.", buzzwordCount)
		default:
			return "High hype level! This listing uses aggressive marketing. Consider alternatives."
		}
	}
	switch {
	case score < 30:
		return "Ten produkt wygląda na autentyczny. Opis jest rzeczowy i nie zawiera przesadzonych twierdzeń."
	case score < 50:
		return "Produkt zawiera pewne elementy marketingowe, ale ogólnie wygląda OK. Zachowaj ostrożność."
	case score < 75:
		return fmt.Sprintf("Uwaga! Znaleziono %d buzzwordów. Opis może być przesadzony. Porównaj z innymi ofertami.", buzzwordCount)
	default:
		return "Wysoki poziom hype! Ten produkt używa agresywnego marketingu. Rozważ alternatywy."
	}
}

// placeholderReviewAnalysis fabricates a review-credibility block. There is
// no real fraud signal behind these numbers; they exist so downstream
// consumers can render the block. Drawn from the injected RNG so tests can
// pin them down.
func (a *Analyzer) placeholderReviewAnalysis() models.ReviewAnalysis {
	details := "Analiza recenzji oparta na danych testowych"
	if a.lang == "en" {
		details = "Review analysis based on placeholder data"
	}
	return models.ReviewAnalysis{
		SuspiciousPercentage: a.rng.Float64() * 30,
		AverageSentiment:     0.6 + a.rng.Float64()*0.3,
		FakePatternDetected:  a.rng.Float64() > 0.7,
		Details:              details,
	}
}

func discountPercent(p models.ProductData) float64 {
	if p.OriginalPrice <= 0 || p.Price <= 0 {
		return 0
	}
	return (p.OriginalPrice - p.Price) / p.OriginalPrice * 100
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
