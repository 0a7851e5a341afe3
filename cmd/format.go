package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/nohype/nohype/internal/models"
)

// printAnalysisCard prints one analysis in a human-friendly card layout.
func printAnalysisCard(w io.Writer, product *models.ProductData, result *models.AnalysisResult, cached bool) {
	header := truncate(product.Name, 70)
	if cached {
		header += "  (cached)"
	}
	fmt.Fprintf(w, "\n %s\n", header)

	priceLine := "    Price: " + formatPrice(product.Price, product.Currency)
	if product.OriginalPrice > product.Price {
		priceLine += fmt.Sprintf("  (was %s)", formatPrice(product.OriginalPrice, product.Currency))
	}
	if product.Seller != "" {
		priceLine += "  |  Seller: " + product.Seller
	}
	fmt.Fprintln(w, priceLine)

	fmt.Fprintf(w, "    Hype score: %d/100 [%s]\n", result.HypeScore, riskLabel(result.RiskLevel))

	for _, flag := range result.Flags {
		fmt.Fprintf(w, "    ! %s (%s)\n", flag.Message, flag.Severity)
	}
	if len(result.Buzzwords) > 0 {
		var words []string
		for _, b := range result.Buzzwords {
			if b.Count > 1 {
				words = append(words, fmt.Sprintf("%s x%d", b.Word, b.Count))
			} else {
				words = append(words, b.Word)
			}
		}
		fmt.Fprintf(w, "    Buzzwords: %s\n", strings.Join(words, ", "))
	}

	fmt.Fprintf(w, "    %s\n", result.Summary)
	fmt.Fprintf(w, "    %s\n", product.URL)
}

// formatPrice renders an amount with its currency symbol, Polish style for
// PLN ("1299,99 zł"), symbol-first for the rest ("$1299.99").
func formatPrice(amount float64, currency models.Currency) string {
	switch currency {
	case models.PLN:
		return strings.ReplaceAll(fmt.Sprintf("%.2f", amount), ".", ",") + " " + currency.Symbol()
	default:
		return currency.Symbol() + fmt.Sprintf("%.2f", amount)
	}
}

func riskLabel(level models.RiskLevel) string {
	switch level {
	case models.RiskLow:
		return "LOW RISK"
	case models.RiskMedium:
		return "MEDIUM RISK"
	case models.RiskHigh:
		return "HIGH RISK"
	default:
		return "CRITICAL"
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
