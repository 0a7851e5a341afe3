package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nohype/nohype/internal/models"
	"github.com/nohype/nohype/internal/ui"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [url...]",
	Short: "Analyze one or more product pages for hype",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("format", "card", "Output format: card, json")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	format, _ := cmd.Flags().GetString("format")

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	view := ui.NewView()
	spin := ui.NewSpinner()
	spin.Start(fmt.Sprintf("Fetching %d product page(s)...", len(args)))

	products, fetchErr := a.Fetcher.Products(ctx, args)
	spin.Stop()

	var results []*models.AnalysisResult
	for i, product := range products {
		if product == nil {
			_ = view.Transition(ui.StateNoProduct)
			fmt.Fprintf(os.Stderr, "skipped %s: no product data\n", args[i])
			_ = view.Transition(ui.StateLoading)
			continue
		}

		result, cached, err := a.Service.Analyze(ctx, *product)
		if err != nil {
			_ = view.Transition(ui.StateError)
			fmt.Fprintf(os.Stderr, "analysis of %s failed: %v\n", args[i], err)
			_ = view.Transition(ui.StateLoading)
			continue
		}

		_ = view.Transition(ui.StateResults)
		results = append(results, result)

		switch format {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			enc.Encode(result)
		default:
			printAnalysisCard(os.Stdout, product, result, cached)
		}
		_ = view.Transition(ui.StateLoading)
	}

	if len(results) == 0 {
		if fetchErr != nil {
			return fmt.Errorf("no product analyzed: %w", fetchErr)
		}
		return fmt.Errorf("no product analyzed")
	}
	return nil
}
