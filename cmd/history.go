package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past analyses, newest first",
	RunE:  runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the whole analysis history",
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.Flags().String("format", "table", "Output format: table, json")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	items, err := a.History.List(cmd.Context())
	if err != nil {
		return err
	}

	if format, _ := cmd.Flags().GetString("format"); format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	if len(items) == 0 {
		fmt.Println("No analyses yet.")
		return nil
	}
	for i, item := range items {
		fmt.Printf(" %3d. [%3d] %s\n      %s  %s\n", i+1, item.HypeScore, truncate(item.ProductName, 60), item.Date, item.URL)
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.History.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("History cleared.")
	return nil
}
