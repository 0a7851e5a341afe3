package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nohype/nohype/internal/models"
	"github.com/nohype/nohype/internal/ui"
)

var alertCmd = &cobra.Command{
	Use:   "alert",
	Short: "Manage price alerts",
}

var alertAddCmd = &cobra.Command{
	Use:   "add [url]",
	Short: "Watch a product for a price drop",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlertAdd,
}

var alertListCmd = &cobra.Command{
	Use:   "list",
	Short: "List price alerts",
	RunE:  runAlertList,
}

var alertRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Delete a price alert",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlertRemove,
}

func init() {
	alertAddCmd.Flags().Float64("target", 0, "Target price that triggers the alert (required)")
	alertAddCmd.MarkFlagRequired("target")
	alertListCmd.Flags().String("format", "table", "Output format: table, json")

	alertCmd.AddCommand(alertAddCmd, alertListCmd, alertRemoveCmd)
	rootCmd.AddCommand(alertCmd)
}

func runAlertAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	target, _ := cmd.Flags().GetFloat64("target")

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	spin := ui.NewSpinner()
	spin.Start("Fetching current price...")
	product, err := a.Fetcher.Product(ctx, args[0])
	spin.Stop()
	if err != nil {
		return fmt.Errorf("fetch product: %w", err)
	}

	alert, err := a.Alerts.Create(ctx, *product, target)
	if err != nil {
		return err
	}

	fmt.Printf("Alert %s created: %s\n  now %s, notifies at %s\n",
		alert.ID,
		truncate(alert.ProductName, 60),
		formatPrice(alert.CurrentPrice, models.Currency(alert.Currency)),
		formatPrice(alert.TargetPrice, models.Currency(alert.Currency)),
	)
	return nil
}

func runAlertList(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	alerts, err := a.Alerts.List(cmd.Context())
	if err != nil {
		return err
	}

	if format, _ := cmd.Flags().GetString("format"); format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(alerts)
	}

	if len(alerts) == 0 {
		fmt.Println("No price alerts.")
		return nil
	}
	for _, alert := range alerts {
		status := "active"
		if !alert.IsActive {
			status = "fired"
		}
		currency := models.Currency(alert.Currency)
		fmt.Printf(" [%s] %s\n      %s -> %s  (%s)\n      %s\n",
			status,
			truncate(alert.ProductName, 60),
			formatPrice(alert.CurrentPrice, currency),
			formatPrice(alert.TargetPrice, currency),
			alert.ID,
			alert.ProductURL,
		)
	}
	return nil
}

func runAlertRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Alerts.Remove(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Println("Alert removed.")
	return nil
}
