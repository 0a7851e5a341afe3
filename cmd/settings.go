package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show stored preferences",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update stored preferences",
	RunE:  runSettingsSet,
}

func init() {
	settingsSetCmd.Flags().Bool("auto-analyze", false, "Analyze product pages automatically")
	settingsSetCmd.Flags().Bool("notifications", true, "Deliver price alert notifications")
	settingsSetCmd.Flags().String("language", "", "Analysis language: pl, en")
	settingsSetCmd.Flags().Int("alert-threshold", 0, "Hype score that marks a listing risky")

	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	settings, err := a.Settings.Get(cmd.Context())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(settings)
}

func runSettingsSet(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	settings, err := a.Settings.Get(cmd.Context())
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("auto-analyze") {
		settings.AutoAnalyze, _ = cmd.Flags().GetBool("auto-analyze")
	}
	if cmd.Flags().Changed("notifications") {
		settings.ShowNotifications, _ = cmd.Flags().GetBool("notifications")
	}
	if cmd.Flags().Changed("language") {
		settings.Language, _ = cmd.Flags().GetString("language")
	}
	if cmd.Flags().Changed("alert-threshold") {
		settings.AlertThreshold, _ = cmd.Flags().GetInt("alert-threshold")
	}

	return a.Settings.Save(cmd.Context(), settings)
}
