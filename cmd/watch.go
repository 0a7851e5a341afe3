package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the price alert watcher until interrupted",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Bool("once", false, "Run a single alert scan and exit")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if once, _ := cmd.Flags().GetBool("once"); once {
		return a.Watcher.CheckOnce(ctx)
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Watching price alerts (Ctrl+C to stop)...")
	if err := a.Watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
