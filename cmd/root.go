package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nohype/nohype/config"
	"github.com/nohype/nohype/internal/app"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "nohype",
	Short: "NoHype - marketplace hype analyzer CLI & MCP server",
	Long:  "Analyzes e-commerce product listings for marketing hype, inflated discounts and suspicious reviews.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("language", "", "Analysis language: pl, en")
	rootCmd.PersistentFlags().String("currency", "", "Fallback currency for unlabeled prices")
	rootCmd.PersistentFlags().String("api-url", "", "Remote analysis API base URL")
	rootCmd.PersistentFlags().String("delay-profile", "", "Delay profile: cautious, normal, aggressive")
	rootCmd.PersistentFlags().Bool("respect-robots", true, "Respect robots.txt rules")
	rootCmd.PersistentFlags().Bool("headless", true, "Enable the headless browser fallback")
	rootCmd.PersistentFlags().String("storage", "", "Storage backend: file, redis, memory")
	rootCmd.PersistentFlags().String("storage-path", "", "Path of the file storage backend")
	rootCmd.PersistentFlags().String("redis-addr", "", "Redis address for the redis backend")
}

func initConfig() {
	cfg = config.DefaultConfig()
	cfg.LoadFromEnv()

	// Flags override env.
	if v, _ := rootCmd.PersistentFlags().GetString("language"); v != "" {
		cfg.Language = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("currency"); v != "" {
		cfg.DefaultCurrency = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("api-url"); v != "" {
		cfg.APIBaseURL = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("delay-profile"); v != "" {
		cfg.DelayProfile = v
	}
	if v, _ := rootCmd.PersistentFlags().GetBool("respect-robots"); !v {
		cfg.RespectRobots = false
	}
	if v, _ := rootCmd.PersistentFlags().GetBool("headless"); !v {
		cfg.Headless = false
	}
	if v, _ := rootCmd.PersistentFlags().GetString("storage"); v != "" {
		cfg.StorageBackend = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("storage-path"); v != "" {
		cfg.StoragePath = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("redis-addr"); v != "" {
		cfg.RedisAddr = v
	}
}

// newApp assembles the application for one command invocation.
func newApp(ctx context.Context) (*app.App, error) {
	return app.New(ctx, cfg)
}
