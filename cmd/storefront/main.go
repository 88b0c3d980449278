package main

import (
	"context"
	"fmt"
	"os"

	"storefront/internal/app"
	"storefront/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose    bool
	configPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront client: browse, cart, checkout, profile and receipts",
	Long: `storefront drives the storefront client core from the terminal.

Session, theme and order history persist in the configured device store
(SQLite by default). Products come from the remote catalog API.

Run "storefront serve" to expose the same actions as a local JSON API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "storefront.yaml", "path to a YAML config file")
}

// withClient builds and initialises the client for one command run.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, c *app.Client) error) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	c, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Init(ctx); err != nil {
		return err
	}
	return fn(ctx, c)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
