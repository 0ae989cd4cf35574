package main

import (
	"fmt"
	"os"

	"github.com/sangkips/pasvilla-invoicing/internal/config"
	"github.com/sangkips/pasvilla-invoicing/internal/logger"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

// cfg is loaded once before any command runs
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "pasvilla",
	Short: "Pasvilla invoicing service",
	Long: `Pasvilla invoicing prices bakery carts, issues sequential invoices and
tracks them through payment and cancellation.

Configuration is read from .env and environment variables.
Running without a subcommand starts the HTTP server.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if driver, _ := cmd.Flags().GetString("store"); driver != "" {
			cfg.Store.Driver = driver
		}
		if err := logger.Setup(cfg.Log); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log := logger.WithComponent("cmd")
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("store", "", "Store driver override (postgres or memory)")
}
