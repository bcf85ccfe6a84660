package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/tabas/internal/config"
	"github.com/MrSnakeDoc/tabas/internal/logger"
	"github.com/MrSnakeDoc/tabas/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "tabas",
	Short: "Save browser tabs into profiles and folders",
	Long: "tabas keeps saved browser tabs organized as profiles, folders and tabs, " +
		"persisted in a key-value store and served to the browser extension over a local HTTP API.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tabas %s\n", version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

// bootstrap loads and validates the environment configuration.
func bootstrap() (*config.Config, logger.Logger, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration:\n%w", err)
	}
	return cfg, logger.New(cfg.LogLevel, cfg.PrettyLog), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
