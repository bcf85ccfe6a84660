package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/tabas/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local API for one surface (page or popup)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg, log)
		if err != nil {
			log.Errorf("❌ tabas failed to start: %v", err)
			return err
		}
		return a.Run(ctx)
	},
}
