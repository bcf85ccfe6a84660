package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/tabas/internal/app"
	"github.com/MrSnakeDoc/tabas/internal/domain"
	"github.com/MrSnakeDoc/tabas/internal/persistence"
	"github.com/MrSnakeDoc/tabas/internal/sources/seed"
	"github.com/MrSnakeDoc/tabas/internal/storage"
	"github.com/MrSnakeDoc/tabas/internal/utils"
)

var importCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Append the profiles of a seed YAML document to storage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		doc, err := seed.NewLoader(args[0]).Load()
		if err != nil {
			return err
		}

		backend, err := app.OpenBackend(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer utils.CloseLogged(backend, log, "storage")

		clock := domain.RealClock{}
		importer := seed.NewImporter(
			persistence.New(storage.NewAdapter(backend), log),
			seed.NewMapper(domain.NewTimestampIDs(clock), clock),
			log,
		)
		imported, err := importer.Import(ctx, doc)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d profiles from %s\n", len(imported), args[0])
		return nil
	},
}
