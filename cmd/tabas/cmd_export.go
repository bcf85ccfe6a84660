package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/tabas/internal/app"
	"github.com/MrSnakeDoc/tabas/internal/sources/seed"
	"github.com/MrSnakeDoc/tabas/internal/storage"
	"github.com/MrSnakeDoc/tabas/internal/utils"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every stored profile as a seed YAML document",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		backend, err := app.OpenBackend(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer utils.CloseLogged(backend, log, "storage")

		profiles, err := storage.NewAdapter(backend).Profiles(ctx)
		if err != nil {
			return err
		}

		var out io.Writer = cmd.OutOrStdout()
		if exportOutput != "" && exportOutput != "-" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("create %s: %w", exportOutput, err)
			}
			defer utils.CloseLogged(f, log, exportOutput)
			out = f
		}

		if err := seed.Write(out, seed.Export(profiles)); err != nil {
			return err
		}
		log.Infof("exported %d profiles", len(profiles))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "-", "file to write, - for stdout")
}
