package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/kizuna/internal/datasync"
)

func newExportCommand() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export people and encounters as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, cleanup, err := newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = cleanup()
			}()

			var w io.Writer = os.Stdout
			if outputFile != "" {
				f, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("os.Create(%s) > %w", outputFile, err)
				}
				defer func() {
					_ = f.Close()
				}()
				w = f
			}

			exporter := datasync.NewExporter(store, cfg.Journal.Owner)
			if err := exporter.Export(ctx, w); err != nil {
				return fmt.Errorf("exporter.Export() > %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
