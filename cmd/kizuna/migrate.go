package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/kizuna/internal/datasync"
)

func newMigrateCommand() *cobra.Command {
	rootCommand := cobra.Command{
		Use:   "migrate",
		Short: "Migration commands",
	}
	rootCommand.AddCommand(newMigrateLegacyCommand())
	return &rootCommand
}

func newMigrateLegacyCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "legacy",
		Short: "Migrate legacy-layout documents into the structured layout",
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

			migrator := datasync.NewMigrator(store, cfg.Journal.Owner, os.Stdout)
			result, err := migrator.Run(ctx, datasync.MigrateOptions{DryRun: dryRun})
			if err != nil {
				return fmt.Errorf("migrator.Run() > %w", err)
			}

			fmt.Println("\nMigration Summary:")
			if dryRun {
				fmt.Println("  (dry-run mode, no changes made)")
			}
			fmt.Printf("  People:     %d new, %d merged\n", result.PeopleNew, result.PeopleMerged)
			fmt.Printf("  Encounters: %d new, %d merged\n", result.EncountersNew, result.EncountersMerged)
			fmt.Printf("  Skipped:    %d\n", result.Skipped)

			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without writing to the store")
	return cmd
}
