package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/kizuna/internal/autosave"
	"github.com/at-ishikawa/kizuna/internal/bootstrap"
	"github.com/at-ishikawa/kizuna/internal/cli"
	"github.com/at-ishikawa/kizuna/internal/journal"
)

func newLogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Record encounters interactively; entries save automatically",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, cleanup, err := newStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = cleanup()
			}()

			resolver, err := newResolver(cfg, store)
			if err != nil {
				return err
			}

			list := journal.NewList()
			board := cli.NewSaveStatusBoard()
			scheduler := autosave.New(cmd.Context(), list, resolver, autosave.Config{
				Delay:     time.Duration(cfg.Journal.DebounceMillis) * time.Millisecond,
				OnSettled: board.CardSettled,
			})

			app := bootstrap.New()
			// Disposing the editing surface must cancel every pending timer.
			app.AddShutdownHook(func(ctx context.Context) error {
				scheduler.CancelAll()
				return nil
			})

			editor := cli.NewJournalEditor(list, scheduler, board, os.Stdin, os.Stdout)
			fmt.Println("Journal session started. Entries save automatically as you type.")
			return app.Run(cmd.Context(), editor.Run)
		},
	}
}
