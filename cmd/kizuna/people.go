package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/kizuna/internal/encounter"
	"github.com/at-ishikawa/kizuna/internal/normalize"
	"github.com/at-ishikawa/kizuna/internal/person"
	"github.com/at-ishikawa/kizuna/internal/resolve"
)

func newPeopleCommand() *cobra.Command {
	rootCommand := cobra.Command{
		Use:   "people",
		Short: "People commands",
	}
	rootCommand.AddCommand(newPeopleListCommand())
	rootCommand.AddCommand(newPeopleShowCommand())
	return &rootCommand
}

func newPeopleListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded people",
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

			peoplePath := resolve.CollectionPath(cfg.Journal.Owner, person.Collection)
			docs, err := store.FindAll(cmd.Context(), peoplePath)
			if err != nil {
				return fmt.Errorf("store.FindAll(%s) > %w", peoplePath, err)
			}

			people := make([]person.Person, 0, len(docs))
			for _, doc := range docs {
				p := person.FromDocument(doc)
				if p.NormalizedName == "" {
					// Legacy-layout documents carry no normalized name and
					// belong to the migration surface, not this listing.
					continue
				}
				people = append(people, p)
			}

			if len(people) == 0 {
				fmt.Println("No people recorded yet. Use 'kizuna log' to record an encounter.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "NAME\tMEMO\tUPDATED")
			for _, p := range people {
				updated := ""
				if !p.UpdatedAt.IsZero() {
					updated = p.UpdatedAt.Format("2006-01-02")
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", p.DisplayName, p.Memo, updated)
			}
			_ = w.Flush()

			return nil
		},
	}
}

func newPeopleShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a person and their recorded encounters",
		Args:  cobra.ExactArgs(1),
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

			ctx := cmd.Context()
			normalized := normalize.Name(args[0])
			if normalized == "" {
				return fmt.Errorf("name %q has no usable characters", args[0])
			}

			peoplePath := resolve.CollectionPath(cfg.Journal.Owner, person.Collection)
			docs, err := store.FindByField(ctx, peoplePath, person.FieldNormalizedName, normalized)
			if err != nil {
				return fmt.Errorf("store.FindByField(%s, %s) > %w", peoplePath, normalized, err)
			}
			if len(docs) == 0 {
				fmt.Printf("No person found for %q.\n", args[0])
				return nil
			}
			p := person.FromDocument(docs[0])

			bold := color.New(color.Bold)
			faint := color.New(color.Faint)
			_, _ = bold.Println(p.DisplayName)
			if p.Memo != "" {
				fmt.Printf("  memo: %s\n", p.Memo)
			}
			_, _ = faint.Printf("  id: %s\n", p.ID)

			encountersPath := resolve.CollectionPath(cfg.Journal.Owner, encounter.Collection)
			encounterDocs, err := store.FindByField(ctx, encountersPath, encounter.FieldPersonID, p.ID)
			if err != nil {
				return fmt.Errorf("store.FindByField(%s, %s) > %w", encountersPath, p.ID, err)
			}

			encounters := make([]encounter.Encounter, 0, len(encounterDocs))
			for _, doc := range encounterDocs {
				encounters = append(encounters, encounter.FromDocument(doc))
			}
			sortEncountersByDateDesc(encounters)

			if len(encounters) == 0 {
				fmt.Println("\nNo encounters recorded.")
				return nil
			}
			fmt.Println()
			for _, e := range encounters {
				if e.Place != "" {
					_, _ = bold.Printf("%s", e.Date)
					fmt.Printf(" at %s\n", e.Place)
				} else {
					_, _ = bold.Printf("%s\n", e.Date)
				}
				for _, fact := range e.Facts {
					fmt.Printf("  - %s\n", fact.Text)
				}
			}
			return nil
		},
	}
}
