package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/kizuna/internal/encounter"
	"github.com/at-ishikawa/kizuna/internal/normalize"
	"github.com/at-ishikawa/kizuna/internal/resolve"
)

// DateFlag is a calendar-day flag value in YYYY-MM-DD form.
type DateFlag string

func (d *DateFlag) Set(val string) error {
	if _, err := time.Parse(encounter.DayFormat, val); err != nil {
		return fmt.Errorf("invalid date: %s", val)
	}
	*d = DateFlag(val)
	return nil
}

func (d DateFlag) String() string {
	return string(d)
}

func (d *DateFlag) Type() string {
	return "date"
}

var _ pflag.Value = (*DateFlag)(nil)

func newEncountersCommand() *cobra.Command {
	rootCommand := cobra.Command{
		Use:   "encounters",
		Short: "Encounter commands",
	}
	rootCommand.AddCommand(newEncountersListCommand())
	return &rootCommand
}

func newEncountersListCommand() *cobra.Command {
	var personName string
	var since DateFlag
	var until DateFlag

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded encounters, newest first",
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

			encountersPath := resolve.CollectionPath(cfg.Journal.Owner, encounter.Collection)
			docs, err := store.FindByDateRange(cmd.Context(), encountersPath, encounter.FieldDate, since.String(), until.String())
			if err != nil {
				return fmt.Errorf("store.FindByDateRange(%s) > %w", encountersPath, err)
			}

			// The store only queries one field at a time, so the person
			// filter runs over the date-ranged result.
			wantName := normalize.Name(personName)
			encounters := make([]encounter.Encounter, 0, len(docs))
			for _, doc := range docs {
				e := encounter.FromDocument(doc)
				if wantName != "" && normalize.Name(e.PersonName) != wantName {
					continue
				}
				encounters = append(encounters, e)
			}

			if len(encounters) == 0 {
				fmt.Println("No encounters recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "DATE\tPERSON\tPLACE\tFACTS")
			for _, e := range encounters {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", e.Date, e.PersonName, e.Place, len(e.Facts))
			}
			_ = w.Flush()

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&personName, "person", "", "Only encounters with this person")
	flags.Var(&since, "since", "Earliest day to include, YYYY-MM-DD")
	flags.Var(&until, "until", "Latest day to include, YYYY-MM-DD")
	return cmd
}

func sortEncountersByDateDesc(encounters []encounter.Encounter) {
	sort.SliceStable(encounters, func(i, j int) bool {
		return encounters[i].Date > encounters[j].Date
	})
}
