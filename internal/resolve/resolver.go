package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/at-ishikawa/kizuna/internal/docstore"
	"github.com/at-ishikawa/kizuna/internal/encounter"
	"github.com/at-ishikawa/kizuna/internal/journal"
	"github.com/at-ishikawa/kizuna/internal/person"
)

// Resolver persists cards through the configured identity strategy. It is
// the saver behind the autosave scheduler and the only writer of person and
// encounter records.
type Resolver struct {
	store    docstore.Store
	strategy Strategy
}

// NewResolver wires a resolver to its store and strategy. A nil store is
// allowed: saves then no-op with a warning and the journal stays local.
func NewResolver(store docstore.Store, strategy Strategy) *Resolver {
	return &Resolver{store: store, strategy: strategy}
}

// UpsertPerson resolves a display name to its canonical person.
func (r *Resolver) UpsertPerson(ctx context.Context, input PersonInput) (*person.Person, error) {
	return r.strategy.UpsertPerson(ctx, input)
}

// UpsertEncounterForDay merges one day's observations into the single record
// for (person, day).
func (r *Resolver) UpsertEncounterForDay(ctx context.Context, p *person.Person, day string, input EncounterInput) (*encounter.Encounter, error) {
	return r.strategy.UpsertEncounterForDay(ctx, p, day, input)
}

// SaveCard persists one card's state: re-checks the persist-worthy
// predicate, resolves the person, and merges the day's observations.
// Identity problems and a missing store skip the write without failing;
// only remote failures return an error.
func (r *Resolver) SaveCard(ctx context.Context, card journal.Card) (journal.SaveResult, error) {
	if !card.PersistWorthy() {
		return journal.SaveResult{Skipped: journal.SkipNotPersistWorthy}, nil
	}
	if r.store == nil || r.strategy == nil {
		slog.Warn("document store not configured, keeping card local", "clientKey", card.ClientKey)
		return journal.SaveResult{Skipped: journal.SkipStoreUnavailable}, nil
	}

	p, err := r.strategy.UpsertPerson(ctx, PersonInput{RawName: card.Name, Memo: card.Memo})
	if err != nil {
		if errors.Is(err, ErrIdentityAmbiguous) {
			slog.Warn("no resolvable identity, skipping write", "clientKey", card.ClientKey, "error", err)
			return journal.SaveResult{Skipped: journal.SkipIdentityAmbiguous}, nil
		}
		return journal.SaveResult{}, fmt.Errorf("strategy.UpsertPerson > %w", err)
	}

	date := card.Date
	if date.IsZero() {
		date = time.Now()
	}
	enc, err := r.UpsertEncounterForDay(ctx, p, encounter.DayKey(date), EncounterInput{
		PersonName: p.DisplayName,
		Place:      card.Place,
		Facts:      card.FactTexts(),
	})
	if err != nil {
		return journal.SaveResult{}, fmt.Errorf("strategy.UpsertEncounterForDay > %w", err)
	}

	return journal.SaveResult{PersistedID: enc.ID, PersonID: p.ID}, nil
}
