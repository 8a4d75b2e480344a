package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/at-ishikawa/kizuna/internal/docstore"
	"github.com/at-ishikawa/kizuna/internal/encounter"
	"github.com/at-ishikawa/kizuna/internal/normalize"
	"github.com/at-ishikawa/kizuna/internal/person"
)

// NormalizedNameStrategy keys people by their normalized display name and
// stores encounters in a flat collection. This is the structured layout.
type NormalizedNameStrategy struct {
	store docstore.Store
	owner string
}

var _ Strategy = (*NormalizedNameStrategy)(nil)

// NewNormalizedNameStrategy creates the structured-layout strategy.
func NewNormalizedNameStrategy(store docstore.Store, owner string) *NormalizedNameStrategy {
	return &NormalizedNameStrategy{store: store, owner: owner}
}

func (s *NormalizedNameStrategy) UpsertPerson(ctx context.Context, input PersonInput) (*person.Person, error) {
	normalized := normalize.Name(input.RawName)
	if normalized == "" {
		return nil, fmt.Errorf("normalize(%q) produced no usable name > %w", input.RawName, ErrIdentityAmbiguous)
	}
	displayName := normalize.DisplayName(input.RawName)
	memo := strings.TrimSpace(input.Memo)
	path := CollectionPath(s.owner, person.Collection)

	docs, err := s.store.FindByField(ctx, path, person.FieldNormalizedName, normalized)
	if err != nil {
		return nil, fmt.Errorf("store.FindByField(people, normalizedName) > %w", err)
	}
	now := time.Now()
	if len(docs) > 0 {
		// Found an existing person - refresh the display form and merge
		// the memo when one was supplied.
		existing := person.FromDocument(docs[0])
		update := map[string]any{
			person.FieldDisplayName: displayName,
			person.FieldUpdatedAt:   now.UTC().Format(time.RFC3339),
		}
		if memo != "" {
			update[person.FieldMemo] = memo
		}
		if err := s.store.Update(ctx, path, existing.ID, update); err != nil {
			return nil, fmt.Errorf("store.Update(people, %s) > %w", existing.ID, err)
		}
		existing.DisplayName = displayName
		if memo != "" {
			existing.Memo = memo
		}
		existing.UpdatedAt = now
		slog.Debug("merged into existing person", "personId", existing.ID, "normalizedName", normalized)
		return &existing, nil
	}

	created := person.Person{
		DisplayName:    displayName,
		NormalizedName: normalized,
		Memo:           memo,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	id, err := s.store.Create(ctx, path, created.Payload())
	if err != nil {
		return nil, fmt.Errorf("store.Create(people) > %w", err)
	}
	created.ID = id
	slog.Debug("created person", "personId", id, "normalizedName", normalized)
	return &created, nil
}

func (s *NormalizedNameStrategy) UpsertEncounterForDay(ctx context.Context, p *person.Person, day string, input EncounterInput) (*encounter.Encounter, error) {
	path := CollectionPath(s.owner, encounter.Collection)

	// Only two query shapes exist on the store, so fetch by person and pick
	// the day here. One document per (person, day) is the invariant this
	// method maintains.
	docs, err := s.store.FindByField(ctx, path, encounter.FieldPersonID, p.ID)
	if err != nil {
		return nil, fmt.Errorf("store.FindByField(encounters, personId) > %w", err)
	}
	var existing *docstore.Document
	for _, doc := range docs {
		if docstore.StringField(doc.Data, encounter.FieldDate) == day {
			existing = &doc
			break
		}
	}

	facts := encounter.NewFacts(normalize.CompactFacts(input.Facts))
	place := strings.TrimSpace(input.Place)
	now := time.Now()

	if existing == nil {
		created := encounter.Encounter{
			PersonID:   p.ID,
			PersonName: input.PersonName,
			Date:       day,
			Place:      place,
			Facts:      facts,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		id, err := s.store.Create(ctx, path, created.Payload())
		if err != nil {
			return nil, fmt.Errorf("store.Create(encounters) > %w", err)
		}
		created.ID = id
		slog.Debug("created encounter", "encounterId", id, "personId", p.ID, "date", day)
		return &created, nil
	}

	// Found the day's record - merge. Keys the new state does not carry are
	// left as stored.
	partial := map[string]any{
		encounter.FieldPersonName: input.PersonName,
		encounter.FieldUpdatedAt:  now.UTC().Format(time.RFC3339),
	}
	if place != "" {
		partial[encounter.FieldPlace] = place
	}
	if len(facts) > 0 {
		partial[encounter.FieldFacts] = encounter.FactsPayload(facts)
	}
	if err := s.store.Update(ctx, path, existing.ID, partial); err != nil {
		return nil, fmt.Errorf("store.Update(encounters, %s) > %w", existing.ID, err)
	}

	merged := encounter.FromDocument(*existing)
	merged.PersonName = input.PersonName
	merged.UpdatedAt = now
	if place != "" {
		merged.Place = place
	}
	if len(facts) > 0 {
		merged.Facts = facts
	}
	slog.Debug("merged encounter", "encounterId", merged.ID, "personId", p.ID, "date", day)
	return &merged, nil
}
