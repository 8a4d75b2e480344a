package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/at-ishikawa/kizuna/internal/docstore"
	"github.com/at-ishikawa/kizuna/internal/encounter"
	"github.com/at-ishikawa/kizuna/internal/normalize"
	"github.com/at-ishikawa/kizuna/internal/person"
)

// Collection and field names of the legacy layout.
const (
	LegacyEntries          = "entries"
	LegacyPeopleIDs        = "peopleIds"
	LegacyFieldName        = "name"
	LegacyFieldMemo        = "memo"
	LegacyFieldIdentifier  = "identifier"
	LegacyFieldPersonID    = "id"
	LegacyFieldPlace       = "placeLabel"
	LegacyFieldFacts       = "facts"
	LegacyFieldDate        = "date"
	LegacyFieldUpdatedAt   = "updatedAt"
)

// CompositeKeyStrategy is the legacy identity scheme: people are documents
// keyed by a composite identifier derived from the name and memo, with one
// merged entry document per day in a subcollection, plus a peopleIds mapping
// that assigns each identifier a stable id.
type CompositeKeyStrategy struct {
	store docstore.Store
	owner string
}

var _ Strategy = (*CompositeKeyStrategy)(nil)

// NewCompositeKeyStrategy creates the legacy-layout strategy.
func NewCompositeKeyStrategy(store docstore.Store, owner string) *CompositeKeyStrategy {
	return &CompositeKeyStrategy{store: store, owner: owner}
}

// Identifier derives the legacy document key: the full name when it holds at
// least two whitespace-separated tokens, else name-memo when a memo is
// supplied. A single-token name without a memo is ambiguous.
func Identifier(rawName, memo string) (string, error) {
	name := normalize.DisplayName(rawName)
	trimmedMemo := strings.TrimSpace(memo)
	switch {
	case len(strings.Fields(name)) >= 2:
		return name, nil
	case name != "" && trimmedMemo != "":
		return name + "-" + trimmedMemo, nil
	default:
		return "", fmt.Errorf("identifier(name=%q) > %w", rawName, ErrIdentityAmbiguous)
	}
}

func (s *CompositeKeyStrategy) UpsertPerson(ctx context.Context, input PersonInput) (*person.Person, error) {
	identifier, err := Identifier(input.RawName, input.Memo)
	if err != nil {
		return nil, err
	}
	displayName := normalize.DisplayName(input.RawName)
	memo := strings.TrimSpace(input.Memo)
	now := time.Now()

	path := CollectionPath(s.owner, person.Collection)
	data := map[string]any{
		LegacyFieldName:      displayName,
		LegacyFieldUpdatedAt: now.UTC().Format(time.RFC3339),
	}
	if memo != "" {
		data[LegacyFieldMemo] = memo
	}
	if err := s.store.CreateOrReplace(ctx, path, identifier, data); err != nil {
		return nil, fmt.Errorf("store.CreateOrReplace(people, %s) > %w", identifier, err)
	}
	if err := s.ensureMapping(ctx, identifier); err != nil {
		return nil, err
	}

	return &person.Person{
		ID:             identifier,
		DisplayName:    displayName,
		NormalizedName: normalize.Name(input.RawName),
		Memo:           memo,
		UpdatedAt:      now,
	}, nil
}

func (s *CompositeKeyStrategy) UpsertEncounterForDay(ctx context.Context, p *person.Person, day string, input EncounterInput) (*encounter.Encounter, error) {
	facts := encounter.NewFacts(normalize.CompactFacts(input.Facts))
	place := strings.TrimSpace(input.Place)
	now := time.Now()

	data := map[string]any{
		LegacyFieldName:      input.PersonName,
		LegacyFieldDate:      day,
		LegacyFieldUpdatedAt: now.UTC().Format(time.RFC3339),
	}
	if place != "" {
		data[LegacyFieldPlace] = place
	}
	if len(facts) > 0 {
		data[LegacyFieldFacts] = encounter.FactsPayload(facts)
	}

	// One merged document per day, keyed by the day itself.
	path := CollectionPath(s.owner, person.Collection)
	id, err := s.store.CreateInSubcollection(ctx, path, p.ID, LegacyEntries, data, day)
	if err != nil {
		return nil, fmt.Errorf("store.CreateInSubcollection(people/%s/entries, %s) > %w", p.ID, day, err)
	}
	slog.Debug("merged day entry", "identifier", p.ID, "date", day)

	return &encounter.Encounter{
		ID:         id,
		PersonID:   p.ID,
		PersonName: input.PersonName,
		Date:       day,
		Place:      place,
		Facts:      facts,
		UpdatedAt:  now,
	}, nil
}

// ensureMapping keeps one peopleIds document per identifier, assigning a
// stable id on first sight. The structured layout's importer reads these.
func (s *CompositeKeyStrategy) ensureMapping(ctx context.Context, identifier string) error {
	path := CollectionPath(s.owner, LegacyPeopleIDs)
	docs, err := s.store.FindByField(ctx, path, LegacyFieldIdentifier, identifier)
	if err != nil {
		return fmt.Errorf("store.FindByField(peopleIds, identifier) > %w", err)
	}
	if len(docs) > 0 {
		return nil
	}
	if _, err := s.store.Create(ctx, path, map[string]any{
		LegacyFieldIdentifier: identifier,
		LegacyFieldPersonID:   uuid.NewString(),
	}); err != nil {
		return fmt.Errorf("store.Create(peopleIds) > %w", err)
	}
	return nil
}

// LegacyEntriesPath returns the collection path of one identifier's per-day
// entry documents.
func LegacyEntriesPath(owner, identifier string) string {
	return docstore.SubcollectionPath(CollectionPath(owner, person.Collection), identifier, LegacyEntries)
}
