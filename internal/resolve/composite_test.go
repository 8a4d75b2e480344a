package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/kizuna/internal/docstore"
)

func TestCompositeKeyStrategy_UpsertPerson(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	strategy := NewCompositeKeyStrategy(store, "local")

	p, err := strategy.UpsertPerson(ctx, PersonInput{RawName: "Ana García", Memo: "barista"})
	require.NoError(t, err)
	assert.Equal(t, "Ana García", p.ID, "the legacy person id is the identifier itself")

	docs, err := store.FindAll(ctx, "owners/local/people")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Ana García", docs[0].ID)
	assert.Equal(t, "Ana García", docstore.StringField(docs[0].Data, LegacyFieldName))
	assert.Equal(t, "barista", docstore.StringField(docs[0].Data, LegacyFieldMemo))

	// The mapping is created once per identifier.
	mappings, err := store.FindAll(ctx, "owners/local/peopleIds")
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, "Ana García", docstore.StringField(mappings[0].Data, LegacyFieldIdentifier))
	assert.NotEmpty(t, docstore.StringField(mappings[0].Data, LegacyFieldPersonID))

	_, err = strategy.UpsertPerson(ctx, PersonInput{RawName: "Ana  García"})
	require.NoError(t, err)
	mappings, err = store.FindAll(ctx, "owners/local/peopleIds")
	require.NoError(t, err)
	assert.Len(t, mappings, 1, "re-upserting the same identifier must not duplicate the mapping")
}

func TestCompositeKeyStrategy_UpsertPerson_SingleTokenFallsBackToMemo(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	strategy := NewCompositeKeyStrategy(store, "local")

	p, err := strategy.UpsertPerson(ctx, PersonInput{RawName: "Ana", Memo: "barista"})
	require.NoError(t, err)
	assert.Equal(t, "Ana-barista", p.ID)

	_, err = strategy.UpsertPerson(ctx, PersonInput{RawName: "Ana"})
	assert.ErrorIs(t, err, ErrIdentityAmbiguous)
}

func TestCompositeKeyStrategy_UpsertEncounterForDay_MergesPerDayDocument(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	strategy := NewCompositeKeyStrategy(store, "local")

	p, err := strategy.UpsertPerson(ctx, PersonInput{RawName: "Ana García"})
	require.NoError(t, err)

	first, err := strategy.UpsertEncounterForDay(ctx, p, "2026-03-14", EncounterInput{
		PersonName: "Ana García",
		Place:      "Cafe",
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", first.ID, "the day itself keys the entry document")

	_, err = strategy.UpsertEncounterForDay(ctx, p, "2026-03-14", EncounterInput{
		PersonName: "Ana García",
		Facts:      []string{"Loves hiking"},
	})
	require.NoError(t, err)

	entries, err := store.FindAll(ctx, LegacyEntriesPath("local", "Ana García"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "same day merges into one entry")
	assert.Equal(t, "Cafe", docstore.StringField(entries[0].Data, LegacyFieldPlace))
	facts, ok := entries[0].Data[LegacyFieldFacts].([]any)
	require.True(t, ok)
	assert.Len(t, facts, 1)

	_, err = strategy.UpsertEncounterForDay(ctx, p, "2026-03-15", EncounterInput{
		PersonName: "Ana García",
		Place:      "Library",
	})
	require.NoError(t, err)
	entries, err = store.FindAll(ctx, LegacyEntriesPath("local", "Ana García"))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "different days stay separate")
}
