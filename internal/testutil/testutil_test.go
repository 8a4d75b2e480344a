package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/kizuna/internal/docstore"
	"github.com/at-ishikawa/kizuna/internal/encounter"
	"github.com/at-ishikawa/kizuna/internal/person"
	"github.com/at-ishikawa/kizuna/internal/resolve"
)

func TestSetupTestConfig(t *testing.T) {
	tmpDir := t.TempDir()
	got := SetupTestConfig(t, tmpDir)

	assert.Equal(t, filepath.Join(tmpDir, "config.yml"), got)
	assert.FileExists(t, got)
}

func TestSeedPerson(t *testing.T) {
	store := docstore.NewMemoryStore()
	id := SeedPerson(t, store, "local", "José Álvarez", WithMemo("met at conference"))

	docs, err := store.FindByField(context.Background(),
		resolve.CollectionPath("local", person.Collection), person.FieldNormalizedName, "jose alvarez")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0].ID)

	p := person.FromDocument(docs[0])
	assert.Equal(t, "José Álvarez", p.DisplayName)
	assert.Equal(t, "met at conference", p.Memo)
}

func TestSeedEncounter(t *testing.T) {
	store := docstore.NewMemoryStore()
	personID := SeedPerson(t, store, "local", "Ana G")
	id := SeedEncounter(t, store, "local", personID, "Ana G", "2025-01-10", "Cafe", "Loves hiking")

	docs, err := store.FindByField(context.Background(),
		resolve.CollectionPath("local", encounter.Collection), encounter.FieldPersonID, personID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0].ID)

	enc := encounter.FromDocument(docs[0])
	assert.Equal(t, "2025-01-10", enc.Date)
	assert.Equal(t, "Cafe", enc.Place)
	require.Len(t, enc.Facts, 1)
	assert.Equal(t, "Loves hiking", enc.Facts[0].Text)
}

func TestSeedLegacyPerson(t *testing.T) {
	store := docstore.NewMemoryStore()
	SeedLegacyPerson(t, store, "local", "Ana Garcia", map[string]any{
		resolve.LegacyFieldName:      "Ana Garcia",
		resolve.LegacyFieldUpdatedAt: "2025-01-01T00:00:00Z",
	}, map[string]map[string]any{
		"2025-01-10": {"date": "2025-01-10", "placeLabel": "Cafe"},
	})

	ctx := context.Background()
	people, err := store.FindAll(ctx, resolve.CollectionPath("local", person.Collection))
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "Ana Garcia", people[0].ID)

	entries, err := store.FindAll(ctx, resolve.LegacyEntriesPath("local", "Ana Garcia"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2025-01-10", entries[0].ID)
}
