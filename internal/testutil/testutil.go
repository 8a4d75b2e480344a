// Package testutil provides shared test helpers for creating config files
// and seeded document stores.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/kizuna/internal/docstore"
	"github.com/at-ishikawa/kizuna/internal/encounter"
	"github.com/at-ishikawa/kizuna/internal/normalize"
	"github.com/at-ishikawa/kizuna/internal/person"
	"github.com/at-ishikawa/kizuna/internal/resolve"
)

// SetupTestConfig creates a minimal config file for the in-memory backend.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	configContent := `journal:
  owner: local
  debounce_ms: 20
identity:
  strategy: normalized
store:
  backend: memory
`
	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// PersonOption configures optional fields when seeding a person.
type PersonOption func(*person.Person)

// WithMemo sets the seeded person's memo.
func WithMemo(memo string) PersonOption {
	return func(p *person.Person) {
		p.Memo = memo
	}
}

// SeedPerson writes one structured person document and returns its id.
func SeedPerson(t *testing.T, store docstore.Store, owner, displayName string, opts ...PersonOption) string {
	t.Helper()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p := person.Person{
		DisplayName:    displayName,
		NormalizedName: normalize.Name(displayName),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(&p)
	}

	id, err := store.Create(context.Background(),
		resolve.CollectionPath(owner, person.Collection), p.Payload())
	require.NoError(t, err)
	return id
}

// SeedEncounter writes one structured encounter document and returns its id.
func SeedEncounter(t *testing.T, store docstore.Store, owner, personID, personName, day, place string, facts ...string) string {
	t.Helper()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	enc := encounter.Encounter{
		PersonID:   personID,
		PersonName: personName,
		Date:       day,
		Place:      place,
		Facts:      encounter.NewFacts(facts),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	id, err := store.Create(context.Background(),
		resolve.CollectionPath(owner, encounter.Collection), enc.Payload())
	require.NoError(t, err)
	return id
}

// SeedLegacyPerson writes one legacy-layout person document keyed by its
// composite identifier, with optional per-day entry documents keyed by day.
func SeedLegacyPerson(t *testing.T, store docstore.Store, owner, identifier string, data map[string]any, entries map[string]map[string]any) {
	t.Helper()

	ctx := context.Background()
	peoplePath := resolve.CollectionPath(owner, person.Collection)
	require.NoError(t, store.CreateOrReplace(ctx, peoplePath, identifier, data))
	for day, entry := range entries {
		_, err := store.CreateInSubcollection(ctx, peoplePath, identifier, resolve.LegacyEntries, entry, day)
		require.NoError(t, err)
	}
}
