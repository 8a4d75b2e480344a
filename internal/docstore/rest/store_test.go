package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/kizuna/internal/docstore"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := NewStore(Config{
		BaseURL:       server.URL,
		APIKey:        "test-key",
		RetryAttempts: 2,
		Timeout:       5 * time.Second,
	})
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_Create(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/collections/owners%2Flocal%2Fpeople/documents", r.URL.EscapedPath())
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Data map[string]any `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ana G", body.Data["displayName"])

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(documentPayload{ID: "p-1", Data: body.Data}))
	})

	id, err := store.Create(context.Background(), "owners/local/people", map[string]any{
		"displayName": "Ana G",
	})
	require.NoError(t, err)
	assert.Equal(t, "p-1", id)
}

func TestStore_Create_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(documentPayload{ID: "p-1"})
	})

	id, err := store.Create(context.Background(), "owners/local/people", map[string]any{"displayName": "Ana G"})
	require.NoError(t, err)
	assert.Equal(t, "p-1", id)
	assert.Equal(t, int32(2), calls.Load())
}

func TestStore_Create_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad payload", http.StatusBadRequest)
	})

	_, err := store.Create(context.Background(), "owners/local/people", map[string]any{"displayName": "Ana G"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "response error 400")
	assert.Equal(t, int32(1), calls.Load(), "4xx must be permanent")
}

func TestStore_Update(t *testing.T) {
	t.Run("merges named keys", func(t *testing.T) {
		store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/collections/owners%2Flocal%2Fencounters/documents/enc-1", r.URL.EscapedPath())
			w.WriteHeader(http.StatusNoContent)
		})

		err := store.Update(context.Background(), "owners/local/encounters", "enc-1", map[string]any{
			"placeLabel": "Cafe",
		})
		assert.NoError(t, err)
	})

	t.Run("missing document", func(t *testing.T) {
		store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})

		err := store.Update(context.Background(), "owners/local/encounters", "gone", map[string]any{
			"placeLabel": "Cafe",
		})
		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})
}

func TestStore_CreateOrReplace(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)

		var body struct {
			Data  map[string]any `json:"data"`
			Merge bool           `json:"merge"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body.Merge)
		w.WriteHeader(http.StatusOK)
	})

	err := store.CreateOrReplace(context.Background(), "owners/local/people", "Ana Garcia", map[string]any{
		"name": "Ana Garcia",
	})
	assert.NoError(t, err)
}

func TestStore_FindByField(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "normalizedName", r.URL.Query().Get("field"))
		assert.Equal(t, "ana g", r.URL.Query().Get("value"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]documentPayload{
			{ID: "p-1", Data: map[string]any{"displayName": "Ana G"}},
		})
	})

	docs, err := store.FindByField(context.Background(), "owners/local/people", "normalizedName", "ana g")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "p-1", docs[0].ID)
	assert.Equal(t, "Ana G", docstore.StringField(docs[0].Data, "displayName"))
}

func TestStore_FindByDateRange(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "date", query.Get("orderBy"))
		assert.Equal(t, "desc", query.Get("order"))
		assert.Equal(t, "2025-01-01", query.Get("from"))
		assert.Empty(t, query.Get("until"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]documentPayload{
			{ID: "e-2", Data: map[string]any{"date": "2025-01-20"}},
			{ID: "e-1", Data: map[string]any{"date": "2025-01-10"}},
		})
	})

	docs, err := store.FindByDateRange(context.Background(), "owners/local/encounters", "date", "2025-01-01", "")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "2025-01-20", docstore.StringField(docs[0].Data, "date"))
}

func TestStore_CreateInSubcollection(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t,
			"/collections/owners%2Flocal%2Fpeople%2FAna%20Garcia%2Fentries/documents/2025-01-10",
			r.URL.EscapedPath())
		w.WriteHeader(http.StatusOK)
	})

	id, err := store.CreateInSubcollection(context.Background(),
		"owners/local/people", "Ana Garcia", "entries",
		map[string]any{"date": "2025-01-10"}, "2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-10", id)
}
