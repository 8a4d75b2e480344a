// Package docstore defines the document-store contract the journal writes
// through. The store is an opaque CRUD/query service: collections of
// documents addressed by path and id, with two query shapes, field equality
// and date range.
package docstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Update when the addressed document does not
// exist.
var ErrNotFound = errors.New("document not found")

// Document is one stored record: its identifier and its fields.
type Document struct {
	ID   string
	Data map[string]any
}

//go:generate mockgen -source=docstore.go -destination=../mocks/docstore/mock_store.go -package=mock_docstore

// Store is the adapter contract over a remote document database.
//
// CreateOrReplace and CreateInSubcollection with an explicit id shallow-merge
// into any existing document rather than overwriting it: top-level keys of
// data win, keys the payload omits are preserved.
type Store interface {
	// Create stores data in a new document and returns its assigned id.
	Create(ctx context.Context, path string, data map[string]any) (string, error)
	// CreateOrReplace upserts the document with the given id, merging.
	CreateOrReplace(ctx context.Context, path, id string, data map[string]any) error
	// Update rewrites only the named keys of an existing document.
	Update(ctx context.Context, path, id string, partial map[string]any) error
	// FindByField returns the documents whose field equals value.
	FindByField(ctx context.Context, path, field string, value any) ([]Document, error)
	// FindByDateRange returns documents whose field lies in [from, until],
	// descending by that field. Empty bounds are open-ended.
	FindByDateRange(ctx context.Context, path, field, from, until string) ([]Document, error)
	// FindAll returns every document in the collection, ordered by id. The
	// autosave core never calls this; the listing, migration and export
	// surfaces do.
	FindAll(ctx context.Context, path string) ([]Document, error)
	// CreateInSubcollection stores data under a parent document. The id is
	// assigned when optionalID is empty.
	CreateInSubcollection(ctx context.Context, parentPath, parentID, name string, data map[string]any, optionalID string) (string, error)
}

// SubcollectionPath composes the collection path of a subcollection under
// one parent document, e.g. people/p-1/entries.
func SubcollectionPath(parentPath, parentID, name string) string {
	return parentPath + "/" + parentID + "/" + name
}

// StringField reads a string value out of document data. Missing keys and
// other types read as "".
func StringField(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

// IntField reads an integer out of document data, accepting the float64
// shape JSON decoding produces.
func IntField(data map[string]any, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// TimeField reads an RFC 3339 timestamp out of document data. Missing or
// malformed values read as the zero time.
func TimeField(data map[string]any, key string) time.Time {
	switch v := data[key].(type) {
	case time.Time:
		return v
	case string:
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}
		}
		return parsed
	default:
		return time.Time{}
	}
}
