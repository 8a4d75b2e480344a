// Package mysql backs the document store with a single documents table:
// one row per (collection, id), the fields as a JSON column. Merge writes
// use JSON_MERGE_PATCH so top-level keys of the new payload win and keys it
// omits stay as stored.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/kizuna/internal/database"
	"github.com/at-ishikawa/kizuna/internal/docstore"
)

// Store implements docstore.Store on MySQL.
type Store struct {
	db *sqlx.DB
}

var _ docstore.Store = (*Store)(nil)

// NewStore creates a Store over an open connection.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type documentRow struct {
	ID  string `db:"id"`
	Doc []byte `db:"doc"`
}

func (row documentRow) toDocument() (docstore.Document, error) {
	var data map[string]any
	if err := json.Unmarshal(row.Doc, &data); err != nil {
		return docstore.Document{}, fmt.Errorf("json.Unmarshal(doc %s) > %w", row.ID, err)
	}
	return docstore.Document{ID: row.ID, Data: data}, nil
}

func (s *Store) Create(ctx context.Context, path string, data map[string]any) (string, error) {
	id := uuid.NewString()
	doc, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("json.Marshal(document) > %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO documents (collection, id, doc) VALUES (?, ?, ?)",
		path, id, doc); err != nil {
		return "", fmt.Errorf("db.ExecContext(insert %s) > %w", path, err)
	}
	return id, nil
}

func (s *Store) CreateOrReplace(ctx context.Context, path, id string, data map[string]any) error {
	doc, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("json.Marshal(document) > %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, doc)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE doc = JSON_MERGE_PATCH(doc, VALUES(doc))`,
		path, id, doc); err != nil {
		return fmt.Errorf("db.ExecContext(upsert %s/%s) > %w", path, id, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, path, id string, partial map[string]any) error {
	doc, err := json.Marshal(partial)
	if err != nil {
		return fmt.Errorf("json.Marshal(partial) > %w", err)
	}
	return database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		// A merge of identical content affects zero rows, so existence is
		// checked explicitly rather than through RowsAffected. The row lock
		// keeps the check and the merge atomic.
		var one int
		err := tx.GetContext(ctx, &one,
			"SELECT 1 FROM documents WHERE collection = ? AND id = ? FOR UPDATE", path, id)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update(%s/%s) > %w", path, id, docstore.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("tx.GetContext(document %s/%s) > %w", path, id, err)
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE documents SET doc = JSON_MERGE_PATCH(doc, ?) WHERE collection = ? AND id = ?",
			doc, path, id); err != nil {
			return fmt.Errorf("tx.ExecContext(update %s/%s) > %w", path, id, err)
		}
		return nil
	})
}

func (s *Store) FindByField(ctx context.Context, path, field string, value any) ([]docstore.Document, error) {
	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT id, doc FROM documents
		WHERE collection = ? AND JSON_UNQUOTE(JSON_EXTRACT(doc, ?)) = ?
		ORDER BY id`,
		path, "$."+field, fmt.Sprintf("%v", value)); err != nil {
		return nil, fmt.Errorf("db.SelectContext(%s by %s) > %w", path, field, err)
	}
	return toDocuments(rows)
}

func (s *Store) FindByDateRange(ctx context.Context, path, field, from, until string) ([]docstore.Document, error) {
	fieldPath := "$." + field
	query := "SELECT id, doc FROM documents WHERE collection = ?"
	args := []any{path}
	if from != "" {
		query += " AND JSON_UNQUOTE(JSON_EXTRACT(doc, ?)) >= ?"
		args = append(args, fieldPath, from)
	}
	if until != "" {
		query += " AND JSON_UNQUOTE(JSON_EXTRACT(doc, ?)) <= ?"
		args = append(args, fieldPath, until)
	}
	query += " ORDER BY JSON_UNQUOTE(JSON_EXTRACT(doc, ?)) DESC"
	args = append(args, fieldPath)

	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(%s by %s range) > %w", path, field, err)
	}
	return toDocuments(rows)
}

func (s *Store) FindAll(ctx context.Context, path string) ([]docstore.Document, error) {
	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT id, doc FROM documents WHERE collection = ? ORDER BY id", path); err != nil {
		return nil, fmt.Errorf("db.SelectContext(%s) > %w", path, err)
	}
	return toDocuments(rows)
}

func (s *Store) CreateInSubcollection(ctx context.Context, parentPath, parentID, name string, data map[string]any, optionalID string) (string, error) {
	path := docstore.SubcollectionPath(parentPath, parentID, name)
	if optionalID == "" {
		return s.Create(ctx, path, data)
	}
	if err := s.CreateOrReplace(ctx, path, optionalID, data); err != nil {
		return "", err
	}
	return optionalID, nil
}

func toDocuments(rows []documentRow) ([]docstore.Document, error) {
	docs := make([]docstore.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := row.toDocument()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
