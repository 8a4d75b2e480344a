package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps documents in process memory. It backs the default local
// mode and the test suites. Stored data is copied on the way in and out so
// callers can never alias internal state.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: map[string]map[string]map[string]any{}}
}

func (s *MemoryStore) Create(ctx context.Context, path string, data map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.collection(path)[id] = copyData(data)
	return id, nil
}

func (s *MemoryStore) CreateOrReplace(ctx context.Context, path, id string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	collection := s.collection(path)
	existing, ok := collection[id]
	if !ok {
		collection[id] = copyData(data)
		return nil
	}
	for key, value := range data {
		existing[key] = copyValue(value)
	}
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, path, id string, partial map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.collection(path)[id]
	if !ok {
		return fmt.Errorf("update(%s/%s) > %w", path, id, ErrNotFound)
	}
	for key, value := range partial {
		existing[key] = copyValue(value)
	}
	return nil
}

func (s *MemoryStore) FindByField(ctx context.Context, path, field string, value any) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []Document
	for id, data := range s.collections[path] {
		if data[field] == value {
			docs = append(docs, Document{ID: id, Data: copyData(data)})
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (s *MemoryStore) FindByDateRange(ctx context.Context, path, field, from, until string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []Document
	for id, data := range s.collections[path] {
		day := StringField(data, field)
		if day == "" {
			continue
		}
		if from != "" && day < from {
			continue
		}
		if until != "" && day > until {
			continue
		}
		docs = append(docs, Document{ID: id, Data: copyData(data)})
	}
	sort.Slice(docs, func(i, j int) bool {
		di, dj := StringField(docs[i].Data, field), StringField(docs[j].Data, field)
		if di != dj {
			return di > dj
		}
		return docs[i].ID > docs[j].ID
	})
	return docs, nil
}

func (s *MemoryStore) CreateInSubcollection(ctx context.Context, parentPath, parentID, name string, data map[string]any, optionalID string) (string, error) {
	path := SubcollectionPath(parentPath, parentID, name)
	if optionalID == "" {
		return s.Create(ctx, path, data)
	}
	if err := s.CreateOrReplace(ctx, path, optionalID, data); err != nil {
		return "", err
	}
	return optionalID, nil
}

func (s *MemoryStore) FindAll(ctx context.Context, path string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]Document, 0, len(s.collections[path]))
	for id, data := range s.collections[path] {
		docs = append(docs, Document{ID: id, Data: copyData(data)})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (s *MemoryStore) collection(path string) map[string]map[string]any {
	collection, ok := s.collections[path]
	if !ok {
		collection = map[string]map[string]any{}
		s.collections[path] = collection
	}
	return collection
}

func copyData(data map[string]any) map[string]any {
	copied := make(map[string]any, len(data))
	for key, value := range data {
		copied[key] = copyValue(value)
	}
	return copied
}

func copyValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return copyData(v)
	case []any:
		copied := make([]any, len(v))
		for i, elem := range v {
			copied[i] = copyValue(elem)
		}
		return copied
	default:
		return v
	}
}
