// Package person holds the canonical person identity that display names
// resolve to.
package person

import (
	"time"

	"github.com/at-ishikawa/kizuna/internal/docstore"
)

// Collection is the logical collection people live in, under an owner scope.
const Collection = "people"

// Field names of persisted person documents.
const (
	FieldDisplayName    = "displayName"
	FieldNormalizedName = "normalizedName"
	FieldMemo           = "memo"
	FieldCreatedAt      = "createdAt"
	FieldUpdatedAt      = "updatedAt"
)

// Person is the canonical identity one or more journal cards resolve to.
// NormalizedName is unique per owner scope and is the lookup key.
type Person struct {
	ID             string    `yaml:"id"`
	DisplayName    string    `yaml:"display_name"`
	NormalizedName string    `yaml:"normalized_name"`
	Memo           string    `yaml:"memo,omitempty"`
	CreatedAt      time.Time `yaml:"created_at"`
	UpdatedAt      time.Time `yaml:"updated_at"`
}

// Payload shapes the person for a create write. Optional keys are emitted
// only when they hold a value.
func (p Person) Payload() map[string]any {
	data := map[string]any{
		FieldDisplayName:    p.DisplayName,
		FieldNormalizedName: p.NormalizedName,
		FieldCreatedAt:      p.CreatedAt.UTC().Format(time.RFC3339),
		FieldUpdatedAt:      p.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if p.Memo != "" {
		data[FieldMemo] = p.Memo
	}
	return data
}

// FromDocument rebuilds a person from its stored document.
func FromDocument(doc docstore.Document) Person {
	return Person{
		ID:             doc.ID,
		DisplayName:    docstore.StringField(doc.Data, FieldDisplayName),
		NormalizedName: docstore.StringField(doc.Data, FieldNormalizedName),
		Memo:           docstore.StringField(doc.Data, FieldMemo),
		CreatedAt:      docstore.TimeField(doc.Data, FieldCreatedAt),
		UpdatedAt:      docstore.TimeField(doc.Data, FieldUpdatedAt),
	}
}
