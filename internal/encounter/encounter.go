// Package encounter holds the persisted observation records, one per
// person and calendar day.
package encounter

import (
	"time"

	"github.com/at-ishikawa/kizuna/internal/docstore"
)

// Collection is the logical collection encounters live in, under an owner
// scope.
const Collection = "encounters"

// DayFormat is the calendar-day key format used across layouts.
const DayFormat = "2006-01-02"

// Field names of persisted encounter documents.
const (
	FieldPersonID   = "personId"
	FieldPersonName = "personName"
	FieldDate       = "date"
	FieldPlace      = "placeLabel"
	FieldFacts      = "facts"
	FieldCreatedAt  = "createdAt"
	FieldUpdatedAt  = "updatedAt"
)

// Fact field names inside the facts array.
const (
	FactFieldOrderIndex = "orderIndex"
	FactFieldText       = "text"
)

// DayKey returns the calendar-day key of a timestamp.
func DayKey(t time.Time) string {
	return t.Format(DayFormat)
}

// Fact is one persisted observation with its explicit position.
type Fact struct {
	OrderIndex int    `yaml:"order_index"`
	Text       string `yaml:"text"`
}

// NewFacts order-stamps already-compacted fact texts.
func NewFacts(texts []string) []Fact {
	facts := make([]Fact, len(texts))
	for i, text := range texts {
		facts[i] = Fact{OrderIndex: i, Text: text}
	}
	return facts
}

// Encounter is what one journal card persists to: the observations recorded
// about one person on one calendar day. PersonName is denormalized for
// cheap listing.
type Encounter struct {
	ID         string    `yaml:"id"`
	PersonID   string    `yaml:"person_id"`
	PersonName string    `yaml:"person_name"`
	Date       string    `yaml:"date"`
	Place      string    `yaml:"place,omitempty"`
	Facts      []Fact    `yaml:"facts,omitempty"`
	CreatedAt  time.Time `yaml:"created_at"`
	UpdatedAt  time.Time `yaml:"updated_at"`
}

// Payload shapes the encounter for a write. Optional keys are emitted only
// when they hold a value, so merge writes preserve previously stored fields
// the new state does not carry.
func (e Encounter) Payload() map[string]any {
	data := map[string]any{
		FieldPersonID:   e.PersonID,
		FieldPersonName: e.PersonName,
		FieldDate:       e.Date,
		FieldUpdatedAt:  e.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if !e.CreatedAt.IsZero() {
		data[FieldCreatedAt] = e.CreatedAt.UTC().Format(time.RFC3339)
	}
	if e.Place != "" {
		data[FieldPlace] = e.Place
	}
	if len(e.Facts) > 0 {
		data[FieldFacts] = FactsPayload(e.Facts)
	}
	return data
}

// FactsPayload shapes facts for a document write.
func FactsPayload(facts []Fact) []any {
	payload := make([]any, len(facts))
	for i, fact := range facts {
		payload[i] = map[string]any{
			FactFieldOrderIndex: fact.OrderIndex,
			FactFieldText:       fact.Text,
		}
	}
	return payload
}

// FromDocument rebuilds an encounter from its stored document.
func FromDocument(doc docstore.Document) Encounter {
	return Encounter{
		ID:         doc.ID,
		PersonID:   docstore.StringField(doc.Data, FieldPersonID),
		PersonName: docstore.StringField(doc.Data, FieldPersonName),
		Date:       docstore.StringField(doc.Data, FieldDate),
		Place:      docstore.StringField(doc.Data, FieldPlace),
		Facts:      factsFromDocument(doc.Data[FieldFacts]),
		CreatedAt:  docstore.TimeField(doc.Data, FieldCreatedAt),
		UpdatedAt:  docstore.TimeField(doc.Data, FieldUpdatedAt),
	}
}

func factsFromDocument(value any) []Fact {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	facts := make([]Fact, 0, len(items))
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		facts = append(facts, Fact{
			OrderIndex: docstore.IntField(fields, FactFieldOrderIndex),
			Text:       docstore.StringField(fields, FactFieldText),
		})
	}
	return facts
}
