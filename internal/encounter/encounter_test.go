package encounter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/at-ishikawa/kizuna/internal/docstore"
)

func TestFromDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  docstore.Document
		want Encounter
	}{
		{
			name: "full document with json-decoded facts",
			doc: docstore.Document{
				ID: "e-1",
				Data: map[string]any{
					FieldPersonID:   "p-1",
					FieldPersonName: "Ana García",
					FieldDate:       "2026-08-20",
					FieldPlace:      "cafe",
					FieldFacts: []any{
						map[string]any{FactFieldOrderIndex: float64(0), FactFieldText: "loves jazz"},
						map[string]any{FactFieldOrderIndex: float64(1), FactFieldText: "new job"},
					},
					FieldCreatedAt: "2026-08-20T09:00:00Z",
					FieldUpdatedAt: "2026-08-20T10:30:00Z",
				},
			},
			want: Encounter{
				ID:         "e-1",
				PersonID:   "p-1",
				PersonName: "Ana García",
				Date:       "2026-08-20",
				Place:      "cafe",
				Facts: []Fact{
					{OrderIndex: 0, Text: "loves jazz"},
					{OrderIndex: 1, Text: "new job"},
				},
				CreatedAt: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
				UpdatedAt: time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC),
			},
		},
		{
			name: "missing optional fields",
			doc: docstore.Document{
				ID: "e-2",
				Data: map[string]any{
					FieldPersonID: "p-1",
					FieldDate:     "2026-08-21",
				},
			},
			want: Encounter{
				ID:       "e-2",
				PersonID: "p-1",
				Date:     "2026-08-21",
			},
		},
		{
			name: "malformed facts entries are dropped",
			doc: docstore.Document{
				ID: "e-3",
				Data: map[string]any{
					FieldPersonID: "p-1",
					FieldDate:     "2026-08-22",
					FieldFacts: []any{
						"not a map",
						map[string]any{FactFieldOrderIndex: float64(1), FactFieldText: "kept"},
					},
				},
			},
			want: Encounter{
				ID:       "e-3",
				PersonID: "p-1",
				Date:     "2026-08-22",
				Facts:    []Fact{{OrderIndex: 1, Text: "kept"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromDocument(tt.doc))
		})
	}
}

func TestPayload_OmitsEmptyOptionalFields(t *testing.T) {
	e := Encounter{
		PersonID:   "p-1",
		PersonName: "Ana García",
		Date:       "2026-08-20",
		UpdatedAt:  time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
	}

	data := e.Payload()

	assert.NotContains(t, data, FieldPlace)
	assert.NotContains(t, data, FieldFacts)
	assert.NotContains(t, data, FieldCreatedAt)
	assert.Equal(t, "p-1", data[FieldPersonID])
	assert.Equal(t, "2026-08-20T10:00:00Z", data[FieldUpdatedAt])
}

func TestNewFacts(t *testing.T) {
	facts := NewFacts([]string{"loves jazz", "new job"})

	assert.Equal(t, []Fact{
		{OrderIndex: 0, Text: "loves jazz"},
		{OrderIndex: 1, Text: "new job"},
	}, facts)
}
