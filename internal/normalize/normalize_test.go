package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain ascii",
			raw:  "Ana G",
			want: "ana g",
		},
		{
			name: "diacritics stripped",
			raw:  "José Álvarez",
			want: "jose alvarez",
		},
		{
			name: "whitespace collapsed",
			raw:  "  José   Álvarez ",
			want: "jose alvarez",
		},
		{
			name: "mixed case and tabs",
			raw:  "MARÍA\tdel\tCarmen",
			want: "maria del carmen",
		},
		{
			name: "empty",
			raw:  "",
			want: "",
		},
		{
			name: "only whitespace",
			raw:  " \t\n ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Name(tt.raw)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestName_Idempotent(t *testing.T) {
	inputs := []string{"José  Álvarez", "ana g", "MARÍA del Carmen", "", "Łukasz Grün"}
	for _, raw := range inputs {
		once := Name(raw)
		assert.Equal(t, once, Name(once), "normalize must be idempotent for %q", raw)
	}
}

func TestName_EquivalentInputs(t *testing.T) {
	assert.Equal(t, Name("José  Álvarez"), Name("jose alvarez"))
	assert.Equal(t, Name("ANA  g"), Name("ana G"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "José Álvarez", DisplayName("  José   Álvarez "))
	assert.Equal(t, "Ana G", DisplayName("Ana G"))
	assert.Equal(t, "", DisplayName("   "))
}

func TestCompactFacts(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  []string
	}{
		{
			name:  "drops blanks and trims",
			texts: []string{" loves hiking ", "", "  ", "has two cats"},
			want:  []string{"loves hiking", "has two cats"},
		},
		{
			name:  "all blank",
			texts: []string{"", " ", "\t"},
			want:  []string{},
		},
		{
			name:  "order preserved",
			texts: []string{"b", "a", "c"},
			want:  []string{"b", "a", "c"},
		},
		{
			name:  "nil input",
			texts: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompactFacts(tt.texts)
			assert.Equal(t, tt.want, got)
		})
	}
}
