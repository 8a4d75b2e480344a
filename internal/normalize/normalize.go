package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Name converts a raw display name into its canonical comparable form:
// trimmed, lower-cased, diacritics stripped, inner whitespace collapsed.
// Idempotent, so already-normalized input passes through unchanged.
func Name(raw string) string {
	lowered := strings.ToLower(raw)
	stripped, _, err := transform.String(stripMarks(), lowered)
	if err != nil {
		// The chain only fails on malformed UTF-8. Fall back to the
		// lowered input so lookups stay deterministic.
		stripped = lowered
	}
	return CollapseSpaces(stripped)
}

// DisplayName trims and collapses whitespace while preserving case and
// accents. This is the form stored for presentation.
func DisplayName(raw string) string {
	return CollapseSpaces(raw)
}

// CollapseSpaces reduces every whitespace run to a single space and trims
// the ends.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CompactFacts trims each fact and drops the ones that end up empty,
// preserving order. Order indexes are assigned by the caller from the
// resulting positions.
func CompactFacts(texts []string) []string {
	compacted := make([]string, 0, len(texts))
	for _, text := range texts {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}
		compacted = append(compacted, trimmed)
	}
	return compacted
}

func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
