// Package resolve turns draft cards into persisted person and encounter
// records: it deduplicates people by identity, merges same-day observations
// into a single record, and reports persisted identifiers back to the
// journal.
package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/at-ishikawa/kizuna/internal/docstore"
	"github.com/at-ishikawa/kizuna/internal/encounter"
	"github.com/at-ishikawa/kizuna/internal/person"
)

// ErrIdentityAmbiguous is returned when neither a usable normalized name nor
// a composite name/memo key can be derived. Nothing is written.
var ErrIdentityAmbiguous = errors.New("identity ambiguous")

// Identity strategy names, as they appear in configuration.
const (
	StrategyNormalized = "normalized"
	StrategyComposite  = "composite"
)

// PersonInput carries the card fields that feed identity resolution.
type PersonInput struct {
	RawName string
	Memo    string
}

// EncounterInput carries one day's observations about a person.
type EncounterInput struct {
	PersonName string
	Place      string
	Facts      []string
}

// Strategy resolves a person identity and owns the persisted layout of that
// identity scheme. Which strategy runs is explicit configuration; the two
// schemes store data in different shapes and are not interchangeable at
// runtime.
type Strategy interface {
	// UpsertPerson finds or creates the person a display name resolves to.
	// Inputs that normalize identically resolve to the same person.
	UpsertPerson(ctx context.Context, input PersonInput) (*person.Person, error)
	// UpsertEncounterForDay merges one day's observations into the single
	// record for (person, day): new values win per field, fields the new
	// payload omits stay as stored.
	UpsertEncounterForDay(ctx context.Context, p *person.Person, day string, input EncounterInput) (*encounter.Encounter, error)
}

// NewStrategy builds the configured identity strategy.
func NewStrategy(name string, store docstore.Store, owner string) (Strategy, error) {
	switch name {
	case StrategyNormalized:
		return NewNormalizedNameStrategy(store, owner), nil
	case StrategyComposite:
		return NewCompositeKeyStrategy(store, owner), nil
	default:
		return nil, fmt.Errorf("unknown identity strategy %q", name)
	}
}

// CollectionPath places a logical collection under its owner scope.
func CollectionPath(owner, name string) string {
	return "owners/" + owner + "/" + name
}
