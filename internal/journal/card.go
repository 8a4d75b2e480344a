// Package journal holds the draft side of the relationship journal: the
// ordered card list behind the editing surface, the pure mutations applied
// to it, and the invariants that keep it consistent while autosave runs in
// the background.
package journal

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SaveState tracks where a card sits in the autosave cycle. It is ephemeral
// local state and is never persisted.
type SaveState string

const (
	SaveStateIdle   SaveState = "idle"
	SaveStateDirty  SaveState = "dirty"
	SaveStateSaving SaveState = "saving"
	SaveStateSaved  SaveState = "saved"
	SaveStateError  SaveState = "error"
)

// Fact is one atomic free-text observation about a person, order-preserved.
type Fact struct {
	Text string
}

// Card is the draft of one day's encounter with a person. ClientKey is a
// stable local identifier and is never reused; PersistedID and PersonID stay
// empty until the card has been written remotely.
type Card struct {
	ClientKey   string
	PersistedID string
	PersonID    string
	Name        string
	Memo        string
	Place       string
	Facts       []Fact
	Date        time.Time
	SaveState   SaveState
}

// NewCard returns a blank card with a fresh client key, dated now, holding
// the single open fact slot.
func NewCard() Card {
	return Card{
		ClientKey: uuid.NewString(),
		Facts:     []Fact{{}},
		Date:      time.Now(),
		SaveState: SaveStateIdle,
	}
}

// Blank reports whether the card carries no meaningful content and no
// persisted identity. Blank cards are dropped from the list unless they are
// the trailing open slot.
func (c Card) Blank() bool {
	if c.PersistedID != "" {
		return false
	}
	if strings.TrimSpace(c.Name) != "" || strings.TrimSpace(c.Memo) != "" || strings.TrimSpace(c.Place) != "" {
		return false
	}
	for _, fact := range c.Facts {
		if strings.TrimSpace(fact.Text) != "" {
			return false
		}
	}
	return true
}

// PersistWorthy reports whether the card's state warrants a remote write:
// a resolvable display identity (name or memo) and at least one non-blank
// fact or a non-blank place.
func (c Card) PersistWorthy() bool {
	if strings.TrimSpace(c.Name) == "" && strings.TrimSpace(c.Memo) == "" {
		return false
	}
	if strings.TrimSpace(c.Place) != "" {
		return true
	}
	for _, fact := range c.Facts {
		if strings.TrimSpace(fact.Text) != "" {
			return true
		}
	}
	return false
}

// FactTexts returns the raw fact texts in order, including blank slots.
func (c Card) FactTexts() []string {
	texts := make([]string, len(c.Facts))
	for i, fact := range c.Facts {
		texts[i] = fact.Text
	}
	return texts
}

func (c Card) clone() Card {
	facts := make([]Fact, len(c.Facts))
	copy(facts, c.Facts)
	c.Facts = facts
	return c
}

// SkipReason says why a save request produced no remote write.
type SkipReason string

const (
	SkipNone              SkipReason = ""
	SkipNotPersistWorthy  SkipReason = "validation"
	SkipStoreUnavailable  SkipReason = "store-unavailable"
	SkipIdentityAmbiguous SkipReason = "identity-ambiguous"
)

// SaveResult is what a saver reports back after handling one card.
type SaveResult struct {
	PersistedID string
	PersonID    string
	Skipped     SkipReason
}

// Mutation is a pure update applied to a copy of one card. Mutations never
// touch the list; the list owns invariant recomputation. Asynchronous save
// completions are expressed as mutations too, so every state change flows
// through the same entry point.
type Mutation func(Card) Card

// SetName records a name edit and marks the card dirty.
func SetName(name string) Mutation {
	return func(c Card) Card {
		c.Name = name
		c.SaveState = SaveStateDirty
		return c
	}
}

// SetMemo records a memo edit and marks the card dirty.
func SetMemo(memo string) Mutation {
	return func(c Card) Card {
		c.Memo = memo
		c.SaveState = SaveStateDirty
		return c
	}
}

// SetPlace records a place edit and marks the card dirty.
func SetPlace(place string) Mutation {
	return func(c Card) Card {
		c.Place = place
		c.SaveState = SaveStateDirty
		return c
	}
}

// SetFact writes the fact at index, extending the sequence when index is
// one past the end (typing into the open slot). Out-of-range indexes leave
// the facts untouched.
func SetFact(index int, text string) Mutation {
	return func(c Card) Card {
		switch {
		case index >= 0 && index < len(c.Facts):
			c.Facts[index].Text = text
		case index == len(c.Facts):
			c.Facts = append(c.Facts, Fact{Text: text})
		default:
			return c
		}
		c.SaveState = SaveStateDirty
		return c
	}
}

// MarkSaving flags the card as having an in-flight write.
func MarkSaving() Mutation {
	return func(c Card) Card {
		c.SaveState = SaveStateSaving
		return c
	}
}

// MarkSaved records the persisted identifiers from a completed write. The
// status only upgrades from Saving so a late completion never masks an edit
// made while the write was in flight.
func MarkSaved(result SaveResult) Mutation {
	return func(c Card) Card {
		if result.PersistedID != "" {
			c.PersistedID = result.PersistedID
		}
		if result.PersonID != "" {
			c.PersonID = result.PersonID
		}
		if c.SaveState == SaveStateSaving {
			c.SaveState = SaveStateSaved
		}
		return c
	}
}

// MarkSaveFailed flags a failed write. Content is untouched so nothing the
// user typed is lost, and a later edit re-arms the save cycle.
func MarkSaveFailed() Mutation {
	return func(c Card) Card {
		if c.SaveState == SaveStateSaving {
			c.SaveState = SaveStateError
		}
		return c
	}
}

// MarkIdle resets the save status, used when a save request was skipped
// without attempting a write.
func MarkIdle() Mutation {
	return func(c Card) Card {
		if c.SaveState == SaveStateSaving {
			c.SaveState = SaveStateIdle
		}
		return c
	}
}
