package journal

import (
	"strings"
	"sync"
)

// List owns the ordered cards of one editing surface. It is the single
// writer: user edits and asynchronous save completions all funnel through
// Apply or RemoveFact, so invariant recomputation can never interleave with
// another mutation. Every returned card is a deep copy.
//
// Invariant: the list always ends with exactly one blank card (the open
// slot) and contains no blank interior cards. Each card's fact sequence
// always ends with exactly one blank fact and contains no blank interior
// facts.
type List struct {
	mu    sync.Mutex
	cards []Card
}

// NewList returns a list holding the single open slot.
func NewList() *List {
	return &List{cards: []Card{NewCard()}}
}

// Apply runs a pure mutation against the card identified by key, re-derives
// the card's fact-slot invariant and the list-level trailing-blank-slot
// invariant, and returns the post-recomputation snapshot. ok is false when
// the key is unknown or when the mutation blanked the card out and the
// recomputation dropped it.
func (l *List) Apply(key string, m Mutation) (Card, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(key)
	if i < 0 {
		return Card{}, false
	}
	mutated := m(l.cards[i].clone())
	// A mutation can change content, never identity.
	mutated.ClientKey = l.cards[i].ClientKey
	l.cards[i] = compactFactSlots(mutated)
	l.recompute()

	return l.get(key)
}

// RemoveFact drops the fact at index when the sequence has more than one
// entry; otherwise it resets the card to the single blank slot. The fact
// sequence is never empty.
func (l *List) RemoveFact(key string, index int) (Card, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(key)
	if i < 0 {
		return Card{}, false
	}
	card := l.cards[i].clone()
	switch {
	case index < 0 || index >= len(card.Facts):
		// out of range, nothing to remove
	case len(card.Facts) > 1:
		card.Facts = append(card.Facts[:index], card.Facts[index+1:]...)
		card.SaveState = SaveStateDirty
	default:
		card.Facts = []Fact{{}}
		card.SaveState = SaveStateDirty
	}
	l.cards[i] = compactFactSlots(card)
	l.recompute()

	return l.get(key)
}

// Get returns a snapshot of the card identified by key.
func (l *List) Get(key string) (Card, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.get(key)
}

// Snapshot returns a deep copy of the whole list in order.
func (l *List) Snapshot() []Card {
	l.mu.Lock()
	defer l.mu.Unlock()
	cards := make([]Card, len(l.cards))
	for i, card := range l.cards {
		cards[i] = card.clone()
	}
	return cards
}

// Len returns the number of cards, the open slot included.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.cards)
}

// OpenSlotKey returns the client key of the trailing blank card, the next
// slot an editing surface should focus.
func (l *List) OpenSlotKey() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cards[len(l.cards)-1].ClientKey
}

func (l *List) get(key string) (Card, bool) {
	i := l.indexOf(key)
	if i < 0 {
		return Card{}, false
	}
	return l.cards[i].clone(), true
}

func (l *List) indexOf(key string) int {
	for i, card := range l.cards {
		if card.ClientKey == key {
			return i
		}
	}
	return -1
}

// recompute re-derives the list-level invariant: drop every blank card
// except a trailing one, then make sure the list ends with one blank card.
func (l *List) recompute() {
	kept := make([]Card, 0, len(l.cards)+1)
	last := len(l.cards) - 1
	for i, card := range l.cards {
		if card.Blank() && i != last {
			continue
		}
		kept = append(kept, card)
	}
	if len(kept) == 0 || !kept[len(kept)-1].Blank() {
		kept = append(kept, NewCard())
	}
	l.cards = kept
}

// compactFactSlots drops blank interior facts and guarantees the sequence
// ends with exactly one blank slot.
func compactFactSlots(c Card) Card {
	facts := make([]Fact, 0, len(c.Facts)+1)
	for _, fact := range c.Facts {
		if strings.TrimSpace(fact.Text) == "" {
			continue
		}
		facts = append(facts, fact)
	}
	facts = append(facts, Fact{})
	c.Facts = facts
	return c
}
