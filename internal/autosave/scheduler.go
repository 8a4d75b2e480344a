// Package autosave owns the debounced persistence cycle: one pending timer
// per card, re-armed on every edit, fired against the card's current state.
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/at-ishikawa/kizuna/internal/journal"
)

// Default quiet periods. The debounce delay is how long after the last edit
// a write is attempted; the flush delay is the near-zero window used on
// field-exit.
const (
	DefaultDelay      = 1500 * time.Millisecond
	DefaultFlushDelay = 10 * time.Millisecond
)

// Saver persists one card's current state. Implemented by resolve.Resolver.
type Saver interface {
	SaveCard(ctx context.Context, card journal.Card) (journal.SaveResult, error)
}

// Config tunes a scheduler.
type Config struct {
	// Delay is the debounce window. Zero means DefaultDelay.
	Delay time.Duration
	// FlushDelay is the near-zero window used by Flush. Zero means
	// DefaultFlushDelay.
	FlushDelay time.Duration
	// OnSettled, when set, runs after a fired save reaches its terminal
	// state, with the card's post-completion snapshot.
	OnSettled func(key string, card journal.Card)
}

// Scheduler coalesces rapid edits into infrequent writes. It keeps at most
// one pending trigger per key: re-arming cancels the previous timer. It does
// not serialize the writes themselves; an older call can still be in flight
// when a newer timer fires, and the resolver's merge-by-day semantics keep
// that safe. All status updates flow back through the list's own entry
// point.
type Scheduler struct {
	ctx        context.Context
	list       *journal.List
	saver      Saver
	delay      time.Duration
	flushDelay time.Duration
	onSettled  func(key string, card journal.Card)

	mu       sync.Mutex
	pending  map[string]*pendingTrigger
	closed   bool
	inFlight sync.WaitGroup
}

type pendingTrigger struct {
	timer *time.Timer
}

// New creates a scheduler bound to one editing surface. ctx bounds the
// lifetime of the saves the scheduler starts; it is not consulted by the
// timers themselves.
func New(ctx context.Context, list *journal.List, saver Saver, cfg Config) *Scheduler {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.FlushDelay <= 0 {
		cfg.FlushDelay = DefaultFlushDelay
	}
	return &Scheduler{
		ctx:        ctx,
		list:       list,
		saver:      saver,
		delay:      cfg.Delay,
		flushDelay: cfg.FlushDelay,
		onSettled:  cfg.OnSettled,
		pending:    map[string]*pendingTrigger{},
	}
}

// Schedule (re-)arms the debounce timer for one card. The previous timer for
// that key, if any, is cancelled first. When the card's current state is not
// worth persisting the key ends up with no pending trigger at all: a
// cleared-out card must not write.
func (s *Scheduler) Schedule(key string) {
	s.schedule(key, s.delay)
}

// Flush arms the near-zero timer for one card, used on field-exit.
func (s *Scheduler) Flush(key string) {
	s.schedule(key, s.flushDelay)
}

// Pending reports whether a trigger is armed for the key.
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[key]
	return ok
}

// CancelAll stops every pending timer and closes the scheduler. Mandatory
// when the editing surface is disposed. Saves already in flight run to
// completion; further Schedule calls are no-ops.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for key, trigger := range s.pending {
		trigger.timer.Stop()
		delete(s.pending, key)
	}
}

// Drain blocks until every pending trigger has fired and every started save
// has settled. Called on normal session end, before CancelAll, so the last
// write lands.
func (s *Scheduler) Drain() {
	for {
		s.mu.Lock()
		armed := len(s.pending)
		s.mu.Unlock()
		if armed == 0 {
			break
		}
		time.Sleep(s.flushDelay)
	}
	s.inFlight.Wait()
}

func (s *Scheduler) schedule(key string, delay time.Duration) {
	snapshot, ok := s.list.Get(key)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if existing, armed := s.pending[key]; armed {
		existing.timer.Stop()
		delete(s.pending, key)
	}
	if !ok || !snapshot.PersistWorthy() {
		return
	}
	trigger := &pendingTrigger{}
	trigger.timer = time.AfterFunc(delay, func() { s.fire(key, trigger) })
	s.pending[key] = trigger
}

// fire runs on the timer goroutine. It clears the trigger, re-reads the
// card's current state, and routes the save outcome back through the list.
func (s *Scheduler) fire(key string, armed *pendingTrigger) {
	s.mu.Lock()
	if s.closed || s.pending[key] != armed {
		// A newer trigger superseded this one between firing and locking.
		s.mu.Unlock()
		return
	}
	s.inFlight.Add(1)
	delete(s.pending, key)
	s.mu.Unlock()
	defer s.inFlight.Done()

	current, ok := s.list.Get(key)
	if !ok || !current.PersistWorthy() {
		return
	}
	current, ok = s.list.Apply(key, journal.MarkSaving())
	if !ok {
		return
	}

	result, err := s.saver.SaveCard(s.ctx, current)

	var settled journal.Card
	switch {
	case err != nil:
		// Keep the draft, surface the failure. The next edit re-arms the
		// cycle, so retry is implicit through continued editing.
		slog.Warn("card save failed, keeping local draft", "clientKey", key, "error", err)
		settled, ok = s.list.Apply(key, journal.MarkSaveFailed())
	case result.Skipped != journal.SkipNone:
		settled, ok = s.list.Apply(key, journal.MarkIdle())
	default:
		settled, ok = s.list.Apply(key, journal.MarkSaved(result))
	}
	if ok && s.onSettled != nil {
		s.onSettled(key, settled)
	}
}
