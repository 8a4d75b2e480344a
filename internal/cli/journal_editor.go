// Package cli holds the interactive editing surface of the journal.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/at-ishikawa/kizuna/internal/autosave"
	"github.com/at-ishikawa/kizuna/internal/journal"
)

// errEnd signals a normal end of the editing session.
var errEnd = errors.New("session ended")

// quitWord ends the session when typed at the name prompt.
const quitWord = "quit"

// SaveStatusBoard records each card's terminal save state as scheduled
// writes settle. CardSettled is wired as the scheduler's settle hook, so
// the status line reports what actually landed rather than whatever the
// list holds at read time.
type SaveStatusBoard struct {
	mu    sync.Mutex
	cards map[string]journal.Card
}

// NewSaveStatusBoard creates an empty board.
func NewSaveStatusBoard() *SaveStatusBoard {
	return &SaveStatusBoard{cards: map[string]journal.Card{}}
}

// CardSettled records a card's post-save snapshot. Safe from the
// scheduler's timer goroutines.
func (b *SaveStatusBoard) CardSettled(key string, card journal.Card) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cards[key] = card
}

// Last returns the most recent settled snapshot for a card, if any save
// has settled for it.
func (b *SaveStatusBoard) Last(key string) (journal.Card, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	card, ok := b.cards[key]
	return card, ok
}

// JournalEditor is a line-oriented editing surface over the card list.
// Every entered value flows through the list's single entry point and
// re-arms the autosave scheduler; moving off a field flushes it. There is
// no save command.
type JournalEditor struct {
	list         *journal.List
	scheduler    *autosave.Scheduler
	board        *SaveStatusBoard
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	faint        *color.Color
}

// NewJournalEditor creates an editor over the given streams. board must be
// the same one wired into the scheduler's settle hook. Pass os.Stdin and
// os.Stdout outside of tests.
func NewJournalEditor(list *journal.List, scheduler *autosave.Scheduler, board *SaveStatusBoard, stdin io.Reader, stdout io.Writer) *JournalEditor {
	return &JournalEditor{
		list:         list,
		scheduler:    scheduler,
		board:        board,
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
		bold:         color.New(color.Bold),
		faint:        color.New(color.Faint),
	}
}

// Run edits cards until the user quits or the context is cancelled. On a
// normal end the last card's pending write is drained so it lands before
// returning.
func (e *JournalEditor) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	errCh := make(chan error)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := e.session(ctx); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		fmt.Fprintln(e.stdoutWriter, "Received interrupt signal, exiting...")
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}

	e.scheduler.Drain()
	return nil
}

// session edits the open slot: one card, field by field.
func (e *JournalEditor) session(ctx context.Context) error {
	key := e.list.OpenSlotKey()

	e.bold.Fprintf(e.stdoutWriter, "New encounter")
	e.faint.Fprintf(e.stdoutWriter, "  (type %q to finish)\n", quitWord)

	name, err := e.readLine("Name: ")
	if err != nil {
		return err
	}
	if name == quitWord {
		return errEnd
	}
	e.submit(key, journal.SetName(name))

	memo, err := e.readLine("Memo: ")
	if err != nil {
		return err
	}
	e.submit(key, journal.SetMemo(memo))

	place, err := e.readLine("Place: ")
	if err != nil {
		return err
	}
	e.submit(key, journal.SetPlace(place))

	for i := 0; ; i++ {
		fact, err := e.readLine(fmt.Sprintf("Fact %d (blank to finish): ", i+1))
		if err != nil {
			return err
		}
		if strings.TrimSpace(fact) == "" {
			break
		}
		e.submit(key, journal.SetFact(i, fact))
	}

	// Let the flushed write settle so the status line is truthful.
	e.scheduler.Drain()
	card, ok := e.list.Get(key)
	if !ok {
		// The card blanked out and the list dropped it.
		fmt.Fprintln(e.stdoutWriter, "  - discarded empty card")
		return nil
	}
	if settled, ok := e.board.Last(key); ok {
		card = settled
	}
	fmt.Fprintf(e.stdoutWriter, "  - %s\n\n", statusLabel(card.SaveState))
	return nil
}

// submit routes one entered value through the list and re-arms autosave.
// Line input means entering a value and leaving the field are the same
// event, so the field-exit flush applies.
func (e *JournalEditor) submit(key string, m journal.Mutation) {
	e.list.Apply(key, m)
	e.scheduler.Flush(key)
}

func (e *JournalEditor) readLine(prompt string) (string, error) {
	e.bold.Fprint(e.stdoutWriter, prompt)
	line, err := e.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", errEnd
		}
		return "", fmt.Errorf("stdinReader.ReadString() > %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// statusLabel is the per-card save indicator.
func statusLabel(state journal.SaveState) string {
	switch state {
	case journal.SaveStateSaving:
		return "saving..."
	case journal.SaveStateSaved:
		return "saved"
	case journal.SaveStateError:
		return "check connection, draft kept locally"
	default:
		return "nothing to save yet"
	}
}
