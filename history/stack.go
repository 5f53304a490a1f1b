package history

import (
	"time"

	"github.com/oligo/textcore/doc"
	"github.com/oligo/textcore/internal/logging"
)

// DefaultMaxActionsPerTransaction caps how many actions a single transaction
// can absorb before a new one is opened.
const DefaultMaxActionsPerTransaction = 100

// Clock supplies the current time; injectable for tests.
type Clock func() time.Time

// Config bounds the stack. Zero values mean: default action cap, no cost cap,
// no idle timeout.
type Config struct {
	// MaxActionsPerTransaction closes a transaction once it holds more than
	// this many actions.
	MaxActionsPerTransaction int
	// MaxCost evicts the oldest transactions once the aggregate cost of the
	// undo history exceeds it. The newest transaction is always kept.
	MaxCost int
	// IdleTimeout closes the open transaction when this much time has passed
	// since the last recorded action, so a pause in typing starts a new undo
	// unit.
	IdleTimeout time.Duration
	// Now overrides the clock.
	Now Clock
}

// Stack records Insert and Remove actions against a document, grouping them
// into transactions that undo and redo as single units.
//
// Recording both applies the mutation and stores its inverse, so hosts route
// mutations through the stack instead of touching the document directly.
type Stack struct {
	doc      *doc.Document
	setCaret func(int)

	cfg Config
	now Clock

	undo []*Transaction
	redo []*Transaction
	// open is the transaction new actions append to; nil until the first
	// record after a boundary.
	open       *Transaction
	lastRecord time.Time
}

// NewStack builds a stack over d. setCaret is invoked with the caret position
// each applied or inverted action calls for; it may be nil.
func NewStack(d *doc.Document, setCaret func(int), cfg Config) *Stack {
	if cfg.MaxActionsPerTransaction <= 0 {
		cfg.MaxActionsPerTransaction = DefaultMaxActionsPerTransaction
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	if setCaret == nil {
		setCaret = func(int) {}
	}
	return &Stack{doc: d, setCaret: setCaret, cfg: cfg, now: now}
}

// RecordInsert applies an insert mutation and records it. caretBefore and
// caretAfter are restored by undo and redo respectively.
func (s *Stack) RecordInsert(text string, index int, style doc.Style, caretBefore, caretAfter int) {
	if text == "" {
		return
	}

	s.record(Action{
		Kind:        KindInsert,
		Text:        text,
		Index:       index,
		Style:       style,
		CaretBefore: caretBefore,
		CaretAfter:  caretAfter,
	})
}

// RecordRemove applies a remove mutation and records it, snapshotting the
// removed runs for undo. Empty ranges are a no-op.
func (s *Stack) RecordRemove(rng doc.Range, caretBefore, caretAfter int) {
	rng = s.doc.ClampRange(rng)
	if rng.Empty() {
		return
	}

	snapshots := s.doc.Snapshot(rng)
	s.record(Action{
		Kind:        KindRemove,
		Range:       rng,
		Snapshots:   snapshots,
		CaretBefore: caretBefore,
		CaretAfter:  caretAfter,
	})
}

func (s *Stack) record(a Action) {
	s.redo = s.redo[:0]

	now := s.now()
	if s.open != nil {
		if len(s.open.actions) > s.cfg.MaxActionsPerTransaction {
			s.open = nil
		} else if s.cfg.IdleTimeout > 0 && now.Sub(s.lastRecord) > s.cfg.IdleTimeout {
			s.open = nil
		}
	}
	if s.open == nil {
		s.open = &Transaction{}
		s.undo = append(s.undo, s.open)
	}

	a.apply(s.doc)
	s.setCaret(a.CaretAfter)

	s.open.actions = append(s.open.actions, a)
	s.lastRecord = now

	s.enforceCost()
}

// CommitTransaction closes the open transaction; the next recorded action
// starts a new undo unit. Hosts call this when a logical burst of input ends.
func (s *Stack) CommitTransaction() {
	s.open = nil
}

// Undo reverts the newest transaction, replaying its actions in reverse and
// restoring each action's pre-caret. It reports false when there is nothing
// to undo.
func (s *Stack) Undo() bool {
	if len(s.undo) == 0 {
		return false
	}
	s.open = nil

	tx := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]

	for i := len(tx.actions) - 1; i >= 0; i-- {
		a := &tx.actions[i]
		a.invert(s.doc)
		s.setCaret(a.CaretBefore)
	}

	s.redo = append(s.redo, tx)
	return true
}

// Redo reapplies the newest undone transaction, replaying its actions forward
// and restoring each action's post-caret. It reports false when there is
// nothing to redo.
func (s *Stack) Redo() bool {
	if len(s.redo) == 0 {
		return false
	}
	s.open = nil

	tx := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]

	for i := range tx.actions {
		a := &tx.actions[i]
		a.apply(s.doc)
		s.setCaret(a.CaretAfter)
	}

	s.undo = append(s.undo, tx)
	return true
}

func (s *Stack) CanUndo() bool { return len(s.undo) > 0 }
func (s *Stack) CanRedo() bool { return len(s.redo) > 0 }

// Clear drops all recorded history.
func (s *Stack) Clear() {
	s.undo = nil
	s.redo = nil
	s.open = nil
}

// enforceCost evicts the oldest transactions while the history exceeds the
// configured cost cap.
func (s *Stack) enforceCost() {
	if s.cfg.MaxCost <= 0 {
		return
	}

	total := 0
	for _, tx := range s.undo {
		total += tx.cost()
	}

	evicted := 0
	for total > s.cfg.MaxCost && len(s.undo) > 1 {
		total -= s.undo[0].cost()
		s.undo = s.undo[1:]
		evicted++
	}
	if evicted > 0 {
		logging.Group("history").Debug("evicted oldest transactions over cost cap",
			"evicted", evicted, "remaining", len(s.undo), "cost", total)
	}
}
