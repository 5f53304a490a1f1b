// Package history records document edits as invertible actions grouped into
// transactions, giving the editor time- and size-bounded undo/redo.
package history

import (
	"unicode/utf8"

	"github.com/oligo/textcore/doc"
)

// Kind tags the two action variants.
type Kind uint8

const (
	KindInsert Kind = iota
	KindRemove
)

// actionOverhead is the fixed bookkeeping cost charged per action on top of
// its text length.
const actionOverhead = 16

// Action is one recorded edit. Insert actions carry the inserted text and
// style; Remove actions carry deep-copied snapshots of every run that was
// fully contained in the removed range. Boundary runs are split before the
// snapshot is taken, so partial runs never appear in it and their remainders
// are untouched by the removal.
type Action struct {
	Kind Kind

	// Insert fields.
	Text  string
	Index int
	Style doc.Style

	// Remove fields.
	Range     doc.Range
	Snapshots []*doc.StyledRun

	CaretBefore int
	CaretAfter  int
}

// Cost reports the action's memory accounting weight.
func (a *Action) Cost() int {
	if a.Kind == KindInsert {
		return utf8.RuneCountInString(a.Text) + actionOverhead
	}

	n := actionOverhead
	for _, s := range a.Snapshots {
		n += s.Length()
	}
	return n
}

// apply performs the action's forward effect.
func (a *Action) apply(d *doc.Document) {
	switch a.Kind {
	case KindInsert:
		d.Insert(a.Text, a.Index, a.Style)
	case KindRemove:
		d.Remove(a.Range)
	}
}

// invert performs the action's inverse effect.
func (a *Action) invert(d *doc.Document) {
	switch a.Kind {
	case KindInsert:
		d.Remove(doc.Range{Start: a.Index, End: a.Index + utf8.RuneCountInString(a.Text)})
	case KindRemove:
		d.Reinsert(a.Range.Start, a.Snapshots)
	}
}

// Transaction is an ordered group of actions undone and redone as one unit.
type Transaction struct {
	actions []Action
}

func (t *Transaction) cost() int {
	n := 0
	for i := range t.actions {
		n += t.actions[i].Cost()
	}
	return n
}
