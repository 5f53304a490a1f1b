// Package textcore implements the model side of a rich text editor: a styled
// document, a wrapping layout pass over it, and a transactional undo history.
// It holds no rendering or input handling; hosts drive it through the Editor
// and draw from the layout queries.
package textcore

import (
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/math/fixed"

	"github.com/oligo/textcore/decoration"
	"github.com/oligo/textcore/doc"
	"github.com/oligo/textcore/history"
	"github.com/oligo/textcore/internal/logging"
	"github.com/oligo/textcore/layout"
)

// ErrReadOnly is returned by mutating calls on a read-only editor.
var ErrReadOnly = errors.New("textcore: editor is read-only")

// Editor ties the document, layout and undo history together behind a single
// host-facing API. It is not safe for concurrent use.
type Editor struct {
	doc     *doc.Document
	history *history.Stack
	decos   *decoration.Tree

	params   layout.Params
	readOnly bool
	undoCfg  history.Config

	// caret and anchor are rune offsets; the selection is the range between
	// them, empty when they coincide.
	caret  int
	anchor int

	subs []*Subscription
}

func NewEditor(m Metrics, opts ...Option) *Editor {
	e := &Editor{
		doc:   doc.New(m),
		decos: decoration.NewTree(),
		params: layout.Params{
			WrapWidth:   layout.Unbounded,
			LineSpacing: 1,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.history = history.NewStack(e.doc, e.moveCaret, e.undoCfg)

	return e
}

// Insert adds text at the given rune offset using the default style.
func (e *Editor) Insert(text string, index int) error {
	return e.InsertStyled(text, index, e.params.DefaultStyle)
}

// InsertStyled adds text at the given rune offset with an explicit style.
// The index is clamped to the document and the edit is recorded for undo.
func (e *Editor) InsertStyled(text string, index int, style Style) error {
	if e.readOnly {
		return ErrReadOnly
	}
	if text == "" {
		return nil
	}

	// Normalize CRLF up front so the recorded text length matches what the
	// document gains and undo removes the exact inserted range.
	text = strings.ReplaceAll(text, "\r\n", "\n")
	index = e.clampIndex(index)
	end := index + utf8.RuneCountInString(text)
	e.history.RecordInsert(text, index, style, e.caret, end)
	e.notify(Range{Start: index, End: end})
	return nil
}

// Remove deletes the given rune range. Out-of-bounds ranges are clamped and
// empty ranges are a no-op.
func (e *Editor) Remove(rng Range) error {
	if e.readOnly {
		return ErrReadOnly
	}

	rng = e.doc.ClampRange(rng)
	if rng.Empty() {
		return nil
	}

	e.history.RecordRemove(rng, e.caret, rng.Start)
	e.notify(rng)
	return nil
}

// SetText replaces the whole document and drops the undo history.
func (e *Editor) SetText(text string) error {
	if e.readOnly {
		return ErrReadOnly
	}

	e.doc.Remove(doc.Range{Start: 0, End: e.doc.Len()})
	e.doc.Insert(text, 0, e.params.DefaultStyle)
	e.history.Clear()
	e.moveCaret(e.doc.Len())
	e.notify(Range{Start: 0, End: e.doc.Len()})
	return nil
}

// Undo reverts the newest transaction, reporting whether anything changed.
func (e *Editor) Undo() bool {
	if !e.history.Undo() {
		return false
	}
	// A replayed transaction can touch the whole document.
	e.notify(Range{Start: 0, End: e.doc.Len()})
	return true
}

// Redo reapplies the newest undone transaction, reporting whether anything
// changed.
func (e *Editor) Redo() bool {
	if !e.history.Redo() {
		return false
	}
	e.notify(Range{Start: 0, End: e.doc.Len()})
	return true
}

func (e *Editor) CanUndo() bool { return e.history.CanUndo() }
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// CommitTransaction closes the open undo transaction so the next edit starts
// a new undo unit. Hosts call it when a logical burst of input ends.
func (e *Editor) CommitTransaction() {
	e.history.CommitTransaction()
}

func (e *Editor) Text() string { return e.doc.Text() }

func (e *Editor) TextRange(rng Range) string { return e.doc.TextRange(rng) }

// Len returns the document length in runes.
func (e *Editor) Len() int { return e.doc.Len() }

// SetMask switches the display mask at runtime; zero removes it.
func (e *Editor) SetMask(mask rune) { e.doc.SetMask(mask) }

// SetCaret places the caret and the selection anchor. Equal values collapse
// the selection.
func (e *Editor) SetCaret(caret, anchor int) {
	e.caret = e.clampIndex(caret)
	e.anchor = e.clampIndex(anchor)
}

// Selection returns the selected range and the caret position.
func (e *Editor) Selection() (Range, int) {
	rng := Range{Start: e.anchor, End: e.caret}.Normalize()
	return rng, e.caret
}

// CharPosition returns the top-left corner and line height of the character
// at the given rune offset.
func (e *Editor) CharPosition(index int) (x, y, lineHeight fixed.Int26_6) {
	return e.iter().CharPosition(index)
}

// IndexAt returns the rune offset of the character at the given point.
func (e *Editor) IndexAt(x, y fixed.Int26_6) int {
	return e.iter().IndexAt(x, y)
}

// TextBounds returns the rectangles covering the given rune range, one or
// more per line.
func (e *Editor) TextBounds(rng Range) []layout.Rect {
	return e.iter().TextBounds(e.doc.ClampRange(rng))
}

// TotalTextHeight returns the height of the laid-out text.
func (e *Editor) TotalTextHeight() fixed.Int26_6 {
	return e.iter().TotalHeight()
}

// TextRightExtent returns the right edge of the widest laid-out line.
func (e *Editor) TextRightExtent() fixed.Int26_6 {
	return e.iter().RightExtent()
}

// AddDecorations stores host-supplied decorated ranges, keyed by source.
func (e *Editor) AddDecorations(decos ...decoration.Decoration) {
	e.decos.Insert(decos...)
}

// ClearDecorations removes every decoration added under source.
func (e *Editor) ClearDecorations(source string) error {
	return e.decos.RemoveBySource(source)
}

// Decorations returns the decorations overlapping the given rune range.
func (e *Editor) Decorations(rng Range) []decoration.Decoration {
	rng = rng.Normalize()
	return e.decos.QueryRange(rng.Start, rng.End)
}

func (e *Editor) iter() *layout.Iterator {
	return layout.NewIterator(e.doc, e.params)
}

func (e *Editor) clampIndex(index int) int {
	return e.doc.ClampRange(doc.Range{Start: index, End: index}).Start
}

// moveCaret is handed to the history stack so undo and redo restore the
// caret recorded with each action.
func (e *Editor) moveCaret(pos int) {
	e.caret = pos
	e.anchor = pos
}

// SetLogger routes the module's internal logging to l.
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}
