package textcore

import (
	"golang.org/x/image/math/fixed"

	"github.com/oligo/textcore/history"
	"github.com/oligo/textcore/layout"
)

// Option configures an editor at construction time.
type Option func(*Editor)

// WithWrapWidth sets the width lines wrap at. Zero or negative disables
// wrapping.
func WithWrapWidth(w fixed.Int26_6) Option {
	return func(e *Editor) {
		if w <= 0 {
			w = layout.Unbounded
		}
		e.params.WrapWidth = w
	}
}

// WithViewport sets the viewport size used for vertical justification.
func WithViewport(w, h fixed.Int26_6) Option {
	return func(e *Editor) {
		e.params.ViewportWidth = w
		e.params.ViewportHeight = h
	}
}

func WithAlignment(a layout.Alignment) Option {
	return func(e *Editor) {
		e.params.Alignment = a
	}
}

func WithVAlignment(a layout.VAlignment) Option {
	return func(e *Editor) {
		e.params.VAlign = a
	}
}

// WithLineSpacing scales the gap between baselines. Values below 1 are
// clamped to 1.
func WithLineSpacing(s float32) Option {
	return func(e *Editor) {
		if s < 1 {
			s = 1
		}
		e.params.LineSpacing = s
	}
}

// WithMask renders every character as mask, as a password field does.
// Editing and measurement still operate on the real text.
func WithMask(mask rune) Option {
	return func(e *Editor) {
		e.doc.SetMask(mask)
	}
}

func WithReadOnly(readOnly bool) Option {
	return func(e *Editor) {
		e.readOnly = readOnly
	}
}

// WithDefaultStyle sets the style applied by Insert and SetText, and the
// style empty documents are measured with.
func WithDefaultStyle(s Style) Option {
	return func(e *Editor) {
		e.params.DefaultStyle = s
	}
}

// WithUndoLimits bounds the undo history.
func WithUndoLimits(cfg history.Config) Option {
	return func(e *Editor) {
		e.undoCfg = cfg
	}
}
