// Package layout computes word-wrapped line geometry for a styled document.
//
// The Iterator is forward-only: it walks the document's atoms once, yielding
// the placement (line, x offset, width) of each in turn. It cannot seek
// backward; every query that needs an earlier position must construct a fresh
// Iterator over the same document snapshot. Construction and full traversal
// cost is proportional to the number of atoms.
package layout

import (
	"math"
	"unicode/utf8"

	"github.com/oligo/textcore/doc"
	"golang.org/x/image/math/fixed"
)

// Unbounded disables word wrapping when used as Params.WrapWidth.
const Unbounded = fixed.Int26_6(math.MaxInt32)

// Alignment is the horizontal justification policy applied per line.
type Alignment uint8

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// VAlignment positions content vertically when it is shorter than the
// viewport.
type VAlignment uint8

const (
	AlignTop VAlignment = iota
	AlignMiddle
	AlignBottom
)

// Params configures a layout traversal.
type Params struct {
	// WrapWidth is the maximum horizontal extent before a line break is
	// forced. Unbounded disables wrapping.
	WrapWidth fixed.Int26_6
	// ViewportWidth and ViewportHeight size the area used for justification
	// and vertical centering. They do not constrain the text.
	ViewportWidth  fixed.Int26_6
	ViewportHeight fixed.Int26_6
	Alignment      Alignment
	VAlign         VAlignment
	// LineSpacing multiplies every line advance. Values below 1 are treated
	// as 1.
	LineSpacing float32
	// DefaultStyle supplies line metrics for an empty document.
	DefaultStyle doc.Style
}

// piece is the unit the iterator places: either a view of a document atom or
// the current chunk of an oversized atom being broken across lines.
type piece struct {
	text  string
	runes int
	width fixed.Int26_6
	ws    bool
	nl    bool
}

func pieceOf(a *doc.Atom) piece {
	return piece{
		text:  a.Text(),
		runes: a.Runes(),
		width: a.Width(),
		ws:    a.IsWhitespace(),
		nl:    a.IsNewline(),
	}
}

// Iterator yields the placement of each atom of a document in turn.
//
// After a true return from Next, IndexInText, LineY, LineHeight, AtomX and
// AtomRight describe the placement of the current atom.
type Iterator struct {
	// IndexInText is the rune offset of the current atom.
	IndexInText int
	// LineY is the top of the current line; LineHeight and MaxDescent are the
	// line's metrics, maxed over every run contributing to it.
	LineY      fixed.Int26_6
	LineHeight fixed.Int26_6
	MaxDescent fixed.Int26_6
	// AtomX and AtomRight are the current atom's horizontal extent.
	AtomX     fixed.Int26_6
	AtomRight fixed.Int26_6

	runs    []*doc.StyledRun
	m       doc.Metrics
	mask    rune
	params  Params
	spacing float32
	docLen  int

	atom         *piece
	current      *doc.StyledRun
	currentStyle doc.Style
	sectionIndex int
	atomIndex    int

	// chunking state for an atom wider than the wrap width.
	long     piece
	chunking bool
	done     bool
}

// NewIterator constructs a traversal over a snapshot of d. The document must
// not be mutated while the iterator is live.
func NewIterator(d *doc.Document, params Params) *Iterator {
	spacing := params.LineSpacing
	if spacing < 1 {
		spacing = 1
	}
	if params.WrapWidth <= 0 {
		params.WrapWidth = Unbounded
	}

	it := &Iterator{
		runs:         d.Runs(),
		m:            d.Metrics(),
		mask:         d.Mask(),
		params:       params,
		spacing:      spacing,
		docLen:       d.Len(),
		currentStyle: params.DefaultStyle,
	}

	if len(it.runs) > 0 {
		it.current = it.runs[0]
		it.currentStyle = it.current.Style()
		it.beginNewLine()
	} else {
		it.LineHeight = it.m.LineHeight(params.DefaultStyle)
		it.MaxDescent = it.m.Descent(params.DefaultStyle)
		it.AtomX = it.justificationOffsetX(0)
	}

	return it
}

// Next advances to the next atom placement. It returns false once every atom
// has been placed; the iterator then rests at the end of the last atom.
func (it *Iterator) Next() bool {
	if it.chunking && it.chunkNext(true) {
		return true
	}

	if it.sectionIndex >= len(it.runs) || it.done {
		it.moveToEndOfLastAtom()
		return false
	}

	forceNewLine := false

	if it.atomIndex >= it.current.NumAtoms()-1 {
		if it.atomIndex >= it.current.NumAtoms() {
			it.sectionIndex++
			if it.sectionIndex >= len(it.runs) {
				it.moveToEndOfLastAtom()
				return false
			}
			it.atomIndex = 0
			it.current = it.runs[it.sectionIndex]
			it.currentStyle = it.current.Style()
		} else if last := it.current.Atom(it.atomIndex); !last.IsWhitespace() {
			// The last atom of this run may be part of the same word as the
			// leading atoms of the following runs. Decide up front whether
			// the combined word overflows the line.
			right := it.AtomRight + last.Width()
			lineHeight := it.LineHeight
			maxDescent := it.MaxDescent

			for s := it.sectionIndex + 1; s < len(it.runs); s++ {
				sec := it.runs[s]
				if sec.NumAtoms() == 0 {
					break
				}
				next := sec.Atom(0)
				if next.IsWhitespace() {
					break
				}
				right += next.Width()

				lineHeight = max(lineHeight, it.m.LineHeight(sec.Style()))
				maxDescent = max(maxDescent, it.m.Descent(sec.Style()))

				if it.shouldWrap(right) {
					it.LineHeight = lineHeight
					it.MaxDescent = maxDescent
					forceNewLine = true
					break
				}

				if sec.NumAtoms() > 1 {
					break
				}
			}
		}
	}

	isInPreviousAtom := false

	if it.atom != nil {
		it.AtomX = it.AtomRight
		it.IndexInText += it.atom.runes

		if it.atom.nl {
			it.beginNewLine()
		} else {
			isInPreviousAtom = true
		}
	}

	a := it.current.Atom(it.atomIndex)
	next := pieceOf(a)
	it.atom = &next
	it.AtomRight = it.AtomX + next.width
	it.atomIndex++

	if it.shouldWrap(it.AtomRight) || forceNewLine {
		if next.ws {
			// Leave trailing whitespace on the line but clamp its visible
			// right edge so it can't push the scrollable extent out.
			it.AtomRight = min(it.AtomRight, it.params.WrapWidth)
		} else if it.shouldWrap(next.width) {
			// The atom alone is wider than a line; emit it in glyph chunks.
			it.long = next
			it.long.runes = 0
			it.atom = &it.long
			it.chunking = true
			it.chunkNext(isInPreviousAtom)
		} else {
			it.beginNewLine()
			it.AtomRight = it.AtomX + next.width
		}
	}

	return true
}

// beginNewLine advances LineY and, without consuming anything, scans ahead to
// the next wrap point to find the upcoming line's width for justification and
// its height and descent.
func (it *Iterator) beginNewLine() {
	it.LineY += it.lineAdvance()
	lineWidth := fixed.Int26_6(0)

	tsi, tai := it.sectionIndex, it.atomIndex
	if tsi >= len(it.runs) {
		it.AtomX = it.justificationOffsetX(0)
		return
	}
	sec := it.runs[tsi]

	it.LineHeight = it.m.LineHeight(sec.Style())
	it.MaxDescent = it.m.Descent(sec.Style())

	nextLineWidth := fixed.Int26_6(0)
	if it.atom != nil {
		nextLineWidth = it.atom.width
	}

	for !it.shouldWrap(nextLineWidth) {
		lineWidth = nextLineWidth

		if tsi >= len(it.runs) {
			break
		}

		checkSize := false
		if tai >= sec.NumAtoms() {
			tsi++
			if tsi >= len(it.runs) {
				break
			}
			tai = 0
			sec = it.runs[tsi]
			checkSize = true
		}

		if tai < 0 || tai >= sec.NumAtoms() {
			break
		}

		next := sec.Atom(tai)
		nextLineWidth += next.Width()

		if it.shouldWrap(nextLineWidth) || next.IsNewline() {
			break
		}

		if checkSize {
			it.LineHeight = max(it.LineHeight, it.m.LineHeight(sec.Style()))
			it.MaxDescent = max(it.MaxDescent, it.m.Descent(sec.Style()))
		}

		tai++
	}

	it.AtomX = it.justificationOffsetX(lineWidth)
}

func (it *Iterator) justificationOffsetX(lineWidth fixed.Int26_6) fixed.Int26_6 {
	switch it.params.Alignment {
	case AlignCenter:
		return max(0, (it.params.ViewportWidth-lineWidth)/2)
	case AlignRight:
		return max(0, it.params.ViewportWidth-lineWidth)
	default:
		return 0
	}
}

// chunkNext emits the next glyph-level chunk of an oversized atom. Each chunk
// is as many whole glyphs as fit in the wrap width, at least one, and each
// occupies its own line. Returns false once the atom is consumed.
func (it *Iterator) chunkNext(startNewLine bool) bool {
	remaining := len([]rune(it.long.text)) - it.long.runes
	if remaining <= 0 {
		it.chunking = false
		return false
	}

	_, rest := splitRunes(it.long.text, it.long.runes)
	it.long.text = rest
	it.IndexInText += it.long.runes

	spans := glyphSpans(it.m, it.currentStyle, it.long.text, it.mask)

	cut := 0
	for cut < len(spans) && !it.shouldWrap(spans[cut].right) {
		cut++
	}
	if cut == 0 {
		cut = 1
	}

	it.long.runes = spans[cut-1].runes
	it.long.width = spans[cut-1].right

	it.AtomX = it.justificationOffsetX(it.long.width)

	if startNewLine {
		if it.long.runes == remaining {
			it.beginNewLine()
		} else {
			it.LineY += it.lineAdvance()
		}
	}

	it.AtomRight = it.AtomX + it.long.width
	return true
}

func (it *Iterator) moveToEndOfLastAtom() {
	if it.done {
		return
	}
	it.done = true

	if it.atom != nil {
		it.AtomX = it.AtomRight

		if it.atom.nl {
			it.AtomX = it.justificationOffsetX(0)
			it.LineY += it.lineAdvance()
		}
	}
}

func (it *Iterator) lineAdvance() fixed.Int26_6 {
	if it.spacing == 1 {
		return it.LineHeight
	}
	return fixed.Int26_6(float32(it.LineHeight) * it.spacing)
}

func (it *Iterator) shouldWrap(x fixed.Int26_6) bool {
	if it.params.WrapWidth == Unbounded {
		return false
	}
	return x >= it.params.WrapWidth
}

// Atom reports the current atom's text, rune count and whitespace/newline
// classification. In chunking mode it describes the current chunk.
func (it *Iterator) Atom() (text string, runes int, whitespace, newline bool) {
	if it.atom == nil {
		return "", 0, false, false
	}
	if it.chunking || it.atom == &it.long {
		left, _ := splitRunes(it.long.text, it.long.runes)
		return left, it.long.runes, false, false
	}
	return it.atom.text, it.atom.runes, it.atom.ws, it.atom.nl
}

// splitRunes cuts s at a rune offset.
func splitRunes(s string, runes int) (left, right string) {
	off := 0
	for i := 0; i < runes && off < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[off:])
		off += size
	}
	return s[:off], s[off:]
}
