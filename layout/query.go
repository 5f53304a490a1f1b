package layout

import (
	"cmp"

	"github.com/oligo/textcore/doc"
	"golang.org/x/exp/slices"
	"golang.org/x/image/math/fixed"
)

// Rect is a fixed-point rectangle in document coordinates.
type Rect struct {
	X, Y, W, H fixed.Int26_6
}

// Every query below drives the iterator to a target condition or to
// exhaustion and therefore consumes it; run at most one query per Iterator.

// CharPosition returns the visual anchor of the character at index: the x/y
// of its top-left corner and the height of its line.
func (it *Iterator) CharPosition(index int) (x, y, lineHeight fixed.Int26_6) {
	for it.Next() {
		if it.IndexInText+it.atom.runes > index {
			return it.indexToX(index), it.LineY, it.LineHeight
		}
	}
	return it.AtomX, it.LineY, it.LineHeight
}

// IndexAt returns the character index closest to the visual position (x, y).
func (it *Iterator) IndexAt(x, y fixed.Int26_6) int {
	for it.Next() {
		if y < it.LineY+it.LineHeight {
			if y < it.LineY {
				return max(0, it.IndexInText-1)
			}
			if x <= it.AtomX || it.atom.nl {
				return it.IndexInText
			}
			if x < it.AtomRight {
				return it.xToIndex(x)
			}
		}
	}
	return it.docLen
}

// TextBounds returns one rectangle per placed atom intersecting rng.
func (it *Iterator) TextBounds(rng doc.Range) []Rect {
	rng = rng.Normalize()
	var rects []Rect

	for it.Next() {
		atomRange := doc.Range{Start: it.IndexInText, End: it.IndexInText + it.atom.runes}
		if !rng.Intersects(atomRange) {
			continue
		}
		startX := it.indexToX(rng.Start)
		endX := it.indexToX(rng.End)
		rects = append(rects, Rect{
			X: startX,
			Y: it.LineY,
			W: endX - startX,
			H: it.lineAdvance(),
		})
	}
	return rects
}

// TotalHeight returns the height of the laid-out text, including the vertical
// alignment offset and the empty line a trailing newline opens.
func (it *Iterator) TotalHeight() fixed.Int26_6 {
	for it.Next() {
	}

	height := it.LineY + it.LineHeight + it.YOffset()
	if it.atom != nil && it.atom.nl {
		height += it.LineHeight
	}
	return height
}

// RightExtent returns the rightmost edge reached by any atom.
func (it *Iterator) RightExtent() fixed.Int26_6 {
	maxRight := fixed.Int26_6(0)
	for it.Next() {
		maxRight = max(maxRight, it.AtomRight)
	}
	return maxRight
}

// YOffset returns the vertical alignment offset applied when the content is
// shorter than the viewport.
func (it *Iterator) YOffset() fixed.Int26_6 {
	if it.params.VAlign == AlignTop || it.LineY >= it.params.ViewportHeight {
		return 0
	}

	for it.Next() {
		if it.LineY >= it.params.ViewportHeight {
			return 0
		}
	}

	bottom := max(0, it.params.ViewportHeight-it.LineY-it.LineHeight)
	if it.params.VAlign == AlignBottom {
		return bottom
	}
	return bottom / 2
}

// indexToX resolves a character index inside the current atom to an x
// coordinate using per-glyph extents.
func (it *Iterator) indexToX(index int) fixed.Int26_6 {
	if index <= it.IndexInText || it.atom == nil {
		return it.AtomX
	}
	if index >= it.IndexInText+it.atom.runes {
		return it.AtomRight
	}

	spans := glyphSpans(it.m, it.currentStyle, it.atom.text, it.mask)
	target := index - it.IndexInText

	// left edge of the glyph containing target = right edge of the last glyph
	// wholly before it.
	j, _ := slices.BinarySearchFunc(spans, target+1, func(sp glyphSpan, t int) int {
		return cmp.Compare(sp.runes, t)
	})
	if j >= len(spans) {
		return it.AtomRight
	}
	left := fixed.Int26_6(0)
	if j > 0 {
		left = spans[j-1].right
	}
	return min(it.AtomRight, it.AtomX+left)
}

// xToIndex resolves an x coordinate inside the current atom to a character
// index, choosing the first glyph whose midpoint exceeds x.
func (it *Iterator) xToIndex(x fixed.Int26_6) int {
	if it.atom == nil || x <= it.AtomX || it.atom.nl {
		return it.IndexInText
	}
	if x >= it.AtomRight {
		return it.IndexInText + it.atom.runes
	}

	spans := glyphSpans(it.m, it.currentStyle, it.atom.text, it.mask)
	consumed := 0
	prevRight := fixed.Int26_6(0)
	for _, sp := range spans {
		if it.AtomX+(prevRight+sp.right)/2 > x {
			break
		}
		consumed = sp.runes
		prevRight = sp.right
	}
	return it.IndexInText + consumed
}
