package layout

import (
	"strings"

	"github.com/oligo/textcore/doc"
	"github.com/rivo/uniseg"
	"golang.org/x/image/math/fixed"
)

// glyphSpan is the extent of one display glyph (grapheme cluster) of an atom.
type glyphSpan struct {
	// runes is the cumulative source-rune count up to and including this glyph.
	runes int
	// right is the cumulative advance at the glyph's right edge.
	right fixed.Int26_6
}

// glyphSpans measures the per-glyph extents of an atom's text. Glyphs are
// grapheme clusters of the display text; extents come from prefix widths so
// the sum always matches the atom's measured width. With a mask set, every
// source rune maps to exactly one display glyph.
func glyphSpans(m doc.Metrics, style doc.Style, text string, mask rune) []glyphSpan {
	if mask == 0 {
		return graphemeSpans(m, style, text)
	}

	masked := string(mask)
	total := len([]rune(text))
	spans := make([]glyphSpan, 0, total)
	for i := 1; i <= total; i++ {
		spans = append(spans, glyphSpan{
			runes: i,
			right: m.StringWidth(style, strings.Repeat(masked, i)),
		})
	}
	return spans
}

func graphemeSpans(m doc.Metrics, style doc.Style, text string) []glyphSpan {
	var spans []glyphSpan
	state := -1
	rest := text
	byteOff := 0
	runes := 0
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		byteOff += len(cluster)
		runes += len([]rune(cluster))
		spans = append(spans, glyphSpan{
			runes: runes,
			right: m.StringWidth(style, text[:byteOff]),
		})
	}
	return spans
}
