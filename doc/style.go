package doc

import (
	"image/color"

	"golang.org/x/image/math/fixed"
)

// Font identifies a typeface at a given size. The core never resolves it;
// it is only compared for equality and handed back to the Metrics provider.
type Font struct {
	Typeface string
	Size     int
}

// Style is the descriptor shared by every atom of a run. Two runs with equal
// styles are merged by coalescing.
type Style struct {
	Font  Font
	Color color.NRGBA
}

// Metrics supplies text measurement for a style. Implementations are provided
// by the host; the core only caches the returned widths.
//
// StringWidth receives the display text of an atom, which is the masked text
// when a mask rune is set.
type Metrics interface {
	StringWidth(style Style, text string) fixed.Int26_6
	LineHeight(style Style) fixed.Int26_6
	Descent(style Style) fixed.Int26_6
}
