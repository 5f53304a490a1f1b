// Package metrics provides ready-made implementations of the measurement
// interface the document and layout packages depend on.
package metrics

import (
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/math/fixed"

	"github.com/oligo/textcore/doc"
)

// Mono measures text on a fixed-pitch grid. East Asian wide characters
// occupy two cells. Font size scales the cell linearly relative to BaseSize,
// so styled runs with larger fonts still advance proportionally.
type Mono struct {
	// CellWidth is the advance of a single-cell character at BaseSize.
	CellWidth fixed.Int26_6
	// CellHeight is the line height at BaseSize.
	CellHeight fixed.Int26_6
	// CellDescent is the portion of CellHeight below the baseline.
	CellDescent fixed.Int26_6
	// BaseSize is the font size the cell dimensions are given for.
	// Zero means sizes are ignored and every style measures the same.
	BaseSize int
}

func (m Mono) scale(style doc.Style, v fixed.Int26_6) fixed.Int26_6 {
	if m.BaseSize <= 0 || style.Font.Size <= 0 {
		return v
	}

	return v.Mul(fixed.I(style.Font.Size) / fixed.Int26_6(m.BaseSize))
}

func (m Mono) StringWidth(style doc.Style, s string) fixed.Int26_6 {
	cells := 0
	for _, r := range s {
		if r == '\n' || r == '\r' {
			continue
		}
		cells += runewidth.RuneWidth(r)
	}

	return m.scale(style, m.CellWidth.Mul(fixed.I(cells)))
}

func (m Mono) LineHeight(style doc.Style) fixed.Int26_6 {
	return m.scale(style, m.CellHeight)
}

func (m Mono) Descent(style doc.Style) fixed.Int26_6 {
	return m.scale(style, m.CellDescent)
}
