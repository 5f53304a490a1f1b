package textcore

import "github.com/oligo/textcore/doc"

// Style, Font, Metrics and Range are defined in the doc package so the
// inner packages can share them without a cycle. The aliases let hosts work
// with the root package alone.
type (
	Style   = doc.Style
	Font    = doc.Font
	Metrics = doc.Metrics
	Range   = doc.Range
)
