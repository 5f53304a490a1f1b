package doc

import (
	"strings"
)

// staleLength marks the cached document length as needing a recount.
const staleLength = -1

// Document is an ordered sequence of styled runs forming the full text.
// Concatenating every run's text yields the document text; after a coalescing
// pass, adjacent runs never share an identical style.
//
// All index and range arguments are global rune offsets. Out-of-range values
// are clamped, and inverted ranges are normalized, never rejected.
type Document struct {
	runs []*StyledRun
	m    Metrics
	mask rune
	// cached total length in runes; staleLength after a structural mutation.
	length int
}

func New(m Metrics) *Document {
	return &Document{m: m}
}

func (d *Document) Metrics() Metrics { return d.m }

func (d *Document) Mask() rune { return d.mask }

// SetMask changes the concealment rune and re-measures every run under it.
func (d *Document) SetMask(mask rune) {
	if d.mask == mask {
		return
	}
	d.mask = mask
	for _, run := range d.runs {
		run.SetStyle(run.style, mask)
	}
}

// Runs exposes the run sequence for layout traversal. Callers must not
// mutate the document while holding it.
func (d *Document) Runs() []*StyledRun { return d.runs }

// Len returns the total length in runes, recounting lazily after mutations.
func (d *Document) Len() int {
	if d.length == staleLength {
		d.length = 0
		for _, run := range d.runs {
			d.length += run.Length()
		}
	}
	return d.length
}

func (d *Document) clampIndex(index int) int {
	if index < 0 {
		return 0
	}
	if l := d.Len(); index > l {
		return l
	}
	return index
}

// ClampRange normalizes and clamps a range into [0, Len()].
func (d *Document) ClampRange(rng Range) Range {
	rng = rng.Normalize()
	rng.Start = d.clampIndex(rng.Start)
	rng.End = d.clampIndex(rng.End)
	return rng
}

// Insert tokenizes text into a new run placed at index. A run containing
// index is split there first; at a run boundary the new run goes before the
// run that starts at index, except at the very end of the document.
func (d *Document) Insert(text string, index int, style Style) {
	if text == "" {
		return
	}
	index = d.clampIndex(index)

	inserted := false
	pos, nextPos := 0, 0
	for i := 0; i < len(d.runs); i++ {
		nextPos = pos + d.runs[i].Length()

		if index == pos {
			d.insertRunAt(i, NewStyledRun(text, style, d.mask, d.m))
			inserted = true
			break
		}

		if index > pos && index < nextPos {
			d.splitRun(i, index-pos)
			d.insertRunAt(i+1, NewStyledRun(text, style, d.mask, d.m))
			inserted = true
			break
		}

		pos = nextPos
	}

	if !inserted && nextPos == index {
		d.runs = append(d.runs, NewStyledRun(text, style, d.mask, d.m))
	}

	d.Coalesce()
	d.length = staleLength
}

// Snapshot pre-splits the runs at both boundaries of rng and returns deep
// copies of every run then fully contained in it. The returned runs are what
// Reinsert needs to restore the removal; boundary remainders stay in place
// and are never part of the snapshot.
func (d *Document) Snapshot(rng Range) []*StyledRun {
	rng = d.ClampRange(rng)
	if rng.Empty() {
		return nil
	}
	d.splitBoundaries(rng)

	var copies []*StyledRun
	pos := 0
	for _, run := range d.runs {
		nextPos := pos + run.Length()
		if rng.Start <= pos && rng.End >= nextPos && pos < nextPos {
			copies = append(copies, run.Clone())
		}
		pos = nextPos
	}
	return copies
}

// Remove deletes the text in rng. Runs overlapping the boundaries are split
// first so the range aligns exactly with run boundaries, then every run fully
// inside it is dropped.
func (d *Document) Remove(rng Range) {
	rng = d.ClampRange(rng)
	if rng.Empty() {
		return
	}
	d.splitBoundaries(rng)

	remaining := rng
	pos := 0
	for i := 0; i < len(d.runs); i++ {
		nextPos := pos + d.runs[i].Length()

		if remaining.Start <= pos && remaining.End >= nextPos {
			d.runs = append(d.runs[:i], d.runs[i+1:]...)
			remaining.End -= nextPos - pos
			if remaining.Empty() {
				break
			}
			i--
		} else {
			pos = nextPos
		}
	}

	d.Coalesce()
	d.length = staleLength
}

// Reinsert splices snapshot runs back at index verbatim, without
// re-tokenizing. Used only to invert a Remove.
func (d *Document) Reinsert(index int, snapshots []*StyledRun) {
	index = d.clampIndex(index)

	spliced := false
	pos, nextPos := 0, 0
	for i := 0; i < len(d.runs); i++ {
		nextPos = pos + d.runs[i].Length()

		if index == pos {
			d.spliceRunsAt(i, snapshots)
			spliced = true
			break
		}

		if index > pos && index < nextPos {
			d.splitRun(i, index-pos)
			d.spliceRunsAt(i+1, snapshots)
			spliced = true
			break
		}

		pos = nextPos
	}

	if !spliced && nextPos == index {
		for _, s := range snapshots {
			d.runs = append(d.runs, s.Clone())
		}
	}

	d.Coalesce()
	d.length = staleLength
}

// Coalesce merges adjacent runs of identical style until no pair matches.
// It never moves or resizes text.
func (d *Document) Coalesce() {
	for i := 0; i < len(d.runs)-1; i++ {
		left, right := d.runs[i], d.runs[i+1]
		if left.style == right.style {
			left.Append(right)
			d.runs = append(d.runs[:i+1], d.runs[i+2:]...)
			i--
		}
	}
}

// Text returns the full display text of the document.
func (d *Document) Text() string {
	var sb strings.Builder
	sb.Grow(d.Len())
	for _, run := range d.runs {
		run.appendText(&sb)
	}
	return sb.String()
}

// TextRange returns the display text covering rng.
func (d *Document) TextRange(rng Range) string {
	rng = d.ClampRange(rng)
	if rng.Empty() {
		return ""
	}

	var sb strings.Builder
	sb.Grow(rng.Len())
	pos := 0
	for _, run := range d.runs {
		nextPos := pos + run.Length()
		if rng.Start < nextPos {
			if rng.End <= pos {
				break
			}
			run.appendRange(&sb, rng.Start-pos, rng.End-pos)
		}
		pos = nextPos
	}
	return sb.String()
}

// splitBoundaries splits any run straddling either end of rng so the range
// aligns with run boundaries.
func (d *Document) splitBoundaries(rng Range) {
	pos := 0
	for i := 0; i < len(d.runs); i++ {
		nextPos := pos + d.runs[i].Length()

		if rng.Start > pos && rng.Start < nextPos {
			d.splitRun(i, rng.Start-pos)
			i--
		} else if rng.End > pos && rng.End < nextPos {
			d.splitRun(i, rng.End-pos)
			i--
		} else {
			pos = nextPos
			if pos > rng.End {
				break
			}
		}
	}
}

// splitRun splits run i at the run-local offset, inserting the tail after it.
func (d *Document) splitRun(i, off int) {
	d.insertRunAt(i+1, d.runs[i].Split(off))
}

func (d *Document) insertRunAt(i int, run *StyledRun) {
	d.runs = append(d.runs, nil)
	copy(d.runs[i+1:], d.runs[i:])
	d.runs[i] = run
}

func (d *Document) spliceRunsAt(i int, snapshots []*StyledRun) {
	for j := len(snapshots) - 1; j >= 0; j-- {
		d.insertRunAt(i, snapshots[j].Clone())
	}
}
