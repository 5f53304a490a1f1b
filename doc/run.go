package doc

import (
	"strings"
	"unicode/utf8"
)

// StyledRun owns an ordered sequence of atoms sharing one style. Runs are
// created on insert, split at arbitrary offsets, and absorbed by coalescing.
type StyledRun struct {
	style Style
	atoms []Atom
	// mask conceals the run's text for measurement and extraction. 0 disables.
	mask rune
	m    Metrics
}

// NewStyledRun tokenizes text into a run and measures every atom.
func NewStyledRun(text string, style Style, mask rune, m Metrics) *StyledRun {
	r := &StyledRun{
		style: style,
		atoms: tokenize(text),
		mask:  mask,
		m:     m,
	}
	for i := range r.atoms {
		r.measure(&r.atoms[i])
	}
	return r
}

func (r *StyledRun) Style() Style { return r.style }
func (r *StyledRun) Mask() rune   { return r.mask }

func (r *StyledRun) NumAtoms() int    { return len(r.atoms) }
func (r *StyledRun) Atom(i int) *Atom { return &r.atoms[i] }

// Length returns the run length in runes.
func (r *StyledRun) Length() int {
	total := 0
	for i := range r.atoms {
		total += r.atoms[i].runes
	}
	return total
}

func (r *StyledRun) measure(a *Atom) {
	if a.kind == newlineAtom {
		a.width = 0
		return
	}
	a.width = r.m.StringWidth(r.style, a.Display(r.mask))
}

// Append merges other's atoms onto this run. If the boundary atoms are both
// non-whitespace they are concatenated into a single atom and re-measured, so
// a word split across two runs stays one atom.
func (r *StyledRun) Append(other *StyledRun) {
	if len(other.atoms) == 0 {
		return
	}

	i := 0
	if len(r.atoms) > 0 {
		last := &r.atoms[len(r.atoms)-1]
		first := &other.atoms[0]
		if !last.IsWhitespace() && !first.IsWhitespace() {
			last.text += first.text
			last.runes += first.runes
			r.measure(last)
			i++
		}
	}

	for ; i < len(other.atoms); i++ {
		r.atoms = append(r.atoms, other.atoms[i])
	}
}

// Split breaks the run at off, returning a new run holding everything from
// off onward. An atom straddling off is itself split in two, with both parts
// re-measured. Splitting at the end returns an empty run of the same style.
func (r *StyledRun) Split(off int) *StyledRun {
	tail := &StyledRun{style: r.style, mask: r.mask, m: r.m}
	index := 0

	for i := range r.atoms {
		atom := &r.atoms[i]
		nextIndex := index + atom.runes

		if index == off {
			tail.atoms = append(tail.atoms, r.atoms[i:]...)
			r.atoms = r.atoms[:i]
			break
		}

		if off > index && off < nextIndex {
			left, right := splitAtomText(atom.text, off-index)

			second := Atom{text: right, runes: nextIndex - off, kind: atom.kind}
			tail.measure(&second)
			tail.atoms = append(tail.atoms, second)
			tail.atoms = append(tail.atoms, r.atoms[i+1:]...)

			atom.text = left
			atom.runes = off - index
			r.measure(atom)
			r.atoms = r.atoms[:i+1]
			break
		}

		index = nextIndex
	}

	return tail
}

// splitAtomText cuts s at the given rune offset.
func splitAtomText(s string, runes int) (left, right string) {
	off := 0
	for i := 0; i < runes; i++ {
		_, size := utf8.DecodeRuneInString(s[off:])
		off += size
	}
	return s[:off], s[off:]
}

// SetStyle changes the run's style and mask, re-measuring every atom when
// either actually changed.
func (r *StyledRun) SetStyle(style Style, mask rune) {
	if r.style == style && r.mask == mask {
		return
	}
	r.style = style
	r.mask = mask
	for i := range r.atoms {
		r.measure(&r.atoms[i])
	}
}

// Clone deep-copies the run. Clones back undo snapshots, so they must not
// share atom storage with the live document.
func (r *StyledRun) Clone() *StyledRun {
	dup := &StyledRun{
		style: r.style,
		atoms: make([]Atom, len(r.atoms)),
		mask:  r.mask,
		m:     r.m,
	}
	copy(dup.atoms, r.atoms)
	return dup
}

// appendText streams the run's display text.
func (r *StyledRun) appendText(sb *strings.Builder) {
	for i := range r.atoms {
		sb.WriteString(r.atoms[i].Display(r.mask))
	}
}

// appendRange streams the display text covering the intersection of
// [start, end) with the run, in run-local rune offsets.
func (r *StyledRun) appendRange(sb *strings.Builder, start, end int) {
	index := 0

	for i := range r.atoms {
		atom := &r.atoms[i]
		nextIndex := index + atom.runes

		if start < nextIndex {
			if end <= index {
				break
			}
			lo := max(start-index, 0)
			hi := min(end-index, atom.runes)
			if lo < hi {
				_, rest := splitAtomText(atom.Display(r.mask), lo)
				mid, _ := splitAtomText(rest, hi-lo)
				sb.WriteString(mid)
			}
		}

		index = nextIndex
	}
}
