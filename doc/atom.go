package doc

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/image/math/fixed"
)

type atomKind uint8

const (
	wordAtom atomKind = iota
	spaceAtom
	newlineAtom
)

// Atom is a word, a whitespace run, or a single newline that can't be broken
// down any further by the layout. An atom never spans a newline and never
// mixes whitespace with non-whitespace.
type Atom struct {
	text  string
	runes int
	// cached display width under the owning run's style and mask.
	// Always zero for newline atoms.
	width fixed.Int26_6
	kind  atomKind
}

func (a *Atom) Text() string         { return a.text }
func (a *Atom) Runes() int           { return a.runes }
func (a *Atom) Width() fixed.Int26_6 { return a.width }

// IsWhitespace reports whether the atom holds whitespace. Newline atoms count
// as whitespace too; use IsNewline to tell them apart.
func (a *Atom) IsWhitespace() bool { return a.kind != wordAtom }

func (a *Atom) IsNewline() bool { return a.kind == newlineAtom }

// Display returns the text as it should be measured and rendered. A non-zero
// mask replaces every rune while keeping the rune count accurate.
func (a *Atom) Display(mask rune) string {
	if mask == 0 {
		return a.text
	}
	return strings.Repeat(string(mask), a.runes)
}

func isLineBreak(r rune) bool { return r == '\r' || r == '\n' }

func lineSpace(r rune) bool { return unicode.IsSpace(r) && !isLineBreak(r) }

// tokenize splits text into atoms covering it exactly once, in order.
// A "\r\n" pair collapses into a single newline atom holding "\n".
// Widths are left unset; the caller measures each atom afterwards.
func tokenize(text string) []Atom {
	var atoms []Atom

	for len(text) > 0 {
		r, size := utf8.DecodeRuneInString(text)
		var atom Atom

		switch {
		case r == '\r':
			// "\r\n" collapses to a single logical newline.
			if strings.HasPrefix(text[size:], "\n") {
				atom = Atom{text: "\n", runes: 1, kind: newlineAtom}
				text = text[size+1:]
			} else {
				atom = Atom{text: "\r", runes: 1, kind: newlineAtom}
				text = text[size:]
			}

		case r == '\n':
			atom = Atom{text: "\n", runes: 1, kind: newlineAtom}
			text = text[size:]

		case lineSpace(r):
			end, n := size, 1
			for end < len(text) {
				r2, s2 := utf8.DecodeRuneInString(text[end:])
				if !lineSpace(r2) {
					break
				}
				end += s2
				n++
			}
			atom = Atom{text: text[:end], runes: n, kind: spaceAtom}
			text = text[end:]

		default:
			end, n := size, 1
			for end < len(text) {
				r2, s2 := utf8.DecodeRuneInString(text[end:])
				if unicode.IsSpace(r2) {
					break
				}
				end += s2
				n++
			}
			atom = Atom{text: text[:end], runes: n, kind: wordAtom}
			text = text[end:]
		}

		atoms = append(atoms, atom)
	}

	return atoms
}
