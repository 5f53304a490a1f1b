// Package decoration stores host-supplied decorated character ranges, such as
// the temporary underlining an input method applies while composing. The core
// only keeps and serves the ranges; drawing them is the renderer's job.
package decoration

import (
	"cmp"
	"errors"

	"github.com/rdleal/intervalst/interval"
)

// Kind describes how a decorated range should be rendered.
type Kind uint8

const (
	Underline Kind = iota
	Squiggle
	Strikethrough
)

// Decoration marks the half-open rune range [Start, End) of the document.
// Source identifies who added it, so one producer's marks can be cleared
// without touching another's.
type Decoration struct {
	Start  int
	End    int
	Kind   Kind
	Source string
}

func (d Decoration) Range() (start, end int) {
	return d.Start, d.End
}

// Tree stores overlapping decorations in an interval tree.
type Tree struct {
	tree *interval.MultiValueSearchTree[Decoration, int]
}

func NewTree() *Tree {
	tree := interval.NewMultiValueSearchTree[Decoration](func(a, b int) int {
		return cmp.Compare(a, b)
	})

	return &Tree{tree: tree}
}

// Insert adds a decorated range.
func (t *Tree) Insert(decos ...Decoration) {
	for _, d := range decos {
		t.tree.Insert(d.Start, d.End, d)
	}
}

// Query returns all decorations covering the character at pos.
func (t *Tree) Query(pos int) []Decoration {
	return t.QueryRange(pos, pos+1)
}

// QueryRange returns all decorations overlapping [start, end).
func (t *Tree) QueryRange(start, end int) []Decoration {
	if start >= end {
		return nil
	}

	all, _ := t.tree.AllIntersections(start, end)

	// The tree treats interval endpoints as inclusive, so an intersection
	// query also reports ranges that merely touch at an endpoint. Keep the
	// half-open contract by dropping those.
	var out []Decoration
	for _, d := range all {
		if d.Start < end && start < d.End {
			out = append(out, d)
		}
	}
	return out
}

// RemoveBySource deletes every decoration added under source.
func (t *Tree) RemoveBySource(source string) error {
	maxVals, found := t.tree.MaxEnd()
	if !found {
		return errors.New("no decoration found")
	}

	_, end := maxVals[0].Range()
	all, found := t.tree.AllIntersections(0, end)
	if !found {
		return errors.New("no decoration found")
	}

	for _, d := range all {
		if d.Source == source {
			t.tree.Delete(d.Start, d.End)
		}
	}

	return nil
}
