package doc

// Range is a half-open rune-offset range [Start, End) in document space.
type Range struct {
	Start int
	End   int
}

// Normalize orders the endpoints so Start <= End.
func (r Range) Normalize() Range {
	if r.Start > r.End {
		r.Start, r.End = r.End, r.Start
	}
	return r
}

func (r Range) Empty() bool { return r.End <= r.Start }

func (r Range) Len() int { return r.End - r.Start }

// Intersects reports whether r overlaps other. Shared endpoints alone do not
// count as overlap.
func (r Range) Intersects(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}
