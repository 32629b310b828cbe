package value

import "strings"

// Set is a persistent ordered set: duplicates (by Equal) are collapsed and
// insertion order is preserved. Conj adds an element, matching the
// left-folded `(set e1 … en)` internal macro (spec §4.3).
type Set struct {
	items []Value
}

// EmptySet is the seed value for the `set` internal macro.
var EmptySet = Set{}

func (Set) Tag() Tag { return TagSet }

func (s Set) String() string {
	var b strings.Builder
	b.WriteString("#{")
	for i, v := range s.items {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(v.String())
	}
	b.WriteByte('}')
	return b.String()
}

// Len returns the number of (deduplicated) elements.
func (s Set) Len() int { return len(s.items) }

// Conj adds x if not already present, returning a new Set.
func (s Set) Conj(x Value) Set {
	for _, v := range s.items {
		if Equal(v, x) {
			return s
		}
	}
	items := make([]Value, len(s.items), len(s.items)+1)
	copy(items, s.items)
	items = append(items, x)
	return Set{items: items}
}

// Contains reports whether x is a member.
func (s Set) Contains(x Value) bool {
	for _, v := range s.items {
		if Equal(v, x) {
			return true
		}
	}
	return false
}

// Items exposes the elements in insertion order for iteration; callers must
// not mutate the returned slice.
func (s Set) Items() []Value { return s.items }
