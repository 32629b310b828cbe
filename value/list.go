package value

import "strings"

// List is a persistent, double-ended sequence. Cons prepends; Append joins
// two lists. Every mutating-looking operation returns a new List and leaves
// the receiver untouched, satisfying the "cheap copies, no observed
// mutation" contract of spec §3.
type List struct {
	items []Value
}

// EmptyList is the canonical empty List literal used as the seed value for
// the `list` internal macro (spec §4.3).
var EmptyList = List{}

// NewList builds a List from a slice, copying it so the caller's backing
// array can't alias into the persistent value.
func NewList(items ...Value) List {
	if len(items) == 0 {
		return EmptyList
	}
	cp := make([]Value, len(items))
	copy(cp, items)
	return List{items: cp}
}

func (List) Tag() Tag { return TagList }

func (l List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, v := range l.items {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(v.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Len returns the number of elements.
func (l List) Len() int { return len(l.items) }

// Empty reports whether the list has no elements.
func (l List) Empty() bool { return len(l.items) == 0 }

// Cons prepends v, returning a new List.
func (l List) Cons(v Value) List {
	items := make([]Value, 0, len(l.items)+1)
	items = append(items, v)
	items = append(items, l.items...)
	return List{items: items}
}

// First returns the head element and whether the list was non-empty.
func (l List) First() (Value, bool) {
	if len(l.items) == 0 {
		return nil, false
	}
	return l.items[0], true
}

// Rest returns every element but the head. Rest of the empty list is the
// empty list.
func (l List) Rest() List {
	if len(l.items) <= 1 {
		return EmptyList
	}
	return List{items: l.items[1:]}
}

// Nth returns the element at index i.
func (l List) Nth(i int) (Value, bool) {
	if i < 0 || i >= len(l.items) {
		return nil, false
	}
	return l.items[i], true
}

// Append concatenates l and other into a new List.
func (l List) Append(other List) List {
	items := make([]Value, 0, len(l.items)+len(other.items))
	items = append(items, l.items...)
	items = append(items, other.items...)
	return List{items: items}
}

// Items exposes the elements for iteration; callers must not mutate the
// returned slice.
func (l List) Items() []Value { return l.items }
