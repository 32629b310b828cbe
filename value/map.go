package value

import "strings"

// pair is one Map entry, kept in insertion order.
type pair struct {
	key, val Value
}

// Map is a persistent ordered map, keyed by structural equality (Equal).
// Assoc returns a new Map; the "outermost association is the last pair"
// rule from the `ord-map` internal macro (spec §4.3) means a repeated key
// updates in place, preserving its original position.
type Map struct {
	pairs []pair
}

// EmptyMap is the seed value for the `ord-map` internal macro.
var EmptyMap = Map{}

func (Map) Tag() Tag { return TagMap }

func (m Map) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, p := range m.pairs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p.key.String())
		b.WriteByte(' ')
		b.WriteString(p.val.String())
	}
	b.WriteByte('}')
	return b.String()
}

// Len returns the number of entries.
func (m Map) Len() int { return len(m.pairs) }

// Assoc inserts or updates the value bound to k, returning a new Map.
func (m Map) Assoc(k, v Value) Map {
	pairs := make([]pair, len(m.pairs))
	copy(pairs, m.pairs)
	for i, p := range pairs {
		if Equal(p.key, k) {
			pairs[i].val = v
			return Map{pairs: pairs}
		}
	}
	pairs = append(pairs, pair{key: k, val: v})
	return Map{pairs: pairs}
}

// Get looks up k, reporting whether it was bound.
func (m Map) Get(k Value) (Value, bool) {
	for _, p := range m.pairs {
		if Equal(p.key, k) {
			return p.val, true
		}
	}
	return nil, false
}

// Entries exposes the (key, value) pairs in insertion order for iteration.
func (m Map) Entries() []struct{ Key, Val Value } {
	out := make([]struct{ Key, Val Value }, len(m.pairs))
	for i, p := range m.pairs {
		out[i] = struct{ Key, Val Value }{p.key, p.val}
	}
	return out
}
