package value

// Equal reports whether a and b are structurally equal (spec §3:
// "Equality is structural").
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Tag() != b.Tag() {
		return false
	}

	switch av := a.(type) {
	case Number:
		return av == b.(Number)
	case Float:
		return av == b.(Float)
	case Boolean:
		return av == b.(Boolean)
	case Char:
		return av == b.(Char)
	case Nil:
		return true
	case String:
		return av == b.(String)
	case Symbol:
		return av == b.(Symbol)
	case Keyword:
		return av == b.(Keyword)
	case Address:
		return av == b.(Address)
	case Closure:
		bc := b.(Closure)
		return av.Arity == bc.Arity && av.Addr == bc.Addr
	case Pid:
		return av == b.(Pid)
	case Tagged:
		bt := b.(Tagged)
		return av.Label == bt.Label && Equal(av.Value, bt.Value)
	case List:
		bl := b.(List)
		if av.Len() != bl.Len() {
			return false
		}
		for i, v := range av.items {
			if !Equal(v, bl.items[i]) {
				return false
			}
		}
		return true
	case Vector:
		bv := b.(Vector)
		if av.Len() != bv.Len() {
			return false
		}
		for i, v := range av.items {
			if !Equal(v, bv.items[i]) {
				return false
			}
		}
		return true
	case Set:
		bs := b.(Set)
		if av.Len() != bs.Len() {
			return false
		}
		for _, v := range av.items {
			if !bs.Contains(v) {
				return false
			}
		}
		return true
	case Map:
		bm := b.(Map)
		if av.Len() != bm.Len() {
			return false
		}
		for _, p := range av.pairs {
			bv, ok := bm.Get(p.key)
			if !ok || !Equal(p.val, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compare defines a total order over all Value variants so that they can be
// used as Map/Set keys with a deterministic canonical order (spec §3).
// Distinct variants order by Tag; within a variant, by the natural order of
// their data.
func Compare(a, b Value) int {
	if ta, tb := a.Tag(), b.Tag(); ta != tb {
		return int(ta) - int(tb)
	}

	switch av := a.(type) {
	case Number:
		return cmpInt64(int64(av), int64(b.(Number)))
	case Float:
		return cmpFloat64(float64(av), float64(b.(Float)))
	case Boolean:
		return cmpBool(bool(av), bool(b.(Boolean)))
	case Char:
		return cmpInt64(int64(av), int64(b.(Char)))
	case Nil:
		return 0
	case String:
		return cmpString(string(av), string(b.(String)))
	case Symbol:
		return cmpString(string(av), string(b.(Symbol)))
	case Keyword:
		return cmpString(string(av), string(b.(Keyword)))
	case Address:
		bb := b.(Address)
		if d := av.Chunk - bb.Chunk; d != 0 {
			return d
		}
		return av.Op - bb.Op
	case Closure:
		bb := b.(Closure)
		if d := av.Arity - bb.Arity; d != 0 {
			return d
		}
		if d := av.Addr.Chunk - bb.Addr.Chunk; d != 0 {
			return d
		}
		return av.Addr.Op - bb.Addr.Op
	case Pid:
		return cmpUint64(av.id, b.(Pid).id)
	case Tagged:
		bb := b.(Tagged)
		if d := cmpString(string(av.Label), string(bb.Label)); d != 0 {
			return d
		}
		return Compare(av.Value, bb.Value)
	case List:
		return compareSeq(av.items, b.(List).items)
	case Vector:
		return compareSeq(av.items, b.(Vector).items)
	case Set:
		return compareSeq(av.items, b.(Set).items)
	case Map:
		bm := b.(Map)
		if d := av.Len() - bm.Len(); d != 0 {
			return d
		}
		for i, p := range av.pairs {
			if d := Compare(p.key, bm.pairs[i].key); d != 0 {
				return d
			}
			if d := Compare(p.val, bm.pairs[i].val); d != 0 {
				return d
			}
		}
		return 0
	default:
		return 0
	}
}

func compareSeq(a, b []Value) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if d := Compare(a[i], b[i]); d != 0 {
			return d
		}
	}
	return len(a) - len(b)
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpBool(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}
	return 1
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
