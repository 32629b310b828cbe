package syscall

import (
	"fmt"

	"islisp/value"
)

// RegisterDefaults installs the required built-in set (spec §4.6):
// arithmetic +/-/=, list operations, container operations, predicates,
// strict boolean and/or, and the misc print/error/size primitives.
func RegisterDefaults(r *Registry) {
	r.RegisterA2("+", arith(func(a, b float64) float64 { return a + b }, func(a, b int64) int64 { return a + b }))
	r.RegisterA2("-", arith(func(a, b float64) float64 { return a - b }, func(a, b int64) int64 { return a - b }))
	r.RegisterA2("=", func(a, b value.Value) (value.Value, error) {
		return value.Boolean(value.Equal(a, b)), nil
	})

	r.RegisterA1("len", sizeOf)
	r.RegisterA1("size", sizeOf)

	r.RegisterA2("cons", func(item, lst value.Value) (value.Value, error) {
		l, ok := lst.(value.List)
		if !ok {
			return nil, &TypeError{Message: fmt.Sprintf("cons: second argument must be a list, got %T", lst)}
		}
		return l.Cons(item), nil
	})
	r.RegisterA1("car", first)
	r.RegisterA1("first", first)
	r.RegisterA1("cdr", rest)
	r.RegisterA1("rest", rest)
	r.RegisterA1("empty?", func(v value.Value) (value.Value, error) {
		switch t := v.(type) {
		case value.List:
			return value.Boolean(t.Empty()), nil
		case value.Vector:
			return value.Boolean(t.Len() == 0), nil
		case value.Set:
			return value.Boolean(t.Len() == 0), nil
		case value.Map:
			return value.Boolean(t.Len() == 0), nil
		default:
			return nil, &TypeError{Message: fmt.Sprintf("empty?: not a container: %T", v)}
		}
	})
	r.RegisterA2("nth", func(coll, idx value.Value) (value.Value, error) {
		n, ok := idx.(value.Number)
		if !ok {
			return nil, &TypeError{Message: "nth: index must be a Number"}
		}
		switch t := coll.(type) {
		case value.List:
			v, ok := t.Nth(int(n))
			if !ok {
				return nil, &RuntimeError{Message: "nth: index out of range"}
			}
			return v, nil
		case value.Vector:
			v, ok := t.Nth(int(n))
			if !ok {
				return nil, &RuntimeError{Message: "nth: index out of range"}
			}
			return v, nil
		default:
			return nil, &TypeError{Message: fmt.Sprintf("nth: not an indexed collection: %T", coll)}
		}
	})
	r.RegisterA2("append", func(a, b value.Value) (value.Value, error) {
		la, ok := a.(value.List)
		if !ok {
			return nil, &TypeError{Message: "append: both arguments must be lists"}
		}
		lb, ok := b.(value.List)
		if !ok {
			return nil, &TypeError{Message: "append: both arguments must be lists"}
		}
		return la.Append(lb), nil
	})

	r.RegisterA2("conj", func(coll, item value.Value) (value.Value, error) {
		switch t := coll.(type) {
		case value.Vector:
			return t.Conj(item), nil
		case value.Set:
			return t.Conj(item), nil
		case value.List:
			return t.Cons(item), nil
		default:
			return nil, &TypeError{Message: fmt.Sprintf("conj: not a container: %T", coll)}
		}
	})
	r.RegisterA3("assoc", func(m, k, v value.Value) (value.Value, error) {
		mm, ok := m.(value.Map)
		if !ok {
			return nil, &TypeError{Message: "assoc: first argument must be a map"}
		}
		return mm.Assoc(k, v), nil
	})
	r.RegisterA2("get", func(m, k value.Value) (value.Value, error) {
		mm, ok := m.(value.Map)
		if !ok {
			return nil, &TypeError{Message: "get: first argument must be a map"}
		}
		if v, ok := mm.Get(k); ok {
			return v, nil
		}
		return value.NilValue, nil
	})

	r.RegisterA1("list?", func(v value.Value) (value.Value, error) {
		_, ok := v.(value.List)
		return value.Boolean(ok), nil
	})
	r.RegisterA1("symbol?", func(v value.Value) (value.Value, error) {
		_, ok := v.(value.Symbol)
		return value.Boolean(ok), nil
	})
	r.RegisterA1("even?", func(v value.Value) (value.Value, error) {
		n, ok := v.(value.Number)
		if !ok {
			return nil, &TypeError{Message: "even?: argument must be a Number"}
		}
		return value.Boolean(n%2 == 0), nil
	})
	r.RegisterA1("odd?", func(v value.Value) (value.Value, error) {
		n, ok := v.(value.Number)
		if !ok {
			return nil, &TypeError{Message: "odd?: argument must be a Number"}
		}
		return value.Boolean(n%2 != 0), nil
	})

	r.RegisterA2("and", func(a, b value.Value) (value.Value, error) {
		return value.Boolean(value.Truthy(a) && value.Truthy(b)), nil
	})
	r.RegisterA2("or", func(a, b value.Value) (value.Value, error) {
		return value.Boolean(value.Truthy(a) || value.Truthy(b)), nil
	})

	r.RegisterA1("print", func(v value.Value) (value.Value, error) {
		fmt.Println(v.String())
		return v, nil
	})
	r.RegisterA1("error", func(v value.Value) (value.Value, error) {
		return nil, &RuntimeError{Message: v.String()}
	})
}

func first(v value.Value) (value.Value, error) {
	l, ok := v.(value.List)
	if !ok {
		return nil, &TypeError{Message: fmt.Sprintf("first: not a list: %T", v)}
	}
	item, ok := l.First()
	if !ok {
		return nil, &RuntimeError{Message: "first: empty list"}
	}
	return item, nil
}

func rest(v value.Value) (value.Value, error) {
	l, ok := v.(value.List)
	if !ok {
		return nil, &TypeError{Message: fmt.Sprintf("rest: not a list: %T", v)}
	}
	return l.Rest(), nil
}

func sizeOf(v value.Value) (value.Value, error) {
	switch t := v.(type) {
	case value.List:
		return value.Number(t.Len()), nil
	case value.Vector:
		return value.Number(t.Len()), nil
	case value.Set:
		return value.Number(t.Len()), nil
	case value.Map:
		return value.Number(t.Len()), nil
	case value.String:
		return value.Number(len(string(t))), nil
	default:
		return nil, &TypeError{Message: fmt.Sprintf("len: not a container: %T", v)}
	}
}

// arith builds a +/- style syscall that stays in Number arithmetic unless
// either operand is a Float, in which case the result is a Float — the
// narrowest mixed-numeric-tower behavior the non-goal ("full numeric
// tower") leaves room for.
func arith(onFloat func(a, b float64) float64, onInt func(a, b int64) int64) A2 {
	return func(a, b value.Value) (value.Value, error) {
		af, aIsFloat, aOK := asNumeric(a)
		bf, bIsFloat, bOK := asNumeric(b)
		if !aOK || !bOK {
			return nil, &TypeError{Message: fmt.Sprintf("arithmetic requires Number or Float operands, got %T and %T", a, b)}
		}
		if aIsFloat || bIsFloat {
			return value.Float(onFloat(af, bf)), nil
		}
		an, _ := a.(value.Number)
		bn, _ := b.(value.Number)
		return value.Number(onInt(int64(an), int64(bn))), nil
	}
}

func asNumeric(v value.Value) (f float64, isFloat bool, ok bool) {
	switch t := v.(type) {
	case value.Number:
		return float64(t), false, true
	case value.Float:
		return float64(t), true, true
	default:
		return 0, false, false
	}
}
