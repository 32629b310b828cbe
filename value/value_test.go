package value

import "testing"

func TestTruthy(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Boolean(false), false},
		{Boolean(true), true},
		{NilValue, true},
		{EmptyList, true},
		{Number(0), true},
	}
	for _, c := range cases {
		if got := Truthy(c.v); got != c.want {
			t.Errorf("Truthy(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestEqualStructural(t *testing.T) {
	l1 := NewList(Number(1), Number(2))
	l2 := NewList(Number(1), Number(2))
	if !Equal(l1, l2) {
		t.Error("structurally-equal lists should be Equal")
	}

	v1 := NewVector(Number(1))
	v2 := l1
	if Equal(v1, v2) {
		t.Error("a Vector and a List should never be Equal even with the same elements")
	}
}

func TestListPersistence(t *testing.T) {
	base := NewList(Number(2), Number(3))
	extended := base.Cons(Number(1))

	if base.Len() != 2 {
		t.Errorf("Cons mutated the receiver: base.Len() = %d, want 2", base.Len())
	}
	if extended.Len() != 3 {
		t.Errorf("extended.Len() = %d, want 3", extended.Len())
	}
	head, ok := extended.First()
	if !ok || !Equal(head, Number(1)) {
		t.Errorf("extended.First() = %v, %v; want Number(1), true", head, ok)
	}
}

func TestMapAssocPreservesOrderOnUpdate(t *testing.T) {
	m := EmptyMap.Assoc(Keyword("a"), Number(1)).Assoc(Keyword("b"), Number(2))
	m2 := m.Assoc(Keyword("a"), Number(99))

	entries := m2.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if !Equal(entries[0].Key, Keyword("a")) || !Equal(entries[0].Val, Number(99)) {
		t.Errorf("updating a key should keep its original position, got %v", entries[0])
	}

	if v, ok := m.Get(Keyword("a")); !ok || !Equal(v, Number(1)) {
		t.Error("Assoc must not mutate the original Map")
	}
}

func TestSetConjDedups(t *testing.T) {
	s := EmptySet.Conj(Number(1)).Conj(Number(1)).Conj(Number(2))
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestCompareOrdersByTagThenValue(t *testing.T) {
	if Compare(Number(1), Number(2)) >= 0 {
		t.Error("Number(1) should compare less than Number(2)")
	}
	if Compare(Number(1), Float(1)) == 0 {
		t.Error("different variants should never compare equal")
	}
}
