package value

// Tagged pairs a tag symbol with a boxed value, produced by the reader's
// `#tag value` syntax (spec §4.1).
type Tagged struct {
	Label Symbol
	Value Value
}

func (Tagged) Tag() Tag { return TagTagged }

func (t Tagged) String() string {
	return "#" + string(t.Label) + " " + t.Value.String()
}
