package value

// Truthy implements spec §3's rule: "Boolean(false) is false, every other
// value is true" — including Nil and the empty List, which many Lisps treat
// as falsy but this one deliberately does not.
func Truthy(v Value) bool {
	if b, ok := v.(Boolean); ok {
		return bool(b)
	}
	return true
}
