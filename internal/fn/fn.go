// Package fn has small generic helpers shared by the commands.
package fn

// T is short for ternary.
func T[V any](condition bool, trueVal, falseVal V) V {
	if condition {
		return trueVal
	}
	return falseVal
}

// Coalesce returns the first non-zero value, or the zero value.
func Coalesce[V comparable](vals ...V) V {
	var zero V
	for _, v := range vals {
		if v != zero {
			return v
		}
	}
	return zero
}
