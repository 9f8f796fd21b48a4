package schema

// Document is a nested field-name to value mapping.
type Document = map[string]any

// Value is a field attribute that is either a literal or computed from the
// candidate document. The zero Value is unset.
type Value[T any] struct {
	literal T
	compute func(self Document) (T, error)
	set     bool
}

// Literal returns a Value holding v.
func Literal[T any](v T) Value[T] {
	return Value[T]{literal: v, set: true}
}

// Computed returns a Value produced by fn. A nil fn yields an unset Value.
func Computed[T any](fn func(self Document) (T, error)) Value[T] {
	return Value[T]{compute: fn, set: fn != nil}
}

// IsSet reports whether the attribute was declared.
func (v Value[T]) IsSet() bool { return v.set }

// IsComputed reports whether the attribute is backed by a producer function.
func (v Value[T]) IsComputed() bool { return v.compute != nil }

// Resolve returns the literal or invokes the producer with self.
// An unset Value resolves to the zero T.
func (v Value[T]) Resolve(self Document) (T, error) {
	if v.compute != nil {
		return v.compute(self)
	}
	return v.literal, nil
}
