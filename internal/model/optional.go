package model

// Optional is a field of a partial update: either unchanged or set to a value.
type Optional[T any] struct {
	value T
	set   bool
}

// Set returns an Optional holding v.
func Set[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Unchanged returns an empty Optional.
func Unchanged[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the field should be written.
func (o Optional[T]) IsSet() bool {
	return o.set
}
