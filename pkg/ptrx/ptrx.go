// Package ptrx holds small pointer helpers, mostly for building the
// optional patch fields of update inputs.
package ptrx

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Value returns *v, or the zero value when v is nil.
func Value[T any](v *T) T {
	if v != nil {
		return *v
	}
	var zero T
	return zero
}

// ValueOr returns *v, or def when v is nil.
func ValueOr[T any](v *T, def T) T {
	if v != nil {
		return *v
	}
	return def
}
