package blackboard

// Handle is a typed reference to one blackboard entry.
// Its type was checked when it was obtained, so Get and Set cannot mismatch.
// A handle stays valid for the lifetime of its blackboard.
type Handle[T Scalar] struct {
	e *entry
}

// Valid reports whether the handle refers to an entry. The zero Handle is invalid.
func (h Handle[T]) Valid() bool {
	return h.e != nil
}

// Key returns the entry's key, or "" for the zero Handle.
func (h Handle[T]) Key() string {
	if h.e == nil {
		return ""
	}
	return h.e.key
}

// Get returns the current value, or T's zero value for the zero Handle.
func (h Handle[T]) Get() T {
	if h.e == nil {
		var zero T
		return zero
	}
	return as[T](h.e.value)
}

// Set stores v. It does nothing on the zero Handle; check the error returned with the
// handle, or Valid, before relying on writes.
func (h Handle[T]) Set(v T) {
	if h.e == nil {
		return
	}
	h.e.value = ValueOf(v)
}
