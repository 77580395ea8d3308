package blackboard

import (
	"fmt"
	"sort"

	"github.com/aretw0/arbor/pkg/domain"
)

type entry struct {
	key   string
	value Value
}

// Blackboard maps keys to typed entries. Create with New.
type Blackboard struct {
	entries map[string]*entry
	strict  bool
}

// Option configures a Blackboard.
type Option func(*Blackboard)

// WithStrict disables lazy key creation. Only keys added with Declare (or Restore of a
// declared key) can be read or written.
func WithStrict() Option {
	return func(b *Blackboard) {
		b.strict = true
	}
}

// New creates an empty blackboard.
func New(opts ...Option) *Blackboard {
	b := &Blackboard{
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Strict reports whether the blackboard rejects undeclared keys.
func (b *Blackboard) Strict() bool {
	return b.strict
}

// Declare adds a key with an initial value. It fails with domain.ErrKeyDeclared if the key exists.
func Declare[T Scalar](b *Blackboard, key string, initial T) (Handle[T], error) {
	if _, ok := b.entries[key]; ok {
		return Handle[T]{}, fmt.Errorf("%w: %q", domain.ErrKeyDeclared, key)
	}
	e := &entry{key: key, value: ValueOf(initial)}
	b.entries[key] = e
	return Handle[T]{e: e}, nil
}

// Set overwrites the value of key, creating the entry with T's type if it does not exist.
// Writing a key with a type other than its established type returns a TypeMismatchError
// and leaves the entry untouched.
func Set[T Scalar](b *Blackboard, key string, v T) error {
	e, err := b.lookup(key, TypeOf[T](), true)
	if err != nil {
		return err
	}
	e.value = ValueOf(v)
	return nil
}

// GetOrCreate returns a handle to key, creating the entry with T's zero value if it does not exist.
func GetOrCreate[T Scalar](b *Blackboard, key string) (Handle[T], error) {
	e, err := b.lookup(key, TypeOf[T](), true)
	if err != nil {
		return Handle[T]{}, err
	}
	return Handle[T]{e: e}, nil
}

// Get reads key without creating it. It returns domain.ErrKeyNotFound for a missing key.
func Get[T Scalar](b *Blackboard, key string) (T, error) {
	var zero T
	e, err := b.lookup(key, TypeOf[T](), false)
	if err != nil {
		return zero, err
	}
	return as[T](e.value), nil
}

// lookup finds key and checks its tag. Missing keys are created when create is set
// and the blackboard is not strict.
func (b *Blackboard) lookup(key string, typ domain.ValueType, create bool) (*entry, error) {
	if e, ok := b.entries[key]; ok {
		if e.value.typ != typ {
			return nil, &domain.TypeMismatchError{Key: key, Want: typ, Have: e.value.typ}
		}
		return e, nil
	}
	if b.strict {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKey, key)
	}
	if !create {
		return nil, fmt.Errorf("%w: %q", domain.ErrKeyNotFound, key)
	}
	e := &entry{key: key, value: Value{typ: typ}}
	b.entries[key] = e
	return e, nil
}

// Has reports whether key exists.
func (b *Blackboard) Has(key string) bool {
	_, ok := b.entries[key]
	return ok
}

// Type returns the established type of key.
func (b *Blackboard) Type(key string) (domain.ValueType, bool) {
	e, ok := b.entries[key]
	if !ok {
		return 0, false
	}
	return e.value.typ, true
}

// Lookup returns the tagged value of key.
func (b *Blackboard) Lookup(key string) (Value, bool) {
	e, ok := b.entries[key]
	if !ok {
		return Value{}, false
	}
	return e.value, true
}

// Keys returns all keys in ascending order.
func (b *Blackboard) Keys() []string {
	keys := make([]string, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries.
func (b *Blackboard) Len() int {
	return len(b.entries)
}

// Map returns the current values keyed by name. The map is a copy.
func (b *Blackboard) Map() map[string]any {
	out := make(map[string]any, len(b.entries))
	for k, e := range b.entries {
		out[k] = e.value.Any()
	}
	return out
}
