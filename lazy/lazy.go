package lazy

import (
	"sync"
	"sync/atomic"
)

// Of is a value that is computed at most once, on first access.
type Of[T any] struct {
	create      func() T
	once        sync.Once
	value       T
	initialized atomic.Bool
}

// Get returns the value, computing it on the first call.
func (t *Of[T]) Get() T { //nolint:ireturn
	defer func() {
		if err := recover(); err != nil {
			// Reset the once state on panic so initialization can be retried.
			t.once = sync.Once{}

			panic(err)
		}
	}()

	t.once.Do(func() {
		if t.create != nil {
			t.value = t.create()
			t.initialized.Store(true)
			t.create = nil
		}
	})

	return t.value
}

// Set overrides the value, discarding any pending initializer.
func (t *Of[T]) Set(value T) {
	t.create = nil
	t.value = value
	t.initialized.Store(true)
}

// Initialized reports whether the value has been computed or set.
// Useful in tests, should never drive normal code flow.
func (t *Of[T]) Initialized() bool {
	return t.initialized.Load()
}

// New creates a lazy value. The callback runs later, when the value
// is first accessed.
func New[T any](f func() T) *Of[T] {
	return &Of[T]{create: f}
}
