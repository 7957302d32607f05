// Package observable provides a value cell that notifies subscribers on
// change. Cells may be written from any goroutine.
package observable

import (
	"slices"
	"sync"
)

// Value is an observable cell holding a T.
type Value[T any] struct {
	mu        sync.RWMutex
	value     T
	equal     func(a, b T) bool
	listeners []listener[T]
	nextID    int
}

type listener[T any] struct {
	id int
	fn func(T)
}

// New returns a cell holding initial. Set only notifies when equal reports
// that the new value differs; a nil equal notifies on every Set.
func New[T any](initial T, equal func(a, b T) bool) *Value[T] {
	return &Value[T]{value: initial, equal: equal}
}

// NewComparable returns a cell that compares values with ==.
func NewComparable[T comparable](initial T) *Value[T] {
	return New(initial, func(a, b T) bool { return a == b })
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Set stores next and notifies subscribers if it changed. Listeners run
// on the calling goroutine after the lock is released.
func (v *Value[T]) Set(next T) {
	v.Update(func(T) T { return next })
}

// Update replaces the value with fn(current) atomically.
func (v *Value[T]) Update(fn func(T) T) {
	v.mu.Lock()
	prev := v.value
	next := fn(prev)
	if v.equal != nil && v.equal(prev, next) {
		v.mu.Unlock()
		return
	}
	v.value = next
	listeners := slices.Clone(v.listeners)
	v.mu.Unlock()

	for _, l := range listeners {
		l.fn(next)
	}
}

// Subscribe registers fn to be called with every new value. Subscribers
// are notified in the order they subscribed. The returned function removes
// the subscription.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.nextID
	v.nextID++
	v.listeners = append(v.listeners, listener[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			v.listeners = slices.DeleteFunc(v.listeners, func(l listener[T]) bool { return l.id == id })
			v.mu.Unlock()
		})
	}
}
