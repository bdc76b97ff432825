package selection

import "slices"

// Subscription removes a callback registered on a Controller.
type Subscription struct {
	remove func()
}

// Unsubscribe stops further deliveries. Calling it again is a no-op.
func (s Subscription) Unsubscribe() {
	if s.remove != nil {
		s.remove()
	}
}

type listener[T any] struct {
	id uint32
	fn func(T)
}

// listeners is an ordered callback list for one event kind.
type listeners[T any] struct {
	entries []listener[T]
	nextID  uint32
}

func (l *listeners[T]) add(fn func(T)) Subscription {
	l.nextID++
	id := l.nextID
	l.entries = append(l.entries, listener[T]{id: id, fn: fn})
	return Subscription{remove: func() { l.remove(id) }}
}

func (l *listeners[T]) remove(id uint32) {
	l.entries = slices.DeleteFunc(l.entries, func(e listener[T]) bool { return e.id == id })
}

// emit calls every callback registered when emit starts, in order.
func (l *listeners[T]) emit(v T) {
	for _, e := range slices.Clone(l.entries) {
		e.fn(v)
	}
}

func (l *listeners[T]) clear() {
	l.entries = nil
}

// HandleChange is the payload of a handle-selection change. Active is
// false when no handle is held.
type HandleChange struct {
	ID     int
	Active bool
}

// Delta is a drag offset from the press position in canvas units.
type Delta struct {
	DX, DY float64
}
