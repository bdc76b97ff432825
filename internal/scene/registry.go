package scene

import (
	"errors"
	"slices"

	"github.com/inamate/whiteboard/internal/geometry"
)

var (
	ErrReservedID    = errors.New("scene: reserved object id")
	ErrDuplicateID   = errors.New("scene: duplicate object id")
	ErrInvalidObject = errors.New("scene: invalid object")
	ErrNotFound      = errors.New("scene: object not found")
)

// Registry is an insertion-ordered id → Object map. Iteration order is
// draw order, so later objects paint over earlier ones.
//
// A Registry is shared by reference between its owner and the selection
// core and is not safe for concurrent use.
type Registry struct {
	order []int
	byID  map[int]geometry.Object
}

// NewRegistry creates a registry holding objs in the given order.
// A later object with a repeated id replaces the earlier one in place.
func NewRegistry(objs ...geometry.Object) *Registry {
	r := &Registry{byID: make(map[int]geometry.Object, len(objs))}
	for _, obj := range objs {
		r.Set(obj)
	}
	return r
}

// Set inserts obj, or replaces the object with the same id while keeping
// its position.
func (r *Registry) Set(obj geometry.Object) {
	if _, ok := r.byID[obj.ID]; !ok {
		r.order = append(r.order, obj.ID)
	}
	r.byID[obj.ID] = obj
}

// Get returns the object with the given id.
func (r *Registry) Get(id int) (geometry.Object, bool) {
	obj, ok := r.byID[id]
	return obj, ok
}

func (r *Registry) Has(id int) bool {
	_, ok := r.byID[id]
	return ok
}

// Delete removes id and reports whether it was present.
func (r *Registry) Delete(id int) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return true
}

func (r *Registry) Len() int {
	return len(r.order)
}

// IDs returns the ids in insertion order.
func (r *Registry) IDs() []int {
	return slices.Clone(r.order)
}

// Objects returns a copy of every object in insertion order.
func (r *Registry) Objects() []geometry.Object {
	out := make([]geometry.Object, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Lookup returns the objects for ids, in the order given, skipping ids
// that are not present.
func (r *Registry) Lookup(ids []int) []geometry.Object {
	out := make([]geometry.Object, 0, len(ids))
	for _, id := range ids {
		if obj, ok := r.byID[id]; ok {
			out = append(out, obj)
		}
	}
	return out
}

// Clear removes every object.
func (r *Registry) Clear() {
	r.order = r.order[:0]
	clear(r.byID)
}

// NextID returns one more than the largest id in the registry, or 1 when
// it holds no positive id.
func NextID(r *Registry) int {
	next := 1
	for _, id := range r.order {
		if id >= next {
			next = id + 1
		}
	}
	return next
}
