package scene

import (
	"slices"
	"testing"

	"github.com/inamate/whiteboard/internal/geometry"
)

func obj(id int) geometry.Object {
	return geometry.Object{ID: id, Kind: geometry.KindRectangle, Width: 10, Height: 10}
}

func TestRegistryOrder(t *testing.T) {
	r := NewRegistry(obj(3), obj(1), obj(2))
	if got := r.IDs(); !slices.Equal(got, []int{3, 1, 2}) {
		t.Fatalf("IDs() = %v", got)
	}

	moved := obj(1)
	moved.Left = 42
	r.Set(moved)
	if got := r.IDs(); !slices.Equal(got, []int{3, 1, 2}) {
		t.Errorf("replace changed order: %v", got)
	}
	if o, _ := r.Get(1); o.Left != 42 {
		t.Errorf("replace did not update object: %+v", o)
	}

	r.Set(obj(9))
	if got := r.IDs(); !slices.Equal(got, []int{3, 1, 2, 9}) {
		t.Errorf("append order: %v", got)
	}
}

func TestRegistryDelete(t *testing.T) {
	r := NewRegistry(obj(1), obj(2), obj(3))
	if !r.Delete(2) {
		t.Fatal("Delete(2) = false")
	}
	if r.Delete(2) {
		t.Error("second Delete(2) = true")
	}
	if r.Has(2) || r.Len() != 2 {
		t.Errorf("after delete: has=%v len=%d", r.Has(2), r.Len())
	}
	if got := r.IDs(); !slices.Equal(got, []int{1, 3}) {
		t.Errorf("IDs() = %v", got)
	}
}

func TestRegistryObjectsIsCopy(t *testing.T) {
	r := NewRegistry(obj(1))
	objs := r.Objects()
	objs[0].Left = 100
	if o, _ := r.Get(1); o.Left != 0 {
		t.Errorf("registry mutated through Objects(): %+v", o)
	}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry(obj(1), obj(2), obj(3))
	got := r.Lookup([]int{3, 7, 1})
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 1 {
		t.Errorf("Lookup = %+v", got)
	}
}

func TestRegistryClear(t *testing.T) {
	r := NewRegistry(obj(1), obj(2))
	r.Clear()
	if r.Len() != 0 || r.Has(1) {
		t.Errorf("Clear left %d objects", r.Len())
	}
	r.Set(obj(5))
	if got := r.IDs(); !slices.Equal(got, []int{5}) {
		t.Errorf("IDs() after clear = %v", got)
	}
}

func TestNextID(t *testing.T) {
	tests := []struct {
		name string
		ids  []int
		want int
	}{
		{"empty", nil, 1},
		{"sequential", []int{1, 2, 3}, 4},
		{"gap", []int{7, 2}, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			for _, id := range tt.ids {
				r.Set(obj(id))
			}
			if got := NextID(r); got != tt.want {
				t.Errorf("NextID = %d, want %d", got, tt.want)
			}
		})
	}
}
