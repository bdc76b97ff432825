package picking

import (
	"errors"
	"fmt"

	"github.com/inamate/whiteboard/internal/geometry"
)

// ErrDuplicateObject is returned when one pass contains the same id twice.
var ErrDuplicateObject = errors.New("picking: duplicate object in pass")

// Index maps the colors of one render pass to object ids and back.
// An Index is valid only for the pass that built it.
type Index struct {
	byColor map[Color]int
	byID    map[int]Color
}

// BuildIndex allocates a color to every object in draw order and returns
// the index together with copies of objs whose Color is the allocated
// picking color.
func BuildIndex(objs []geometry.Object) (*Index, []geometry.Object, error) {
	ix := &Index{
		byColor: make(map[Color]int, len(objs)),
		byID:    make(map[int]Color, len(objs)),
	}
	tagged := make([]geometry.Object, 0, len(objs))

	for i, obj := range objs {
		if _, dup := ix.byID[obj.ID]; dup {
			return nil, nil, fmt.Errorf("%w: %d", ErrDuplicateObject, obj.ID)
		}
		c, err := ColorFor(i + 1)
		if err != nil {
			return nil, nil, err
		}
		ix.byColor[c] = obj.ID
		ix.byID[obj.ID] = c

		obj.Color = c.Hex()
		tagged = append(tagged, obj)
	}
	return ix, tagged, nil
}

// Lookup returns the object drawn in color c.
func (ix *Index) Lookup(c Color) (int, bool) {
	id, ok := ix.byColor[c]
	return id, ok
}

// ColorOf returns the color allocated to id.
func (ix *Index) ColorOf(id int) (Color, bool) {
	c, ok := ix.byID[id]
	return c, ok
}

func (ix *Index) Len() int {
	return len(ix.byColor)
}

// Equal reports whether both indexes hold the same color assignments.
func (ix *Index) Equal(other *Index) bool {
	if ix == nil || other == nil {
		return ix == other
	}
	if len(ix.byColor) != len(other.byColor) {
		return false
	}
	for c, id := range ix.byColor {
		if oid, ok := other.byColor[c]; !ok || oid != id {
			return false
		}
	}
	return true
}
