package geometry

import "errors"

// DefaultHandleSize is the side length of a resize handle.
const DefaultHandleSize = 10.0

// ErrEmptySelection is returned when a selection box is requested for no objects.
var ErrEmptySelection = errors.New("geometry: empty selection")

// ComputeSelectionBox returns the minimal box enclosing all objects:
// left/top are the minimum edges, width/height reach the maximum
// right/bottom edges. Mirrored objects count by the area they cover. An
// empty input has no box.
func ComputeSelectionBox(objects []Object) (Box, error) {
	if len(objects) == 0 {
		return Box{}, ErrEmptySelection
	}

	box := objects[0].Box().Normalize()
	for _, obj := range objects[1:] {
		box = box.Union(obj.Box())
	}
	return box, nil
}

// LayoutHandles returns the selection box object followed by the four
// corner handles. Each handle is a size×size square centered on its
// corner. A non-positive size falls back to DefaultHandleSize.
func LayoutHandles(box Box, size float64) []Object {
	if size <= 0 {
		size = DefaultHandleSize
	}
	half := size / 2

	handle := func(id int, cornerTop, cornerLeft float64) Object {
		return Object{
			ID:     id,
			Kind:   KindResizeHandle,
			Top:    cornerTop - half,
			Left:   cornerLeft - half,
			Width:  size,
			Height: size,
		}
	}

	return []Object{
		{
			ID:     HandleBox,
			Kind:   KindSelectionBox,
			Top:    box.Top,
			Left:   box.Left,
			Width:  box.Width,
			Height: box.Height,
		},
		handle(HandleTopLeft, box.Top, box.Left),
		handle(HandleTopRight, box.Top, box.Right()),
		handle(HandleBottomRight, box.Bottom(), box.Right()),
		handle(HandleBottomLeft, box.Bottom(), box.Left),
	}
}

// Translate returns a copy of obj shifted by (dx, dy).
func Translate(obj Object, dx, dy float64) Object {
	obj.Left += dx
	obj.Top += dy
	return obj
}

// RescaleBox returns the box produced by dragging the corner handle
// handleID by (dx, dy). The opposite corner stays put. Results are not
// clamped, so dragging a corner past the opposite edge mirrors the box.
// Any other id returns box unchanged.
func RescaleBox(handleID int, box Box, dx, dy float64) Box {
	switch handleID {
	case HandleTopLeft:
		box.Top += dy
		box.Left += dx
		box.Width -= dx
		box.Height -= dy
	case HandleTopRight:
		box.Top += dy
		box.Width += dx
		box.Height -= dy
	case HandleBottomRight:
		box.Width += dx
		box.Height += dy
	case HandleBottomLeft:
		box.Left += dx
		box.Width -= dx
		box.Height += dy
	}
	return box
}

// ScaleObjectToBox applies to obj the axis-aligned affine map that takes
// oldBox onto newBox. oldBox must not be degenerate. An axis on which the
// boxes agree is left untouched, so equal boxes return obj exactly.
func ScaleObjectToBox(oldBox, newBox Box, obj Object) Object {
	if newBox.Left != oldBox.Left || newBox.Width != oldBox.Width {
		scaleX := newBox.Width / oldBox.Width
		obj.Left = newBox.Left + (obj.Left-oldBox.Left)*scaleX
		obj.Width *= scaleX
	}
	if newBox.Top != oldBox.Top || newBox.Height != oldBox.Height {
		scaleY := newBox.Height / oldBox.Height
		obj.Top = newBox.Top + (obj.Top-oldBox.Top)*scaleY
		obj.Height *= scaleY
	}
	return obj
}
