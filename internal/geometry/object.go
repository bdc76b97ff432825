package geometry

// Kind tags what an object is and selects its renderer.
type Kind string

const (
	KindRectangle    Kind = "rectangle"
	KindResizeHandle Kind = "resizeAnchor"
	KindSelectionBox Kind = "resizeAnchorBox"
)

// Known reports whether k is one of the kinds this package defines.
func (k Kind) Known() bool {
	switch k {
	case KindRectangle, KindResizeHandle, KindSelectionBox:
		return true
	}
	return false
}

// NoObject is the id reported when nothing is under the pointer.
const NoObject = 0

// Reserved ids of the selection UI objects. Content ids are positive, so
// these never collide with user objects.
const (
	HandleTopLeft     = -1
	HandleTopRight    = -2
	HandleBottomRight = -3
	HandleBottomLeft  = -4
	HandleBox         = -5
)

// HandleIDs returns every selection UI id in layout order.
func HandleIDs() []int {
	return []int{HandleBox, HandleTopLeft, HandleTopRight, HandleBottomRight, HandleBottomLeft}
}

// IsHandle reports whether id belongs to the selection UI.
func IsHandle(id int) bool {
	return id <= HandleTopLeft && id >= HandleBox
}

// Object is a positioned rectangle on the canvas. Content objects are
// created by the caller; resize handles and the selection box are
// generated by LayoutHandles.
type Object struct {
	ID     int     `json:"id"`
	Kind   Kind    `json:"type"`
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  string  `json:"color,omitempty"`
}

// Box returns the object's geometry.
func (o Object) Box() Box {
	return Box{Top: o.Top, Left: o.Left, Width: o.Width, Height: o.Height}
}

// WithBox returns a copy of the object placed at b.
func (o Object) WithBox(b Box) Object {
	o.Top = b.Top
	o.Left = b.Left
	o.Width = b.Width
	o.Height = b.Height
	return o
}
