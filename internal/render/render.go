package render

import (
	"errors"
	"fmt"

	"github.com/inamate/whiteboard/internal/geometry"
)

// ErrUnknownKind is returned when no renderer is registered for an object's kind.
var ErrUnknownKind = errors.New("render: unknown object kind")

// Mode selects how an object is drawn.
type Mode int

const (
	// Presentation draws the object's true appearance.
	Presentation Mode = iota
	// Pickable draws the object flat in its picking color, carried in Object.Color.
	Pickable
)

func (m Mode) String() string {
	switch m {
	case Presentation:
		return "presentation"
	case Pickable:
		return "pickable"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Surface is the subset of a Canvas2D context the renderers need. Rect and
// RoundedRect replace the current path; Fill and Stroke paint it without
// clearing it.
type Surface interface {
	Push()
	Pop()
	SetFillColor(hex string)
	SetStrokeColor(hex string)
	SetLineWidth(width float64)
	SetDash(lengths ...float64)
	Rect(x, y, w, h float64)
	RoundedRect(x, y, w, h, r float64)
	Fill() error
	Stroke() error
}

// objectMarker is implemented by surfaces that tag output with the id of
// the object being drawn.
type objectMarker interface {
	BeginObject(id int)
}

// Renderer draws one kind of object.
type Renderer interface {
	RenderPresentation(s Surface, obj geometry.Object) error
}

// PickableRenderer is a Renderer with a dedicated flat-color rendering.
// Kinds without one are drawn pickably through RenderPresentation.
type PickableRenderer interface {
	Renderer
	RenderPickable(s Surface, obj geometry.Object) error
}

// Dispatcher maps object kinds to renderers.
type Dispatcher struct {
	renderers map[geometry.Kind]Renderer
}

// NewDispatcher returns a dispatcher with the built-in renderers for
// rectangles, resize handles and the selection box.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		renderers: map[geometry.Kind]Renderer{
			geometry.KindRectangle:    Rectangle{},
			geometry.KindResizeHandle: ResizeHandle{},
			geometry.KindSelectionBox: SelectionBox{},
		},
	}
}

// Register sets the renderer for kind, replacing any previous one.
func (d *Dispatcher) Register(kind geometry.Kind, r Renderer) {
	d.renderers[kind] = r
}

// Render draws obj onto s in the given mode.
func (d *Dispatcher) Render(s Surface, obj geometry.Object, mode Mode) error {
	r, ok := d.renderers[obj.Kind]
	if !ok {
		return fmt.Errorf("%w: %q (object %d)", ErrUnknownKind, obj.Kind, obj.ID)
	}

	if m, ok := s.(objectMarker); ok {
		m.BeginObject(obj.ID)
	}

	if mode == Pickable {
		if pr, ok := r.(PickableRenderer); ok {
			return pr.RenderPickable(s, obj)
		}
	}
	return r.RenderPresentation(s, obj)
}

// RenderAll draws objs in order and stops at the first failure.
func (d *Dispatcher) RenderAll(s Surface, objs []geometry.Object, mode Mode) error {
	for _, obj := range objs {
		if err := d.Render(s, obj, mode); err != nil {
			return err
		}
	}
	return nil
}
