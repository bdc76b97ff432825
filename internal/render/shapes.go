package render

import "github.com/inamate/whiteboard/internal/geometry"

const (
	SelectionColor = "#1395ff"
	OutlineColor   = "#5f5f5f"
	DefaultFill    = "#000000"
	HandleFill     = "#ffffff"

	CornerRadius = 10.0
)

// Rectangle draws user content as a rounded rectangle with a grey outline.
type Rectangle struct{}

func (Rectangle) RenderPresentation(s Surface, obj geometry.Object) error {
	fill := obj.Color
	if fill == "" {
		fill = DefaultFill
	}

	s.Push()
	defer s.Pop()

	s.SetStrokeColor(OutlineColor)
	s.SetFillColor(fill)
	s.SetLineWidth(1)
	s.RoundedRect(obj.Left, obj.Top, obj.Width, obj.Height, CornerRadius)
	if err := s.Fill(); err != nil {
		return err
	}
	return s.Stroke()
}

// RenderPickable fills the rounded rectangle only, so the pickable area
// matches the painted interior.
func (Rectangle) RenderPickable(s Surface, obj geometry.Object) error {
	s.Push()
	defer s.Pop()

	s.SetFillColor(obj.Color)
	s.RoundedRect(obj.Left, obj.Top, obj.Width, obj.Height, CornerRadius)
	return s.Fill()
}

// ResizeHandle draws a corner handle of the selection box.
type ResizeHandle struct{}

func (ResizeHandle) RenderPresentation(s Surface, obj geometry.Object) error {
	s.Push()
	defer s.Pop()

	s.SetFillColor(HandleFill)
	s.SetStrokeColor(SelectionColor)
	s.SetLineWidth(2)
	s.Rect(obj.Left, obj.Top, obj.Width, obj.Height)
	if err := s.Stroke(); err != nil {
		return err
	}
	return s.Fill()
}

func (ResizeHandle) RenderPickable(s Surface, obj geometry.Object) error {
	s.Push()
	defer s.Pop()

	s.SetFillColor(obj.Color)
	s.SetStrokeColor(obj.Color)
	s.SetLineWidth(1)
	s.Rect(obj.Left, obj.Top, obj.Width, obj.Height)
	if err := s.Stroke(); err != nil {
		return err
	}
	return s.Fill()
}

// SelectionBox draws the dashed outline around the selection. It has no
// pickable rendering: picking strokes the outline in the object's color.
type SelectionBox struct{}

func (SelectionBox) RenderPresentation(s Surface, obj geometry.Object) error {
	stroke := obj.Color
	if stroke == "" {
		stroke = SelectionColor
	}

	s.Push()
	defer s.Pop()

	s.SetStrokeColor(stroke)
	s.SetLineWidth(1)
	s.SetDash(5, 5)
	s.Rect(obj.Left, obj.Top, obj.Width, obj.Height)
	return s.Stroke()
}
