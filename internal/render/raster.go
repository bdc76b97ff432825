package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/inamate/whiteboard/internal/geometry"
)

// ErrInvalidColor is returned by Fill or Stroke when the current color
// is not a #rrggbb string.
var ErrInvalidColor = errors.New("render: invalid color")

// Raster is an aliasing surface that writes every covered pixel with the
// exact current color. A pixel is covered when its center lies inside the
// shape. Dash patterns are ignored, so a dashed outline is solid here.
//
// Shapes are given in canvas units and mapped to device pixels by the
// device transform.
type Raster struct {
	img    *image.RGBA
	device geometry.Matrix2D

	state rasterState
	stack []rasterState

	shape   geometry.Box
	radius  float64
	hasPath bool
}

type rasterState struct {
	fill, stroke string
	lineWidth    float64
}

// NewRaster creates a transparent raster for a width×height canvas drawn
// at the given device pixel ratio.
func NewRaster(width, height int, dpr float64) *Raster {
	if dpr <= 0 {
		dpr = 1
	}
	w := int(math.Ceil(float64(width) * dpr))
	h := int(math.Ceil(float64(height) * dpr))
	return &Raster{
		img:    image.NewRGBA(image.Rect(0, 0, w, h)),
		device: geometry.ScaleMatrix(dpr, dpr),
		state:  rasterState{lineWidth: 1},
	}
}

// Image returns the backing image. It is not a copy.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// Bounds returns the device pixel bounds.
func (r *Raster) Bounds() image.Rectangle {
	return r.img.Bounds()
}

// Clear resets every pixel to transparent and forgets the current path.
func (r *Raster) Clear() {
	clear(r.img.Pix)
	r.hasPath = false
}

// PixelAt returns the device pixel at (x, y). Points outside the raster
// are transparent.
func (r *Raster) PixelAt(x, y int) color.RGBA {
	if !(image.Point{X: x, Y: y}.In(r.img.Bounds())) {
		return color.RGBA{}
	}
	return r.img.RGBAAt(x, y)
}

func (r *Raster) Push() {
	r.stack = append(r.stack, r.state)
}

func (r *Raster) Pop() {
	if len(r.stack) == 0 {
		return
	}
	r.state = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *Raster) SetFillColor(hex string)    { r.state.fill = hex }
func (r *Raster) SetStrokeColor(hex string)  { r.state.stroke = hex }
func (r *Raster) SetLineWidth(width float64) { r.state.lineWidth = width }
func (r *Raster) SetDash(...float64)         {}

func (r *Raster) Rect(x, y, w, h float64) {
	r.RoundedRect(x, y, w, h, 0)
}

func (r *Raster) RoundedRect(x, y, w, h, radius float64) {
	r.shape = r.device.ApplyBox(geometry.Box{Top: y, Left: x, Width: w, Height: h})
	r.radius = max(radius*min(math.Abs(r.device[0]), math.Abs(r.device[3])), 0)
	r.radius = min(r.radius, r.shape.Width/2, r.shape.Height/2)
	r.hasPath = true
}

func (r *Raster) Fill() error {
	if !r.hasPath {
		return nil
	}
	c, err := parseColor(r.state.fill)
	if err != nil {
		return err
	}
	r.paint(c, 0, func(d float64) bool { return d <= 0 })
	return nil
}

func (r *Raster) Stroke() error {
	if !r.hasPath || r.state.lineWidth <= 0 {
		return nil
	}
	c, err := parseColor(r.state.stroke)
	if err != nil {
		return err
	}
	half := r.state.lineWidth * math.Abs(r.device[0]) / 2
	r.paint(c, half, func(d float64) bool { return math.Abs(d) <= half })
	return nil
}

// paint sets every pixel around the current shape, grown by margin, whose
// center's signed distance to the shape satisfies covered.
func (r *Raster) paint(c color.RGBA, margin float64, covered func(d float64) bool) {
	s := r.shape
	area := image.Rect(
		int(math.Floor(s.Left-margin)), int(math.Floor(s.Top-margin)),
		int(math.Ceil(s.Right()+margin))+1, int(math.Ceil(s.Bottom()+margin))+1,
	).Intersect(r.img.Bounds())

	cx, cy := s.Center()
	hw, hh := s.Width/2, s.Height/2
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			d := roundedBoxDistance(float64(x)+0.5-cx, float64(y)+0.5-cy, hw, hh, r.radius)
			if covered(d) {
				r.img.SetRGBA(x, y, c)
			}
		}
	}
}

// roundedBoxDistance is the signed distance from (px, py), relative to the
// box center, to a box of half extents (hw, hh) with corner radius rad.
// Negative inside.
func roundedBoxDistance(px, py, hw, hh, rad float64) float64 {
	qx := math.Abs(px) - hw + rad
	qy := math.Abs(py) - hh + rad
	outside := math.Hypot(max(qx, 0), max(qy, 0))
	inside := min(max(qx, qy), 0)
	return outside + inside - rad
}

func parseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
