package render

import (
	"image"
	"io"
	"math"

	"github.com/gogpu/gg"

	"github.com/inamate/whiteboard/internal/geometry"
)

// Canvas is an anti-aliased Surface backed by a gg context, used for the
// presentation and UI layers.
type Canvas struct {
	ctx *gg.Context
	dpr float64

	state canvasState
	stack []canvasState
}

type canvasState struct {
	fill, stroke string
	lineWidth    float64
	dash         []float64
}

// NewCanvas creates a transparent width×height canvas drawn at the given
// device pixel ratio.
func NewCanvas(width, height int, dpr float64) *Canvas {
	if dpr <= 0 {
		dpr = 1
	}
	ctx := gg.NewContext(
		int(math.Ceil(float64(width)*dpr)),
		int(math.Ceil(float64(height)*dpr)),
	)
	ctx.Scale(dpr, dpr)
	return &Canvas{
		ctx:   ctx,
		dpr:   dpr,
		state: canvasState{fill: DefaultFill, stroke: DefaultFill, lineWidth: 1},
	}
}

// Clear fills the canvas with a background color, or makes it
// transparent when hex is empty.
func (c *Canvas) Clear(hex string) {
	if hex == "" {
		c.ctx.Clear()
	} else {
		c.ctx.ClearWithColor(gg.Hex(hex))
	}
	c.ctx.ClearPath()
}

func (c *Canvas) Push() {
	c.ctx.Push()
	c.stack = append(c.stack, c.state)
}

func (c *Canvas) Pop() {
	c.ctx.Pop()
	if len(c.stack) == 0 {
		return
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *Canvas) SetFillColor(hex string)    { c.state.fill = hex }
func (c *Canvas) SetStrokeColor(hex string)  { c.state.stroke = hex }
func (c *Canvas) SetLineWidth(width float64) { c.state.lineWidth = width }

func (c *Canvas) SetDash(lengths ...float64) {
	c.state.dash = append([]float64(nil), lengths...)
}

func (c *Canvas) Rect(x, y, w, h float64) {
	b := geometry.Box{Top: y, Left: x, Width: w, Height: h}.Normalize()
	c.ctx.ClearPath()
	c.ctx.DrawRectangle(b.Left, b.Top, b.Width, b.Height)
}

func (c *Canvas) RoundedRect(x, y, w, h, r float64) {
	b := geometry.Box{Top: y, Left: x, Width: w, Height: h}.Normalize()
	c.ctx.ClearPath()
	c.ctx.DrawRoundedRectangle(b.Left, b.Top, b.Width, b.Height, max(r, 0))
}

func (c *Canvas) Fill() error {
	c.ctx.SetFillBrush(gg.SolidHex(c.state.fill))
	return c.ctx.FillPreserve()
}

func (c *Canvas) Stroke() error {
	c.ctx.SetStrokeBrush(gg.SolidHex(c.state.stroke))
	c.ctx.SetLineWidth(c.state.lineWidth)
	c.ctx.SetDash(c.state.dash...)
	return c.ctx.StrokePreserve()
}

// Image returns the rendered canvas in device pixels.
func (c *Canvas) Image() image.Image {
	_ = c.ctx.FlushGPU()
	return c.ctx.Image()
}

// EncodePNG writes the canvas as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return c.ctx.EncodePNG(w)
}

// Close releases the gg context.
func (c *Canvas) Close() error {
	return c.ctx.Close()
}
