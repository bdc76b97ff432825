package scene

import (
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/inamate/whiteboard/internal/geometry"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600

	minRandomSide = 50.0
	maxRandomSide = 250.0
)

// DefaultObjects returns the five overlapping rectangles of the sample board.
func DefaultObjects() []geometry.Object {
	return []geometry.Object{
		{ID: 1, Kind: geometry.KindRectangle, Top: 100, Left: 100, Width: 100, Height: 125, Color: "#fff83b"},
		{ID: 2, Kind: geometry.KindRectangle, Top: 100, Left: 205, Width: 50, Height: 50, Color: "#3bff75"},
		{ID: 3, Kind: geometry.KindRectangle, Top: 230, Left: 100, Width: 240, Height: 100, Color: "#3bdcff"},
		{ID: 4, Kind: geometry.KindRectangle, Top: 155, Left: 205, Width: 135, Height: 70, Color: "#ff62ac"},
		{ID: 5, Kind: geometry.KindRectangle, Top: 100, Left: 260, Width: 80, Height: 50, Color: "#ff7762"},
	}
}

// Sample returns a document with the default canvas size and objects.
func Sample() *Document {
	return &Document{Width: DefaultWidth, Height: DefaultHeight, Objects: DefaultObjects()}
}

// RandomRectangle returns a rectangle with id 0 whose sides are between 50
// and 250 units, placed fully inside a width×height canvas when it fits,
// with a saturated random color.
func RandomRectangle(rng *rand.Rand, width, height float64) geometry.Object {
	w := minRandomSide + rng.Float64()*(maxRandomSide-minRandomSide)
	h := minRandomSide + rng.Float64()*(maxRandomSide-minRandomSide)
	w = min(w, max(width, minRandomSide))
	h = min(h, max(height, minRandomSide))

	left := rng.Float64() * max(width-w, 0)
	top := rng.Float64() * max(height-h, 0)

	c := colorful.Hsv(rng.Float64()*360, 0.55+rng.Float64()*0.4, 0.85+rng.Float64()*0.15)

	return geometry.Object{
		Kind:   geometry.KindRectangle,
		Top:    top,
		Left:   left,
		Width:  w,
		Height: h,
		Color:  c.Clamped().Hex(),
	}
}
