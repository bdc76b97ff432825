package render

import (
	"image/color"
	"testing"

	"github.com/inamate/whiteboard/internal/geometry"
)

func TestComposePanels(t *testing.T) {
	pick := NewRaster(20, 10, 2)
	pick.SetFillColor("#00ab01")
	pick.Rect(0, 0, 20, 10)
	if err := pick.Fill(); err != nil {
		t.Fatal(err)
	}

	out := Compose(20, 10, nil, nil, pick.Image())
	if b := out.Bounds(); b.Dx() != 60 || b.Dy() != 10 {
		t.Fatalf("bounds = %v", b)
	}
	if got := out.RGBAAt(5, 5); got != (color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}) {
		t.Errorf("empty presentation panel = %v", got)
	}
	want := color.RGBA{G: 0xab, B: 0x01, A: 0xff}
	if got := out.RGBAAt(45, 5); got != want {
		t.Errorf("picking panel = %v, want %v", got, want)
	}
}

func TestCanvasPaints(t *testing.T) {
	c := NewCanvas(40, 40, 1)
	defer c.Close()

	obj := geometry.Object{ID: 1, Kind: geometry.KindRectangle, Left: 5, Top: 5, Width: 30, Height: 30, Color: "#ff0000"}
	if err := NewDispatcher().Render(c, obj, Presentation); err != nil {
		t.Fatal(err)
	}

	img := Flatten(c.Image())
	center := img.RGBAAt(20, 20)
	if center.R < 0xf0 || center.G > 0x10 || center.B > 0x10 {
		t.Errorf("center = %v, want red", center)
	}
	if corner := img.RGBAAt(1, 1); corner != (color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}) {
		t.Errorf("outside = %v, want white background", corner)
	}
}
