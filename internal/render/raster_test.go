package render

import (
	"errors"
	"image/color"
	"testing"

	"github.com/inamate/whiteboard/internal/geometry"
)

func TestRasterFillExact(t *testing.T) {
	r := NewRaster(100, 100, 1)
	r.SetFillColor("#01fe7f")
	r.Rect(10, 20, 30, 40)
	if err := r.Fill(); err != nil {
		t.Fatal(err)
	}

	want := color.RGBA{R: 0x01, G: 0xfe, B: 0x7f, A: 0xff}
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{10, 20, want},
		{39, 59, want},
		{25, 40, want},
		{9, 20, color.RGBA{}},
		{40, 40, color.RGBA{}},
		{25, 60, color.RGBA{}},
		{-1, -1, color.RGBA{}},
		{500, 5, color.RGBA{}},
	}
	for _, tt := range tests {
		if got := r.PixelAt(tt.x, tt.y); got != tt.want {
			t.Errorf("PixelAt(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRasterDevicePixelRatio(t *testing.T) {
	r := NewRaster(50, 40, 2)
	if b := r.Bounds(); b.Dx() != 100 || b.Dy() != 80 {
		t.Fatalf("bounds = %v", b)
	}
	r.SetFillColor("#ff0000")
	r.Rect(10, 10, 5, 5)
	if err := r.Fill(); err != nil {
		t.Fatal(err)
	}
	if got := r.PixelAt(20, 20); got.R != 0xff {
		t.Errorf("device (20,20) not painted: %v", got)
	}
	if got := r.PixelAt(29, 29); got.R != 0xff {
		t.Errorf("device (29,29) not painted: %v", got)
	}
	if got := r.PixelAt(30, 30); got.A != 0 {
		t.Errorf("device (30,30) painted: %v", got)
	}
}

func TestRasterRoundedCorners(t *testing.T) {
	r := NewRaster(100, 100, 1)
	r.SetFillColor("#0000ff")
	r.RoundedRect(0, 0, 50, 50, 10)
	if err := r.Fill(); err != nil {
		t.Fatal(err)
	}
	if got := r.PixelAt(0, 0); got.A != 0 {
		t.Errorf("corner painted: %v", got)
	}
	if got := r.PixelAt(25, 0); got.B != 0xff {
		t.Errorf("top edge midpoint not painted: %v", got)
	}
	if got := r.PixelAt(5, 5); got.B != 0xff {
		t.Errorf("inside corner arc not painted: %v", got)
	}
}

func TestRasterNegativeSize(t *testing.T) {
	r := NewRaster(100, 100, 1)
	r.SetFillColor("#00ff00")
	r.Rect(50, 50, -20, -10)
	if err := r.Fill(); err != nil {
		t.Fatal(err)
	}
	if got := r.PixelAt(35, 45); got.G != 0xff {
		t.Errorf("mirrored rect not painted: %v", got)
	}
}

func TestRasterStroke(t *testing.T) {
	r := NewRaster(100, 100, 1)
	r.SetStrokeColor("#ff00ff")
	r.SetLineWidth(2)
	r.Rect(10, 10, 40, 40)
	if err := r.Stroke(); err != nil {
		t.Fatal(err)
	}
	if got := r.PixelAt(30, 10); got.R != 0xff {
		t.Errorf("outline not painted: %v", got)
	}
	if got := r.PixelAt(30, 30); got.A != 0 {
		t.Errorf("interior painted by stroke: %v", got)
	}
}

func TestRasterPushPop(t *testing.T) {
	r := NewRaster(10, 10, 1)
	r.SetFillColor("#111111")
	r.Push()
	r.SetFillColor("#222222")
	r.Pop()
	r.Rect(0, 0, 10, 10)
	if err := r.Fill(); err != nil {
		t.Fatal(err)
	}
	if got := r.PixelAt(5, 5); got.R != 0x11 {
		t.Errorf("state not restored: %v", got)
	}

	r.Clear()
	if got := r.PixelAt(5, 5); got.A != 0 {
		t.Errorf("Clear left %v", got)
	}
}

func TestRasterInvalidColor(t *testing.T) {
	r := NewRaster(10, 10, 1)
	r.SetFillColor("not-a-color")
	r.Rect(0, 0, 5, 5)
	if err := r.Fill(); !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("got %v, want ErrInvalidColor", err)
	}
}

func TestRasterPickableObjects(t *testing.T) {
	r := NewRaster(200, 200, 1)
	d := NewDispatcher()
	objs := []geometry.Object{
		{ID: 1, Kind: geometry.KindRectangle, Left: 10, Top: 10, Width: 100, Height: 100, Color: "#000010"},
		{ID: geometry.HandleBox, Kind: geometry.KindSelectionBox, Left: 10, Top: 10, Width: 100, Height: 100, Color: "#000020"},
		{ID: geometry.HandleTopLeft, Kind: geometry.KindResizeHandle, Left: 5, Top: 5, Width: 10, Height: 10, Color: "#000030"},
	}
	if err := d.RenderAll(r, objs, Pickable); err != nil {
		t.Fatal(err)
	}

	if got := r.PixelAt(60, 60); got.B != 0x10 {
		t.Errorf("interior = %v, want rectangle color", got)
	}
	if got := r.PixelAt(60, 10); got.B != 0x20 {
		t.Errorf("box outline = %v, want box color", got)
	}
	if got := r.PixelAt(8, 8); got.B != 0x30 {
		t.Errorf("handle = %v, want handle color", got)
	}
}
