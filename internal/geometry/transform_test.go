package geometry

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func boxNear(a, b Box) bool {
	return near(a.Top, b.Top) && near(a.Left, b.Left) &&
		near(a.Width, b.Width) && near(a.Height, b.Height)
}

func rect(id int, top, left, w, h float64) Object {
	return Object{ID: id, Kind: KindRectangle, Top: top, Left: left, Width: w, Height: h}
}

func TestComputeSelectionBox(t *testing.T) {
	tests := []struct {
		name    string
		objects []Object
		want    Box
	}{
		{
			name:    "single object",
			objects: []Object{rect(1, 10, 20, 30, 40)},
			want:    Box{Top: 10, Left: 20, Width: 30, Height: 40},
		},
		{
			name:    "two disjoint objects",
			objects: []Object{rect(1, 0, 0, 10, 10), rect(2, 20, 20, 10, 10)},
			want:    Box{Top: 0, Left: 0, Width: 30, Height: 30},
		},
		{
			name:    "nested object",
			objects: []Object{rect(1, 0, 0, 100, 100), rect(2, 10, 10, 5, 5)},
			want:    Box{Top: 0, Left: 0, Width: 100, Height: 100},
		},
		{
			name: "sample scene",
			objects: []Object{
				rect(1, 100, 100, 100, 125),
				rect(3, 230, 100, 240, 100),
				rect(5, 100, 260, 80, 50),
			},
			want: Box{Top: 100, Left: 100, Width: 240, Height: 230},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeSelectionBox(tt.objects)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !boxNear(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestComputeSelectionBoxEncloses(t *testing.T) {
	objects := []Object{
		rect(1, -5, 3, 7, 2),
		rect(2, 14, -8, 1, 30),
		rect(3, 2, 2, 2, 2),
	}
	box, err := ComputeSelectionBox(objects)
	if err != nil {
		t.Fatal(err)
	}

	var touchLeft, touchTop, touchRight, touchBottom bool
	for _, obj := range objects {
		if obj.Left < box.Left || obj.Top < box.Top ||
			obj.Left+obj.Width > box.Right() || obj.Top+obj.Height > box.Bottom() {
			t.Errorf("object %d not enclosed by %+v", obj.ID, box)
		}
		touchLeft = touchLeft || obj.Left == box.Left
		touchTop = touchTop || obj.Top == box.Top
		touchRight = touchRight || obj.Left+obj.Width == box.Right()
		touchBottom = touchBottom || obj.Top+obj.Height == box.Bottom()
	}
	if !touchLeft || !touchTop || !touchRight || !touchBottom {
		t.Errorf("box %+v is not minimal", box)
	}
}

func TestComputeSelectionBoxEmpty(t *testing.T) {
	_, err := ComputeSelectionBox(nil)
	if !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("got %v, want ErrEmptySelection", err)
	}
}

func TestLayoutHandles(t *testing.T) {
	box := Box{Top: 10, Left: 20, Width: 100, Height: 50}
	objs := LayoutHandles(box, 10)
	if len(objs) != 5 {
		t.Fatalf("got %d objects, want 5", len(objs))
	}

	if objs[0].ID != HandleBox || objs[0].Kind != KindSelectionBox || objs[0].Box() != box {
		t.Errorf("selection box object = %+v", objs[0])
	}

	corners := map[int][2]float64{
		HandleTopLeft:     {box.Left, box.Top},
		HandleTopRight:    {box.Right(), box.Top},
		HandleBottomRight: {box.Right(), box.Bottom()},
		HandleBottomLeft:  {box.Left, box.Bottom()},
	}
	for _, h := range objs[1:] {
		want, ok := corners[h.ID]
		if !ok {
			t.Fatalf("unexpected handle id %d", h.ID)
		}
		if h.Kind != KindResizeHandle {
			t.Errorf("handle %d kind = %q", h.ID, h.Kind)
		}
		if h.Width != 10 || h.Height != 10 {
			t.Errorf("handle %d size = %vx%v", h.ID, h.Width, h.Height)
		}
		cx, cy := h.Box().Center()
		if !near(cx, want[0]) || !near(cy, want[1]) {
			t.Errorf("handle %d center = (%v,%v), want (%v,%v)", h.ID, cx, cy, want[0], want[1])
		}
		delete(corners, h.ID)
	}
	if len(corners) != 0 {
		t.Errorf("missing handles: %v", corners)
	}
}

func TestLayoutHandlesDefaultSize(t *testing.T) {
	objs := LayoutHandles(Box{Width: 1, Height: 1}, 0)
	for _, h := range objs[1:] {
		if h.Width != DefaultHandleSize || h.Height != DefaultHandleSize {
			t.Errorf("handle %d size = %vx%v", h.ID, h.Width, h.Height)
		}
	}
}

func TestTranslate(t *testing.T) {
	in := rect(7, 10, 20, 5, 5)
	out := Translate(in, 3, -4)
	if out.Left != 23 || out.Top != 6 || out.Width != 5 || out.Height != 5 {
		t.Errorf("got %+v", out)
	}
	if in.Left != 20 || in.Top != 10 {
		t.Errorf("input mutated: %+v", in)
	}
}

func TestRescaleBox(t *testing.T) {
	box := Box{Top: 0, Left: 0, Width: 100, Height: 100}
	tests := []struct {
		name   string
		handle int
		dx, dy float64
		want   Box
	}{
		{"bottom right", HandleBottomRight, 10, -5, Box{Top: 0, Left: 0, Width: 110, Height: 95}},
		{"top left", HandleTopLeft, 10, 20, Box{Top: 20, Left: 10, Width: 90, Height: 80}},
		{"top right", HandleTopRight, 10, 20, Box{Top: 20, Left: 0, Width: 110, Height: 80}},
		{"bottom left", HandleBottomLeft, 10, 20, Box{Top: 0, Left: 10, Width: 90, Height: 120}},
		{"top left past opposite edge", HandleTopLeft, 150, 0, Box{Top: 0, Left: 150, Width: -50, Height: 100}},
		{"selection box is a no-op", HandleBox, 10, 10, box},
		{"content id is a no-op", 3, 10, 10, box},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RescaleBox(tt.handle, box, tt.dx, tt.dy)
			if !boxNear(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScaleObjectToBox(t *testing.T) {
	oldBox := Box{Top: 0, Left: 0, Width: 100, Height: 100}
	newBox := RescaleBox(HandleBottomRight, oldBox, 10, -5)

	got := ScaleObjectToBox(oldBox, newBox, rect(1, 50, 50, 10, 10))
	want := Box{Top: 47.5, Left: 55, Width: 11, Height: 9.5}
	if !boxNear(got.Box(), want) {
		t.Errorf("got %+v, want %+v", got.Box(), want)
	}
	if got.ID != 1 || got.Kind != KindRectangle {
		t.Errorf("identity fields changed: %+v", got)
	}
}

func TestScaleObjectToBoxIdentity(t *testing.T) {
	boxes := []Box{
		{Top: 0, Left: 0, Width: 100, Height: 100},
		{Top: -3.5, Left: 12.25, Width: 7, Height: 0.5},
		{Top: 10, Left: 10, Width: -20, Height: 30},
		{Top: 81.93770751068612, Left: 0.1, Width: 33.3, Height: 0.7},
	}
	objs := []Object{
		rect(4, 12, 13, 6, 8),
		rect(5, 81.93770751068612, 0.3, 10.1, 2.2),
		rect(6, 0.1, 0.2, -0.3, 7.77),
	}
	for _, b := range boxes {
		for _, obj := range objs {
			if got := ScaleObjectToBox(b, b, obj); got != obj {
				t.Errorf("box %+v: got %+v, want %+v", b, got, obj)
			}
		}
	}
}

func TestScaleObjectToBoxOneAxis(t *testing.T) {
	oldBox := Box{Top: 0.1, Left: 0.3, Width: 10, Height: 10}
	newBox := RescaleBox(HandleBottomRight, oldBox, 10, 0)
	obj := rect(1, 2.7, 1.9, 3.3, 4.1)

	got := ScaleObjectToBox(oldBox, newBox, obj)
	if got.Top != obj.Top || got.Height != obj.Height {
		t.Errorf("vertical axis changed: got %+v, want top %v height %v", got, obj.Top, obj.Height)
	}
	if !near(got.Width, 6.6) {
		t.Errorf("width = %v, want 6.6", got.Width)
	}
}

func TestComputeSelectionBoxMirrored(t *testing.T) {
	objects := []Object{
		rect(1, 0, 0, -10, 10),
		rect(2, 0, -20, -10, 10),
	}
	box, err := ComputeSelectionBox(objects)
	if err != nil {
		t.Fatal(err)
	}
	if want := (Box{Top: 0, Left: -30, Width: 30, Height: 10}); box != want {
		t.Errorf("got %+v, want %+v", box, want)
	}
}

func TestScaleMirrored(t *testing.T) {
	oldBox := Box{Top: 0, Left: 0, Width: 100, Height: 100}
	newBox := RescaleBox(HandleTopLeft, oldBox, 150, 0)
	got := ScaleObjectToBox(oldBox, newBox, rect(1, 0, 0, 100, 100))
	if !near(got.Left, 150) || !near(got.Width, -50) {
		t.Errorf("got %+v", got)
	}
}
