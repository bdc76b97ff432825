package geometry

import (
	"slices"
	"testing"
)

func TestMatrixApply(t *testing.T) {
	m := ScaleMatrix(2, 3).Offset(10, 20)
	x, y := m.Apply(1, 1)
	if !near(x, 12) || !near(y, 23) {
		t.Errorf("got (%v,%v), want (12,23)", x, y)
	}
	if x, y := Identity().Apply(7, -4); x != 7 || y != -4 {
		t.Errorf("identity moved the point to (%v,%v)", x, y)
	}
}

func TestMatrixApplyBox(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix2D
		in   Box
		want Box
	}{
		{"device", ScaleMatrix(2, 2), Box{Top: 10, Left: 5, Width: 20, Height: 30}, Box{Top: 20, Left: 10, Width: 40, Height: 60}},
		{"mirror", ScaleMatrix(-1, 1), Box{Top: 0, Left: 10, Width: 5, Height: 5}, Box{Top: 0, Left: -15, Width: 5, Height: 5}},
		{"negative size", Identity(), Box{Top: 10, Left: 10, Width: -4, Height: -6}, Box{Top: 4, Left: 6, Width: 4, Height: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.ApplyBox(tt.in); !boxNear(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestToSlice(t *testing.T) {
	got := ScaleMatrix(2, 2).Offset(1, 2).ToSlice()
	if want := []float64{2, 0, 0, 2, 1, 2}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
