package geometry

// Matrix2D is an axis-aligned affine transform in Canvas2D setTransform
// order [a, b, c, d, e, f]:
//
//	| a  c  e |
//	| b  d  f |
//
// Nothing here rotates or skews, so b and c are always zero.
type Matrix2D [6]float64

// Identity returns the identity matrix.
func Identity() Matrix2D {
	return Matrix2D{1, 0, 0, 1, 0, 0}
}

// ScaleMatrix scales about the origin. A layer drawn at pixel ratio r uses
// ScaleMatrix(r, r) as its device transform.
func ScaleMatrix(sx, sy float64) Matrix2D {
	return Matrix2D{sx, 0, 0, sy, 0, 0}
}

// Offset returns m followed by a translation.
func (m Matrix2D) Offset(tx, ty float64) Matrix2D {
	m[4] += tx
	m[5] += ty
	return m
}

// Apply maps a point.
func (m Matrix2D) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[4], m[3]*y + m[5]
}

// ApplyBox maps b and returns the result normalized, so a negative scale
// still yields a box with positive size.
func (m Matrix2D) ApplyBox(b Box) Box {
	x0, y0 := m.Apply(b.Left, b.Top)
	x1, y1 := m.Apply(b.Right(), b.Bottom())
	return Box{Top: y0, Left: x0, Width: x1 - x0, Height: y1 - y0}.Normalize()
}

// ToSlice returns the six entries for JSON.
func (m Matrix2D) ToSlice() []float64 {
	return m[:]
}
