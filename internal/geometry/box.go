package geometry

// Box is an axis-aligned rectangle in canvas coordinates with its origin at
// (Left, Top). Width and Height are not clamped: a box dragged past its
// opposite edge keeps a negative extent.
type Box struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the edge opposite Left.
func (b Box) Right() float64 {
	return b.Left + b.Width
}

// Bottom returns the y coordinate of the edge opposite Top.
func (b Box) Bottom() float64 {
	return b.Top + b.Height
}

// IsDegenerate reports whether the box has zero width or height.
// A degenerate box cannot be the source of a scale.
func (b Box) IsDegenerate() bool {
	return b.Width == 0 || b.Height == 0
}

// Normalize returns the same area with non-negative width and height.
func (b Box) Normalize() Box {
	if b.Width < 0 {
		b.Left += b.Width
		b.Width = -b.Width
	}
	if b.Height < 0 {
		b.Top += b.Height
		b.Height = -b.Height
	}
	return b
}

// Contains checks if a point is inside the box, edges included.
func (b Box) Contains(x, y float64) bool {
	n := b.Normalize()
	return x >= n.Left && x <= n.Right() && y >= n.Top && y <= n.Bottom()
}

// Union returns the smallest box covering both boxes. Mirrored boxes are
// normalized first, so the result always has non-negative size.
func (b Box) Union(other Box) Box {
	b, other = b.Normalize(), other.Normalize()
	minX := min(b.Left, other.Left)
	minY := min(b.Top, other.Top)
	maxX := max(b.Right(), other.Right())
	maxY := max(b.Bottom(), other.Bottom())

	return Box{
		Top:    minY,
		Left:   minX,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// Translate returns the box shifted by (dx, dy).
func (b Box) Translate(dx, dy float64) Box {
	b.Left += dx
	b.Top += dy
	return b
}

// Center returns the center point of the box.
func (b Box) Center() (float64, float64) {
	return b.Left + b.Width/2, b.Top + b.Height/2
}
