package picking

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidColorComponent is returned when a sampled channel is outside 0..255.
	ErrInvalidColorComponent = errors.New("picking: invalid color component")
	// ErrPaletteExhausted is returned when a pass has more objects than colors.
	ErrPaletteExhausted = errors.New("picking: palette exhausted")
)

// Color is a 24-bit RGB value, 0xRRGGBB.
type Color uint32

const (
	// PaletteSize is the number of colors available in one pass. Black is
	// excluded so it never collides with an unpainted pixel.
	PaletteSize = 1<<24 - 1

	colorMask = 1<<24 - 1

	// spread is odd, so multiplying by it is a bijection modulo 2^24.
	// Adjacent indexes land far apart in RGB space, which keeps the
	// picking layer readable in the debug view.
	spread = 0x9e3779
)

// ColorFor returns the picking color of the index-th object drawn in a
// pass, index starting at 1. Distinct indexes in 1..PaletteSize always
// map to distinct non-black colors.
func ColorFor(index int) (Color, error) {
	if index < 1 || index > PaletteSize {
		return 0, fmt.Errorf("%w: index %d", ErrPaletteExhausted, index)
	}
	return Color(uint32(index) * spread & colorMask), nil
}

// FromComponents builds a color from sampled channels.
func FromComponents(r, g, b int) (Color, error) {
	for _, c := range [...]int{r, g, b} {
		if c < 0 || c > 255 {
			return 0, fmt.Errorf("%w: %d", ErrInvalidColorComponent, c)
		}
	}
	return Color(r<<16 | g<<8 | b), nil
}

// RGB returns the channels of c.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Hex returns c as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c)&colorMask)
}

func (c Color) String() string {
	return c.Hex()
}
