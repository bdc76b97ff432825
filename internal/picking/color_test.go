package picking

import (
	"errors"
	"testing"
)

func TestColorForDistinct(t *testing.T) {
	seen := make(map[Color]int)
	for i := 1; i <= 100000; i++ {
		c, err := ColorFor(i)
		if err != nil {
			t.Fatal(err)
		}
		if c == 0 {
			t.Fatalf("index %d mapped to black", i)
		}
		if prev, dup := seen[c]; dup {
			t.Fatalf("indexes %d and %d share color %s", prev, i, c)
		}
		seen[c] = i
	}
}

func TestColorForDeterministic(t *testing.T) {
	a, _ := ColorFor(42)
	b, _ := ColorFor(42)
	if a != b {
		t.Errorf("ColorFor(42) = %s then %s", a, b)
	}
}

func TestColorForBounds(t *testing.T) {
	for _, i := range []int{0, -1, PaletteSize + 1} {
		if _, err := ColorFor(i); !errors.Is(err, ErrPaletteExhausted) {
			t.Errorf("ColorFor(%d): got %v, want ErrPaletteExhausted", i, err)
		}
	}
	c, err := ColorFor(PaletteSize)
	if err != nil || c == 0 {
		t.Errorf("ColorFor(PaletteSize) = %s, %v", c, err)
	}
}

func TestFromComponents(t *testing.T) {
	c, err := FromComponents(0x12, 0x34, 0x56)
	if err != nil {
		t.Fatal(err)
	}
	if c.Hex() != "#123456" {
		t.Errorf("Hex() = %s", c.Hex())
	}
	if r, g, b := c.RGB(); r != 0x12 || g != 0x34 || b != 0x56 {
		t.Errorf("RGB() = %d %d %d", r, g, b)
	}

	for _, bad := range [][3]int{{256, 0, 0}, {0, 300, 0}, {0, 0, -1}} {
		if _, err := FromComponents(bad[0], bad[1], bad[2]); !errors.Is(err, ErrInvalidColorComponent) {
			t.Errorf("FromComponents(%v): got %v", bad, err)
		}
	}
}

func TestHexPadding(t *testing.T) {
	if got := Color(1).Hex(); got != "#000001" {
		t.Errorf("got %s", got)
	}
}
