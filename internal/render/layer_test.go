package render

import (
	"errors"
	"testing"
)

func TestLayerSet(t *testing.T) {
	l := LayerPresentation | LayerPicking
	if !l.Has(LayerPicking) || l.Has(LayerUI) {
		t.Errorf("Has broken for %s", l)
	}
	if got := l.String(); got != "presentation|picking" {
		t.Errorf("String() = %q", got)
	}
	if got := Layer(0).String(); got != "none" {
		t.Errorf("empty String() = %q", got)
	}
}

func TestParseLayer(t *testing.T) {
	for _, name := range []string{"presentation", "ui", "picking"} {
		l, err := ParseLayer(name)
		if err != nil || l.String() != name {
			t.Errorf("ParseLayer(%q) = %s, %v", name, l, err)
		}
	}
	if _, err := ParseLayer("debug"); !errors.Is(err, ErrUnknownLayer) {
		t.Errorf("got %v, want ErrUnknownLayer", err)
	}
}
