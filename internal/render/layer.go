package render

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLayer is returned by ParseLayer for an unrecognised name.
var ErrUnknownLayer = errors.New("render: unknown layer")

// Layer is a set of the engine's drawing layers.
type Layer uint8

const (
	// LayerPresentation holds content objects as the user sees them.
	LayerPresentation Layer = 1 << iota
	// LayerUI holds the selection box and its handles.
	LayerUI
	// LayerPicking is the offscreen flat-color layer.
	LayerPicking

	AllLayers = LayerPresentation | LayerUI | LayerPicking
)

var layerNames = []struct {
	layer Layer
	name  string
}{
	{LayerPresentation, "presentation"},
	{LayerUI, "ui"},
	{LayerPicking, "picking"},
}

// Has reports whether every layer in other is in l.
func (l Layer) Has(other Layer) bool {
	return l&other == other
}

func (l Layer) String() string {
	var parts []string
	for _, n := range layerNames {
		if l.Has(n.layer) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseLayer returns the single layer called name.
func ParseLayer(name string) (Layer, error) {
	for _, n := range layerNames {
		if n.name == name {
			return n.layer, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLayer, name)
}
