package picking

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/scene"
)

// ErrNotRendered is returned by Pick before the first successful Render.
var ErrNotRendered = errors.New("picking: layer not rendered")

// Layer is the offscreen picking surface. Every content and UI object is
// drawn flat in its own color; a pick reads one pixel back and resolves
// it through the index of the same pass.
type Layer struct {
	raster     *render.Raster
	dispatcher *render.Dispatcher
	content    *scene.Registry
	ui         *scene.Registry
	logger     *slog.Logger

	index *Index
}

// NewLayer creates a picking layer drawing content then ui onto raster.
// A nil logger discards output.
func NewLayer(raster *render.Raster, dispatcher *render.Dispatcher, content, ui *scene.Registry, logger *slog.Logger) *Layer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Layer{
		raster:     raster,
		dispatcher: dispatcher,
		content:    content,
		ui:         ui,
		logger:     logger,
	}
}

// Render clears the raster, allocates colors for the current objects and
// draws them. The previous index is dropped before drawing, so a failed
// pass leaves the layer unpickable rather than stale.
func (l *Layer) Render() error {
	l.index = nil
	l.raster.Clear()

	objs := append(l.content.Objects(), l.ui.Objects()...)
	ix, tagged, err := BuildIndex(objs)
	if err != nil {
		return fmt.Errorf("build picking index: %w", err)
	}
	if err := l.dispatcher.RenderAll(l.raster, tagged, render.Pickable); err != nil {
		return fmt.Errorf("render picking layer: %w", err)
	}

	l.index = ix
	l.logger.Debug("picking layer rendered", "objects", ix.Len())
	return nil
}

// Index returns the index of the last successful pass, or nil.
func (l *Layer) Index() *Index {
	return l.index
}

// Raster returns the picking surface.
func (l *Layer) Raster() *render.Raster {
	return l.raster
}

// Pick returns the object under device pixel (x, y). ok is false when the
// pixel shows no object.
func (l *Layer) Pick(x, y float64) (id int, ok bool, err error) {
	if l.index == nil {
		return geometry.NoObject, false, ErrNotRendered
	}

	p := l.raster.PixelAt(int(math.Floor(x)), int(math.Floor(y)))
	if p.A == 0 {
		return geometry.NoObject, false, nil
	}
	return l.Resolve(int(p.R), int(p.G), int(p.B))
}

// Resolve maps sampled channels to an object of the current pass. It is
// used directly when the pixel is read back from a surface outside Go.
func (l *Layer) Resolve(r, g, b int) (id int, ok bool, err error) {
	if l.index == nil {
		return geometry.NoObject, false, ErrNotRendered
	}
	c, err := FromComponents(r, g, b)
	if err != nil {
		return geometry.NoObject, false, err
	}
	id, ok = l.index.Lookup(c)
	if !ok {
		return geometry.NoObject, false, nil
	}
	return id, true, nil
}
