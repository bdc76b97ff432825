package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/scene"
	"github.com/inamate/whiteboard/internal/selection"
)

// SnapshotDebug names the side-by-side view of all three layers.
const SnapshotDebug = "debug"

// --- Queries (frontend ← engine) ---

// Size returns the canvas size in canvas units.
func (e *Engine) Size() (width, height int) {
	return e.opts.Width, e.opts.Height
}

func (e *Engine) PixelRatio() float64 {
	return e.opts.PixelRatio
}

// ClientToDevice converts a position in canvas units to the device pixel
// space pointer input is given in.
func (e *Engine) ClientToDevice(x, y float64) (float64, float64) {
	return x * e.opts.PixelRatio, y * e.opts.PixelRatio
}

// Objects returns the content objects in draw order.
func (e *Engine) Objects() []geometry.Object {
	return e.content.Objects()
}

// UIObjects returns the selection box and handles, if any.
func (e *Engine) UIObjects() []geometry.Object {
	return e.ui.Objects()
}

// Object returns one content object.
func (e *Engine) Object(id int) (geometry.Object, bool) {
	return e.content.Get(id)
}

// Selection returns the selected ids in selection order.
func (e *Engine) Selection() []int {
	return e.controller.Selection()
}

// ActiveHandle returns the handle being held, if any.
func (e *Engine) ActiveHandle() (int, bool) {
	return e.controller.ActiveHandle()
}

// SelectionBounds returns the box enclosing the selection.
func (e *Engine) SelectionBounds() (geometry.Box, bool) {
	return e.controller.SelectionBox()
}

// Dragging reports whether a drag is in progress.
func (e *Engine) Dragging() bool {
	return e.controller.Dragging()
}

// TakeDirty returns the layers changed since the last call and marks
// them clean. The picking layer is redrawn by the engine itself and is
// never reported.
func (e *Engine) TakeDirty() render.Layer {
	d := e.dirty &^ render.LayerPicking
	e.dirty &= render.LayerPicking
	return d
}

// Document snapshots the content registry.
func (e *Engine) Document() *scene.Document {
	return scene.FromRegistry(e.content, e.opts.Width, e.opts.Height)
}

// Pick returns the object under device pixel (x, y) without changing
// any state.
func (e *Engine) Pick(x, y float64) (int, bool, error) {
	if e.destroyed {
		return geometry.NoObject, false, ErrDestroyed
	}
	return e.picking.Pick(x, y)
}

// GetObjects returns the content objects as JSON.
func (e *Engine) GetObjects() string {
	return toJSON(e.content.Objects(), "[]")
}

// GetSelection returns the current selection as JSON.
func (e *Engine) GetSelection() string {
	ids := e.controller.Selection()
	if ids == nil {
		ids = []int{}
	}
	return toJSON(ids, "[]")
}

// GetSelectionBounds returns the bounding box of the current selection as
// JSON, or null when nothing is selected.
func (e *Engine) GetSelectionBounds() string {
	box, ok := e.controller.SelectionBox()
	if !ok {
		return "null"
	}
	return toJSON(box, "null")
}

// GetActiveHandle returns the held handle id as JSON, or null.
func (e *Engine) GetActiveHandle() string {
	id, ok := e.controller.ActiveHandle()
	if !ok {
		return "null"
	}
	return toJSON(id, "null")
}

func toJSON(v any, fallback string) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fallback
	}
	return string(data)
}

// --- Drawing ---

func (e *Engine) layerObjects(layer render.Layer) ([]geometry.Object, render.Mode, error) {
	switch layer {
	case render.LayerPresentation:
		return e.content.Objects(), render.Presentation, nil
	case render.LayerUI:
		return e.ui.Objects(), render.Presentation, nil
	case render.LayerPicking:
		ix := e.picking.Index()
		if ix == nil {
			return nil, 0, fmt.Errorf("draw picking layer: %w", errNotRendered)
		}
		objs := append(e.content.Objects(), e.ui.Objects()...)
		for i, obj := range objs {
			c, ok := ix.ColorOf(obj.ID)
			if !ok {
				return nil, 0, fmt.Errorf("draw picking layer: object %d: %w", obj.ID, errNotRendered)
			}
			objs[i].Color = c.Hex()
		}
		return objs, render.Pickable, nil
	}
	return nil, 0, fmt.Errorf("%w: %s", render.ErrUnknownLayer, layer)
}

var errNotRendered = errors.New("picking layer out of date")

// DrawCommands returns the draw commands of one layer for a Canvas2D
// frontend. Commands carry the device pixel ratio as their transform.
func (e *Engine) DrawCommands(layer render.Layer) ([]render.DrawCommand, error) {
	objs, mode, err := e.layerObjects(layer)
	if err != nil {
		return nil, err
	}
	rec := render.NewRecorder(geometry.ScaleMatrix(e.opts.PixelRatio, e.opts.PixelRatio))
	if err := e.dispatcher.RenderAll(rec, objs, mode); err != nil {
		return nil, err
	}
	return rec.Commands(), nil
}

// LayerImage renders one layer in device pixels. Presentation and UI are
// anti-aliased; the picking layer is the exact surface used for picks.
func (e *Engine) LayerImage(layer render.Layer) (image.Image, error) {
	if layer == render.LayerPicking {
		if e.picking.Index() == nil {
			return nil, errNotRendered
		}
		src := e.picking.Raster().Image()
		img := image.NewRGBA(src.Bounds())
		copy(img.Pix, src.Pix)
		return img, nil
	}

	objs, mode, err := e.layerObjects(layer)
	if err != nil {
		return nil, err
	}
	c := render.NewCanvas(e.opts.Width, e.opts.Height, e.opts.PixelRatio)
	defer c.Close()
	if err := e.dispatcher.RenderAll(c, objs, mode); err != nil {
		return nil, err
	}
	return c.Image(), nil
}

// Snapshot renders the named view: a single layer, "debug" for all three
// side by side, or "" for presentation with the UI on top.
func (e *Engine) Snapshot(name string) (image.Image, error) {
	switch name {
	case "":
		pres, err := e.LayerImage(render.LayerPresentation)
		if err != nil {
			return nil, err
		}
		ui, err := e.LayerImage(render.LayerUI)
		if err != nil {
			return nil, err
		}
		return render.Flatten(pres, ui), nil
	case SnapshotDebug:
		var imgs [3]image.Image
		for i, l := range []render.Layer{render.LayerPresentation, render.LayerUI, render.LayerPicking} {
			img, err := e.LayerImage(l)
			if err != nil {
				return nil, err
			}
			imgs[i] = img
		}
		return render.Compose(e.opts.Width, e.opts.Height, imgs[0], imgs[1], imgs[2]), nil
	}

	layer, err := render.ParseLayer(name)
	if err != nil {
		return nil, err
	}
	return e.LayerImage(layer)
}

// WriteSnapshot encodes the named view as PNG.
func (e *Engine) WriteSnapshot(w io.Writer, name string) error {
	img, err := e.Snapshot(name)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Events bundles every subscription of an engine so callers can release
// them together.
type Events []selection.Subscription

// Unsubscribe releases every subscription.
func (ev Events) Unsubscribe() {
	for _, s := range ev {
		s.Unsubscribe()
	}
}
