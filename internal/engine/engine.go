package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/gesture"
	"github.com/inamate/whiteboard/internal/picking"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/scene"
	"github.com/inamate/whiteboard/internal/selection"
)

var (
	ErrDestroyed  = errors.New("engine: destroyed")
	ErrDragActive = errors.New("engine: drag in progress")
)

// Options configures an Engine.
type Options struct {
	// Width and Height are the canvas size in canvas units (CSS pixels).
	Width  int
	Height int
	// PixelRatio is the device pixel ratio of the picking surface.
	PixelRatio   float64
	HandleSize   float64
	MoveInterval time.Duration
	// Now is the clock used for move coalescing.
	Now    func() time.Time
	Rand   *rand.Rand
	Logger *slog.Logger
}

func (o *Options) setDefaults() {
	if o.Width <= 0 {
		o.Width = scene.DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = scene.DefaultHeight
	}
	if o.PixelRatio <= 0 {
		o.PixelRatio = 1
	}
	if o.HandleSize <= 0 {
		o.HandleSize = geometry.DefaultHandleSize
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
}

// Engine is the selection and hit-testing core for one canvas. It owns
// the picking surface, the gesture tracker and the selection controller,
// and shares the content and UI registries with its caller.
//
// Pointer positions are device pixels. Engine is not safe for concurrent
// use; every method runs to completion before the next is called.
type Engine struct {
	opts    Options
	logger  *slog.Logger
	content *scene.Registry
	ui      *scene.Registry

	dispatcher *render.Dispatcher
	picking    *picking.Layer
	tracker    *gesture.Tracker
	controller *selection.Controller

	// Layers changed since the caller last drew them.
	dirty     render.Layer
	destroyed bool
}

// New creates an engine over content and ui and renders the picking layer
// once. A nil registry is replaced by an empty one.
func New(content, ui *scene.Registry, opts Options) (*Engine, error) {
	opts.setDefaults()
	if content == nil {
		content = scene.NewRegistry()
	}
	if ui == nil {
		ui = scene.NewRegistry()
	}
	for _, obj := range content.Objects() {
		if err := scene.ValidateContent(obj); err != nil {
			return nil, err
		}
	}

	e := &Engine{
		opts:       opts,
		logger:     opts.Logger,
		content:    content,
		ui:         ui,
		dispatcher: render.NewDispatcher(),
		dirty:      render.AllLayers,
	}
	raster := render.NewRaster(opts.Width, opts.Height, opts.PixelRatio)
	e.picking = picking.NewLayer(raster, e.dispatcher, content, ui, opts.Logger)
	e.controller = selection.NewController(content, ui, selection.Options{
		HandleSize: opts.HandleSize,
		Invalidate: e.invalidate,
		Logger:     opts.Logger,
	})
	e.tracker = gesture.NewTracker(e.picking, ui, e.controller, gesture.Options{
		PixelRatio:   opts.PixelRatio,
		MoveInterval: opts.MoveInterval,
		Now:          opts.Now,
		Logger:       opts.Logger,
	})

	if err := e.Render(); err != nil {
		return nil, err
	}
	return e, nil
}

// FromDocument creates an engine holding the document's objects. The
// document's canvas size is used where opts leaves it unset.
func FromDocument(doc *scene.Document, opts Options) (*Engine, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if opts.Width <= 0 {
		opts.Width = doc.Width
	}
	if opts.Height <= 0 {
		opts.Height = doc.Height
	}
	return New(doc.Registry(), nil, opts)
}

// --- Commands (frontend → engine) ---

// Render redraws the picking layer and rebuilds its color index. Calling
// it again without changes yields the same index.
func (e *Engine) Render() error {
	if e.destroyed {
		return ErrDestroyed
	}
	if err := e.picking.Render(); err != nil {
		return err
	}
	e.dirty &^= render.LayerPicking
	return nil
}

// PointerDown handles a press at device pixel (x, y).
func (e *Engine) PointerDown(x, y float64, shift bool) error {
	if e.destroyed {
		return ErrDestroyed
	}
	if err := e.tracker.PointerDown(x, y, shift); err != nil {
		return err
	}
	return e.flush()
}

// PointerMove handles pointer motion at device pixel (x, y).
func (e *Engine) PointerMove(x, y float64) error {
	if e.destroyed {
		return ErrDestroyed
	}
	e.tracker.PointerMove(x, y)
	return e.flush()
}

// PointerUp handles the release of the pointer.
func (e *Engine) PointerUp() error {
	if e.destroyed {
		return ErrDestroyed
	}
	e.tracker.PointerUp()
	return e.flush()
}

// PointerCancel ends the current press as a release, for a pointer that
// left the canvas or a window that lost focus.
func (e *Engine) PointerCancel() error {
	if e.destroyed {
		return ErrDestroyed
	}
	e.tracker.Cancel()
	return e.flush()
}

// SetPixelRatio changes the device pixel ratio. The picking surface is
// recreated at the new resolution.
func (e *Engine) SetPixelRatio(dpr float64) error {
	if e.destroyed {
		return ErrDestroyed
	}
	if dpr <= 0 || dpr == e.opts.PixelRatio {
		return nil
	}
	if e.tracker.State() != gesture.Idle {
		return ErrDragActive
	}
	e.opts.PixelRatio = dpr
	e.tracker.SetPixelRatio(dpr)
	raster := render.NewRaster(e.opts.Width, e.opts.Height, dpr)
	e.picking = picking.NewLayer(raster, e.dispatcher, e.content, e.ui, e.logger)
	e.tracker = gesture.NewTracker(e.picking, e.ui, e.controller, gesture.Options{
		PixelRatio:   dpr,
		MoveInterval: e.opts.MoveInterval,
		Now:          e.opts.Now,
		Logger:       e.logger,
	})
	e.dirty = render.AllLayers
	return e.Render()
}

// AddObject adds a content object. An id of zero is replaced with the
// next free id. The stored object is returned.
func (e *Engine) AddObject(obj geometry.Object) (geometry.Object, error) {
	if err := e.checkWritable(); err != nil {
		return geometry.Object{}, err
	}
	if obj.ID == geometry.NoObject {
		obj.ID = scene.NextID(e.content)
	}
	if obj.Kind == "" {
		obj.Kind = geometry.KindRectangle
	}
	if err := scene.ValidateContent(obj); err != nil {
		return geometry.Object{}, err
	}
	if e.content.Has(obj.ID) {
		return geometry.Object{}, fmt.Errorf("%w: %d", scene.ErrDuplicateID, obj.ID)
	}

	e.content.Set(obj)
	e.invalidate(render.LayerPresentation | render.LayerPicking)
	e.logger.Debug("object added", "id", obj.ID)
	return obj, e.flush()
}

// AddRandomRectangle adds a randomly sized and colored rectangle inside
// the canvas.
func (e *Engine) AddRandomRectangle() (geometry.Object, error) {
	obj := scene.RandomRectangle(e.opts.Rand, float64(e.opts.Width), float64(e.opts.Height))
	return e.AddObject(obj)
}

// UpdateObject replaces an existing content object.
func (e *Engine) UpdateObject(obj geometry.Object) error {
	if err := e.checkWritable(); err != nil {
		return err
	}
	if !e.content.Has(obj.ID) {
		return fmt.Errorf("%w: %d", scene.ErrNotFound, obj.ID)
	}
	if err := scene.ValidateContent(obj); err != nil {
		return err
	}

	e.content.Set(obj)
	e.controller.Prune()
	e.invalidate(render.LayerPresentation | render.LayerPicking)
	return e.flush()
}

// DeleteObject removes a content object and drops it from the selection.
func (e *Engine) DeleteObject(id int) error {
	if err := e.checkWritable(); err != nil {
		return err
	}
	if !e.content.Delete(id) {
		return fmt.Errorf("%w: %d", scene.ErrNotFound, id)
	}

	e.controller.Prune()
	e.invalidate(render.LayerPresentation | render.LayerPicking)
	e.logger.Debug("object deleted", "id", id)
	return e.flush()
}

// Select replaces the selection with ids. Unknown ids are ignored.
func (e *Engine) Select(ids []int) error {
	if err := e.checkWritable(); err != nil {
		return err
	}
	e.controller.Select(ids)
	return e.flush()
}

// Destroy releases every subscription and stops accepting input. It is
// safe to call more than once.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.tracker.Cancel()
	e.controller.Destroy()
	e.destroyed = true
}

// --- Subscriptions ---

func (e *Engine) OnSelectionChanged(fn func(ids []int)) selection.Subscription {
	return e.controller.OnSelectionChanged(fn)
}

func (e *Engine) OnHandleChanged(fn func(selection.HandleChange)) selection.Subscription {
	return e.controller.OnHandleChanged(fn)
}

func (e *Engine) OnDragStart(fn func()) selection.Subscription {
	return e.controller.OnDragStart(fn)
}

func (e *Engine) OnDragDelta(fn func(selection.Delta)) selection.Subscription {
	return e.controller.OnDragDelta(fn)
}

func (e *Engine) OnDragEnd(fn func()) selection.Subscription {
	return e.controller.OnDragEnd(fn)
}

// --- Internal ---

func (e *Engine) invalidate(l render.Layer) {
	e.dirty |= l
}

// flush redraws the picking layer if a change made it stale, so the next
// press always resolves against the current objects.
func (e *Engine) flush() error {
	if !e.dirty.Has(render.LayerPicking) {
		return nil
	}
	if err := e.Render(); err != nil {
		e.logger.Error("render picking layer", "error", err)
		return err
	}
	return nil
}

func (e *Engine) checkWritable() error {
	if e.destroyed {
		return ErrDestroyed
	}
	if e.controller.Dragging() {
		return ErrDragActive
	}
	return nil
}
