package selection

import (
	"log/slog"
	"slices"

	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/scene"
)

// Options configures a Controller.
type Options struct {
	// HandleSize is the side of a corner handle. Zero means
	// geometry.DefaultHandleSize.
	HandleSize float64
	// Invalidate is called with the layers that must be redrawn after a
	// change. The caller decides when to draw them.
	Invalidate func(render.Layer)
	Logger     *slog.Logger
}

// Controller owns the selection. It turns tracker output into selection
// changes and group translate/scale edits of the content registry, and
// keeps the selection box and handles in the UI registry.
//
// Content geometry is written only during a drag; the UI registry is
// written on every selection change. Not safe for concurrent use.
type Controller struct {
	content *scene.Registry
	ui      *scene.Registry
	opts    Options
	logger  *slog.Logger

	selected     []int
	activeHandle int
	drag         *dragSession
	destroyed    bool

	selectionChanged listeners[[]int]
	handleChanged    listeners[HandleChange]
	dragStarted      listeners[struct{}]
	dragMoved        listeners[Delta]
	dragEnded        listeners[struct{}]
}

// dragSession is the state captured at drag start.
type dragSession struct {
	ref     geometry.Box
	hasRef  bool
	objects map[int]geometry.Object
	scale   bool

	lastDX, lastDY float64
}

// NewController creates a controller with an empty selection.
func NewController(content, ui *scene.Registry, opts Options) *Controller {
	if opts.HandleSize <= 0 {
		opts.HandleSize = geometry.DefaultHandleSize
	}
	if opts.Invalidate == nil {
		opts.Invalidate = func(render.Layer) {}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		content:      content,
		ui:           ui,
		opts:         opts,
		logger:       logger,
		activeHandle: geometry.NoObject,
	}
}

// Selection returns the selected ids in selection order.
func (c *Controller) Selection() []int {
	return slices.Clone(c.selected)
}

// ActiveHandle returns the handle being held, if any.
func (c *Controller) ActiveHandle() (int, bool) {
	return c.activeHandle, c.activeHandle != geometry.NoObject
}

// Dragging reports whether a drag session is live.
func (c *Controller) Dragging() bool {
	return c.drag != nil
}

// SelectionBox returns the box enclosing the selected objects.
func (c *Controller) SelectionBox() (geometry.Box, bool) {
	box, err := geometry.ComputeSelectionBox(c.content.Lookup(c.selected))
	if err != nil {
		return geometry.Box{}, false
	}
	return box, true
}

func (c *Controller) OnSelectionChanged(fn func(ids []int)) Subscription {
	return c.selectionChanged.add(fn)
}

func (c *Controller) OnHandleChanged(fn func(HandleChange)) Subscription {
	return c.handleChanged.add(fn)
}

func (c *Controller) OnDragStart(fn func()) Subscription {
	return c.dragStarted.add(func(struct{}) { fn() })
}

func (c *Controller) OnDragDelta(fn func(Delta)) Subscription {
	return c.dragMoved.add(fn)
}

func (c *Controller) OnDragEnd(fn func()) Subscription {
	return c.dragEnded.add(func(struct{}) { fn() })
}

// Destroy drops every subscription and ignores further input. It is safe
// to call more than once.
func (c *Controller) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.drag = nil
	c.selectionChanged.clear()
	c.handleChanged.clear()
	c.dragStarted.clear()
	c.dragMoved.clear()
	c.dragEnded.clear()
}

// ObjectClicked applies click semantics: empty space clears, a plain
// click on an unselected object selects only it, a plain click on a
// selected object keeps the selection, and shift toggles membership
// while keeping the order of the others.
func (c *Controller) ObjectClicked(id int, shift bool) {
	if c.destroyed {
		return
	}
	c.setActiveHandle(geometry.NoObject)

	next := c.selected
	switch {
	case id == geometry.NoObject:
		next = nil
	case shift && slices.Contains(c.selected, id):
		next = slices.DeleteFunc(slices.Clone(c.selected), func(s int) bool { return s == id })
	case shift:
		next = append(slices.Clone(c.selected), id)
	case !slices.Contains(c.selected, id):
		next = []int{id}
	}
	c.setSelection(next)
}

// HandleClicked marks a handle as held. The selection is unchanged.
func (c *Controller) HandleClicked(id int) {
	if c.destroyed {
		return
	}
	c.setActiveHandle(id)
}

// DragStart snapshots the selection box and the selected objects. Scaling
// is always computed against this snapshot.
func (c *Controller) DragStart() {
	if c.destroyed {
		return
	}

	s := &dragSession{objects: make(map[int]geometry.Object, len(c.selected))}
	for _, obj := range c.content.Lookup(c.selected) {
		s.objects[obj.ID] = obj
	}
	if box, ok := c.SelectionBox(); ok {
		s.ref, s.hasRef = box, true
	}

	if c.activeHandle != geometry.NoObject && s.hasRef {
		s.scale = true
		if s.ref.IsDegenerate() {
			c.logger.Warn("degenerate selection box, resize disabled for this drag", "box", s.ref)
			s.scale = false
		}
	}
	c.drag = s
	c.logger.Debug("drag start", "selected", len(c.selected), "handle", c.activeHandle)
	c.dragStarted.emit(struct{}{})
}

// DragDelta applies a drag offset measured from the press. With a held
// handle the selection is rescaled from the snapshot; otherwise selected
// objects and the selection UI move by the change since the last delta.
func (c *Controller) DragDelta(dx, dy float64) {
	if c.destroyed || c.drag == nil {
		return
	}
	s := c.drag

	switch {
	case !s.hasRef:
		// nothing selected
	case c.activeHandle != geometry.NoObject:
		if s.scale {
			c.rescale(s, dx, dy)
		}
	default:
		c.translate(dx-s.lastDX, dy-s.lastDY)
	}
	s.lastDX, s.lastDY = dx, dy

	if s.hasRef {
		c.opts.Invalidate(render.LayerPresentation | render.LayerUI)
	}
	c.dragMoved.emit(Delta{DX: dx, DY: dy})
}

// DragEnd closes the drag session and refreshes the selection UI from the
// final object geometry.
func (c *Controller) DragEnd() {
	if c.destroyed || c.drag == nil {
		return
	}
	moved := c.drag.hasRef
	c.drag = nil
	if moved {
		c.layout()
		c.opts.Invalidate(render.AllLayers)
	}
	c.logger.Debug("drag end")
	c.dragEnded.emit(struct{}{})
}

// Released drops the held handle at the end of every press.
func (c *Controller) Released() {
	if c.destroyed {
		return
	}
	c.setActiveHandle(geometry.NoObject)
}

// Prune removes selected ids no longer present in the content registry
// and refreshes the selection UI.
func (c *Controller) Prune() {
	if c.destroyed {
		return
	}
	next := slices.DeleteFunc(slices.Clone(c.selected), func(id int) bool { return !c.content.Has(id) })
	if len(next) != len(c.selected) {
		c.setSelection(next)
		return
	}
	c.layout()
	c.opts.Invalidate(render.LayerUI | render.LayerPicking)
}

// Select replaces the selection. Unknown ids are dropped.
func (c *Controller) Select(ids []int) {
	if c.destroyed {
		return
	}
	var next []int
	for _, id := range ids {
		if !c.content.Has(id) {
			c.logger.Warn("ignoring unknown id in selection", "id", id)
			continue
		}
		if !slices.Contains(next, id) {
			next = append(next, id)
		}
	}
	c.setSelection(next)
}

func (c *Controller) rescale(s *dragSession, dx, dy float64) {
	box := geometry.RescaleBox(c.activeHandle, s.ref, dx, dy)
	for _, id := range c.selected {
		ref, ok := s.objects[id]
		if !ok || !c.content.Has(id) {
			continue
		}
		c.content.Set(geometry.ScaleObjectToBox(s.ref, box, ref))
	}
	c.writeHandles(box)
}

func (c *Controller) translate(dx, dy float64) {
	for _, obj := range c.content.Lookup(c.selected) {
		c.content.Set(geometry.Translate(obj, dx, dy))
	}
	for _, id := range geometry.HandleIDs() {
		if h, ok := c.ui.Get(id); ok {
			c.ui.Set(geometry.Translate(h, dx, dy))
		}
	}
}

func (c *Controller) setSelection(ids []int) {
	changed := !slices.Equal(ids, c.selected)
	c.selected = ids
	c.layout()
	// Content pixels are unchanged by a selection change; only handles move.
	c.opts.Invalidate(render.LayerUI | render.LayerPicking)
	if changed {
		c.logger.Debug("selection changed", "ids", ids)
		c.selectionChanged.emit(slices.Clone(ids))
	}
}

func (c *Controller) setActiveHandle(id int) {
	if id == c.activeHandle {
		return
	}
	c.activeHandle = id
	c.handleChanged.emit(HandleChange{ID: id, Active: id != geometry.NoObject})
}

// layout rebuilds the handles from the current selection, or removes them
// when nothing is selected.
func (c *Controller) layout() {
	box, ok := c.SelectionBox()
	if !ok {
		for _, id := range geometry.HandleIDs() {
			c.ui.Delete(id)
		}
		return
	}
	c.writeHandles(box)
}

func (c *Controller) writeHandles(box geometry.Box) {
	for _, h := range geometry.LayoutHandles(box, c.opts.HandleSize) {
		c.ui.Set(h)
	}
}
