package gesture

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/inamate/whiteboard/internal/geometry"
)

// State is the tracker's position in the press/drag cycle.
type State int

const (
	Idle State = iota
	Pressed
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pressed:
		return "pressed"
	case Dragging:
		return "dragging"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Picker resolves a device pixel to the object drawn there.
type Picker interface {
	Pick(x, y float64) (id int, ok bool, err error)
}

// HandleSet reports whether an id belongs to the selection UI.
type HandleSet interface {
	Has(id int) bool
}

// Sink receives the tracker's output.
type Sink interface {
	// ObjectClicked reports a press on content or empty space. id is
	// geometry.NoObject for empty space.
	ObjectClicked(id int, shift bool)
	// HandleClicked reports a press on a selection UI object.
	HandleClicked(id int)
	DragStart()
	// DragDelta reports the pointer offset from the press position, in
	// canvas units.
	DragDelta(dx, dy float64)
	DragEnd()
	// Released reports the end of every press, after DragEnd when the
	// press was a drag.
	Released()
}

// Options configures a Tracker.
type Options struct {
	// PixelRatio converts device pixel offsets to canvas units. Zero means 1.
	PixelRatio float64
	// MoveInterval is the minimum time between two drag deltas. Moves
	// arriving sooner are coalesced into the next delta. Zero disables it.
	MoveInterval time.Duration
	// Now is the clock used for coalescing. Defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// Tracker turns raw pointer input into clicks and drags. Positions are
// device pixels, the space the picking layer is drawn in.
type Tracker struct {
	picker  Picker
	handles HandleSet
	sink    Sink
	opts    Options
	logger  *slog.Logger

	state          State
	startX, startY float64

	lastEmit  time.Time
	pending   bool
	pendingDX float64
	pendingDY float64
}

// NewTracker creates an idle tracker.
func NewTracker(picker Picker, handles HandleSet, sink Sink, opts Options) *Tracker {
	if opts.PixelRatio <= 0 {
		opts.PixelRatio = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Tracker{
		picker:  picker,
		handles: handles,
		sink:    sink,
		opts:    opts,
		logger:  logger,
	}
}

func (t *Tracker) State() State {
	return t.state
}

// SetPixelRatio changes the device pixel ratio for subsequent deltas.
func (t *Tracker) SetPixelRatio(dpr float64) {
	if dpr > 0 {
		t.opts.PixelRatio = dpr
	}
}

// PointerDown picks the object under (x, y) and reports it. A press
// arriving while a previous one is still active ends that one first.
// A pick failure leaves the tracker idle and nothing is reported.
func (t *Tracker) PointerDown(x, y float64, shift bool) error {
	if t.state != Idle {
		t.logger.Warn("pointer down without release", "state", t.state)
		t.Cancel()
	}

	id, ok, err := t.picker.Pick(x, y)
	if err != nil {
		return fmt.Errorf("pick at (%g, %g): %w", x, y, err)
	}

	t.state = Pressed
	t.startX, t.startY = x, y
	t.pending = false
	t.logger.Debug("pointer down", "x", x, "y", y, "id", id, "hit", ok, "shift", shift)

	if ok && t.handles.Has(id) {
		t.sink.HandleClicked(id)
		return nil
	}
	if !ok {
		id = geometry.NoObject
	}
	t.sink.ObjectClicked(id, shift)
	return nil
}

// PointerMove starts or continues a drag. Moves while idle are ignored.
func (t *Tracker) PointerMove(x, y float64) {
	if t.state == Idle {
		return
	}

	dx := (x - t.startX) / t.opts.PixelRatio
	dy := (y - t.startY) / t.opts.PixelRatio

	if t.state == Pressed {
		if dx == 0 && dy == 0 {
			return
		}
		t.state = Dragging
		t.logger.Debug("drag start", "x", x, "y", y)
		t.sink.DragStart()
		t.emit(dx, dy)
		return
	}

	if t.opts.MoveInterval > 0 && t.opts.Now().Sub(t.lastEmit) < t.opts.MoveInterval {
		t.pending = true
		t.pendingDX, t.pendingDY = dx, dy
		return
	}
	t.emit(dx, dy)
}

// PointerUp ends the press. A drag delivers any coalesced move and then
// exactly one DragEnd.
func (t *Tracker) PointerUp() {
	switch t.state {
	case Idle:
		return
	case Dragging:
		t.flush()
		t.logger.Debug("drag end")
		t.sink.DragEnd()
	}
	t.state = Idle
	t.sink.Released()
}

// Cancel ends the press as if the pointer had been released, for input
// lost outside the canvas or on focus loss.
func (t *Tracker) Cancel() {
	t.PointerUp()
}

func (t *Tracker) emit(dx, dy float64) {
	t.pending = false
	t.lastEmit = t.opts.Now()
	t.sink.DragDelta(dx, dy)
}

func (t *Tracker) flush() {
	if t.pending {
		t.emit(t.pendingDX, t.pendingDY)
	}
}
