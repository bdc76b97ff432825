package render

import (
	"encoding/json"

	"github.com/inamate/whiteboard/internal/geometry"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op          string    `json:"op"`                    // Operation: "save", "restore", "fill", "stroke"
	ObjectID    int       `json:"objectId,omitempty"`    // Object being drawn
	Transform   []float64 `json:"transform,omitempty"`   // [a, b, c, d, e, f] affine matrix
	Rect        []float64 `json:"rect,omitempty"`        // [x, y, width, height]
	Radius      float64   `json:"radius,omitempty"`      // Corner radius for roundRect
	Fill        string    `json:"fill,omitempty"`        // Fill color
	Stroke      string    `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64   `json:"strokeWidth,omitempty"` // Stroke width
	Dash        []float64 `json:"dash,omitempty"`        // Line dash pattern
}

// Recorder is a Surface that captures draw commands instead of painting.
// Commands are in painter's order (back to front).
type Recorder struct {
	transform geometry.Matrix2D
	commands  []DrawCommand
	objectID  int

	state recorderState
	stack []recorderState

	rect    []float64
	radius  float64
	hasPath bool
}

type recorderState struct {
	fill, stroke string
	lineWidth    float64
	dash         []float64
}

// NewRecorder creates a recorder whose fill and stroke commands carry
// transform, typically the device pixel ratio scale.
func NewRecorder(transform geometry.Matrix2D) *Recorder {
	return &Recorder{
		transform: transform,
		state:     recorderState{fill: DefaultFill, stroke: DefaultFill, lineWidth: 1},
	}
}

// Commands returns the recorded commands.
func (r *Recorder) Commands() []DrawCommand {
	return r.commands
}

// Reset drops every recorded command.
func (r *Recorder) Reset() {
	r.commands = r.commands[:0]
	r.stack = r.stack[:0]
	r.hasPath = false
	r.objectID = 0
}

func (r *Recorder) BeginObject(id int) {
	r.objectID = id
}

func (r *Recorder) Push() {
	r.stack = append(r.stack, r.state)
	r.commands = append(r.commands, DrawCommand{Op: "save", ObjectID: r.objectID})
}

func (r *Recorder) Pop() {
	if len(r.stack) == 0 {
		return
	}
	r.state = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	r.commands = append(r.commands, DrawCommand{Op: "restore", ObjectID: r.objectID})
}

func (r *Recorder) SetFillColor(hex string)    { r.state.fill = hex }
func (r *Recorder) SetStrokeColor(hex string)  { r.state.stroke = hex }
func (r *Recorder) SetLineWidth(width float64) { r.state.lineWidth = width }

func (r *Recorder) SetDash(lengths ...float64) {
	r.state.dash = append([]float64(nil), lengths...)
}

func (r *Recorder) Rect(x, y, w, h float64) {
	r.RoundedRect(x, y, w, h, 0)
}

func (r *Recorder) RoundedRect(x, y, w, h, radius float64) {
	r.rect = []float64{x, y, w, h}
	r.radius = radius
	r.hasPath = true
}

func (r *Recorder) Fill() error {
	if !r.hasPath {
		return nil
	}
	r.commands = append(r.commands, DrawCommand{
		Op:        "fill",
		ObjectID:  r.objectID,
		Transform: r.transform.ToSlice(),
		Rect:      r.rect,
		Radius:    r.radius,
		Fill:      r.state.fill,
	})
	return nil
}

func (r *Recorder) Stroke() error {
	if !r.hasPath {
		return nil
	}
	r.commands = append(r.commands, DrawCommand{
		Op:          "stroke",
		ObjectID:    r.objectID,
		Transform:   r.transform.ToSlice(),
		Rect:        r.rect,
		Radius:      r.radius,
		Stroke:      r.state.stroke,
		StrokeWidth: r.state.lineWidth,
		Dash:        r.state.dash,
	})
	return nil
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
