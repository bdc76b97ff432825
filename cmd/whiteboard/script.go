package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inamate/whiteboard/internal/engine"
)

// Step is one line of a gesture script. Positions are canvas units.
type Step struct {
	Op    string
	X, Y  float64
	Shift bool
	IDs   []int
}

// ParseScript parses gesture steps. Each entry may hold several steps
// separated by ';'. Recognised steps:
//
//	down X Y [shift]
//	move X Y
//	up
//	cancel
//	add
//	delete ID
//	select [ID...]
func ParseScript(entries []string) ([]Step, error) {
	var steps []Step
	for _, entry := range entries {
		for _, line := range strings.Split(entry, ";") {
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			step, err := parseStep(fields)
			if err != nil {
				return nil, fmt.Errorf("gesture %q: %w", strings.TrimSpace(line), err)
			}
			steps = append(steps, step)
		}
	}
	return steps, nil
}

func parseStep(fields []string) (Step, error) {
	step := Step{Op: strings.ToLower(fields[0])}
	args := fields[1:]

	switch step.Op {
	case "down", "move":
		if len(args) < 2 {
			return step, fmt.Errorf("%s needs X and Y", step.Op)
		}
		var err error
		if step.X, err = strconv.ParseFloat(args[0], 64); err != nil {
			return step, fmt.Errorf("bad X: %w", err)
		}
		if step.Y, err = strconv.ParseFloat(args[1], 64); err != nil {
			return step, fmt.Errorf("bad Y: %w", err)
		}
		rest := args[2:]
		if step.Op == "down" && len(rest) == 1 && strings.EqualFold(rest[0], "shift") {
			step.Shift = true
			rest = nil
		}
		if len(rest) > 0 {
			return step, fmt.Errorf("unexpected %q", rest[0])
		}
	case "up", "cancel", "add":
		if len(args) > 0 {
			return step, fmt.Errorf("%s takes no arguments", step.Op)
		}
	case "delete", "select":
		for _, a := range args {
			id, err := strconv.Atoi(a)
			if err != nil {
				return step, fmt.Errorf("bad id %q", a)
			}
			step.IDs = append(step.IDs, id)
		}
		if step.Op == "delete" && len(step.IDs) != 1 {
			return step, fmt.Errorf("delete needs one id")
		}
	default:
		return step, fmt.Errorf("unknown step %q", step.Op)
	}
	return step, nil
}

// Replay feeds steps to e in order.
func Replay(e *engine.Engine, steps []Step) error {
	for i, s := range steps {
		var err error
		switch s.Op {
		case "down":
			x, y := e.ClientToDevice(s.X, s.Y)
			err = e.PointerDown(x, y, s.Shift)
		case "move":
			x, y := e.ClientToDevice(s.X, s.Y)
			err = e.PointerMove(x, y)
		case "up":
			err = e.PointerUp()
		case "cancel":
			err = e.PointerCancel()
		case "add":
			_, err = e.AddRandomRectangle()
		case "delete":
			err = e.DeleteObject(s.IDs[0])
		case "select":
			err = e.Select(s.IDs)
		}
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, s.Op, err)
		}
	}
	return nil
}
