package main

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/inamate/whiteboard/internal/engine"
	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/scene"
)

var tuiScene string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive board in the terminal",
	Long: `Open a board in the terminal. Click to select, shift-click to toggle,
drag to move, drag a corner to resize. Keys: a adds a rectangle,
d deletes the selection, q or Esc quits.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiScene, "scene", "", "scene JSON file (default: sample board)")
	rootCmd.AddCommand(tuiCmd)
}

// viewport maps terminal cells onto canvas units. The last row is the
// status line.
type viewport struct {
	cols, rows    int
	width, height float64
}

func (v viewport) cellSize() (float64, float64) {
	return v.width / float64(max(v.cols, 1)), v.height / float64(max(v.rows-1, 1))
}

// toCanvas returns the canvas position at the centre of cell (col, row).
func (v viewport) toCanvas(col, row int) (float64, float64) {
	cw, ch := v.cellSize()
	return (float64(col) + 0.5) * cw, (float64(row) + 0.5) * ch
}

// toCell returns the cell holding canvas position (x, y).
func (v viewport) toCell(x, y float64) (int, int) {
	cw, ch := v.cellSize()
	return int(math.Floor(x / cw)), int(math.Floor(y / ch))
}

type terminalBoard struct {
	screen  tcell.Screen
	eng     *engine.Engine
	view    viewport
	down    bool
	message string
}

func runTUI(cmd *cobra.Command, args []string) error {
	doc, err := scene.LoadFile(tuiScene)
	if err != nil {
		return err
	}
	e, err := engine.FromDocument(doc, engine.Options{
		HandleSize:   defaults.HandleSize,
		MoveInterval: defaults.MoveInterval,
		Logger:       slog.New(slog.DiscardHandler),
	})
	if err != nil {
		return err
	}
	defer e.Destroy()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.Clear()

	w, h := e.Size()
	tb := &terminalBoard{screen: screen, eng: e, view: viewport{width: float64(w), height: float64(h)}}
	sub := e.OnSelectionChanged(func(ids []int) { tb.message = fmt.Sprintf("selected %v", ids) })
	defer sub.Unsubscribe()

	tb.run()
	return nil
}

func (tb *terminalBoard) run() {
	for {
		tb.view.cols, tb.view.rows = tb.screen.Size()
		tb.draw()
		tb.screen.Show()

		switch ev := tb.screen.PollEvent().(type) {
		case *tcell.EventResize:
			tb.screen.Sync()
		case *tcell.EventKey:
			if tb.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			tb.handleMouse(ev)
		}
	}
}

func (tb *terminalBoard) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'a':
			obj, err := tb.eng.AddRandomRectangle()
			tb.report(err, fmt.Sprintf("added %d", obj.ID))
		case 'd':
			for _, id := range tb.eng.Selection() {
				if err := tb.eng.DeleteObject(id); err != nil {
					tb.report(err, "")
					return false
				}
			}
			tb.message = "deleted selection"
		}
	}
	return false
}

func (tb *terminalBoard) handleMouse(ev *tcell.EventMouse) {
	col, row := ev.Position()
	x, y := tb.eng.ClientToDevice(tb.view.toCanvas(col, row))
	pressed := ev.Buttons()&tcell.Button1 != 0

	switch {
	case pressed && !tb.down:
		tb.down = true
		shift := ev.Modifiers()&tcell.ModShift != 0
		tb.report(tb.eng.PointerDown(x, y, shift), "")
	case pressed:
		tb.report(tb.eng.PointerMove(x, y), "")
	case tb.down:
		tb.down = false
		tb.report(tb.eng.PointerUp(), "")
	}
}

func (tb *terminalBoard) report(err error, ok string) {
	if err != nil {
		tb.message = "error: " + err.Error()
		return
	}
	if ok != "" {
		tb.message = ok
	}
}

func (tb *terminalBoard) draw() {
	tb.screen.Clear()
	v := tb.view

	// Content: each cell shows the topmost object under its centre.
	objects := make(map[int]geometry.Object)
	for _, obj := range tb.eng.Objects() {
		objects[obj.ID] = obj
	}
	for row := 0; row < v.rows-1; row++ {
		for col := 0; col < v.cols; col++ {
			x, y := tb.eng.ClientToDevice(v.toCanvas(col, row))
			id, ok, err := tb.eng.Pick(x, y)
			if err != nil || !ok {
				continue
			}
			if obj, found := objects[id]; found {
				style := tcell.StyleDefault.Background(tcell.GetColor(objectColor(obj)))
				tb.screen.SetContent(col, row, ' ', nil, style)
			}
		}
	}

	// Selection box and handles on top.
	if box, ok := tb.eng.SelectionBounds(); ok {
		tb.drawBox(box)
		for _, h := range tb.eng.UIObjects() {
			if h.ID == geometry.HandleBox {
				continue
			}
			cx, cy := h.Box().Center()
			col, row := v.toCell(cx, cy)
			tb.set(col, row, '■', tcell.StyleDefault.Foreground(tcell.GetColor("#1395ff")))
		}
	}

	status := fmt.Sprintf(" selection %s  bounds %s  %s", tb.eng.GetSelection(), tb.eng.GetSelectionBounds(), tb.message)
	for i, r := range []rune(status) {
		tb.screen.SetContent(i, v.rows-1, r, nil, tcell.StyleDefault.Reverse(true))
	}
}

func (tb *terminalBoard) drawBox(box geometry.Box) {
	style := tcell.StyleDefault.Foreground(tcell.GetColor("#1395ff"))
	left, top := tb.view.toCell(box.Left, box.Top)
	right, bottom := tb.view.toCell(box.Right(), box.Bottom())
	for col := left; col <= right; col++ {
		tb.set(col, top, '┄', style)
		tb.set(col, bottom, '┄', style)
	}
	for row := top; row <= bottom; row++ {
		tb.set(left, row, '┆', style)
		tb.set(right, row, '┆', style)
	}
}

func (tb *terminalBoard) set(col, row int, r rune, style tcell.Style) {
	if col < 0 || row < 0 || col >= tb.view.cols || row >= tb.view.rows-1 {
		return
	}
	_, _, existing, _ := tb.screen.GetContent(col, row)
	_, bg, _ := existing.Decompose()
	tb.screen.SetContent(col, row, r, nil, style.Background(bg))
}

func objectColor(obj geometry.Object) string {
	if obj.Color == "" {
		return "#000000"
	}
	return obj.Color
}
