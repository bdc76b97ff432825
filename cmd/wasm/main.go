//go:build js && wasm

package main

import (
	"encoding/json"
	"log/slog"
	"syscall/js"

	"github.com/inamate/whiteboard/internal/engine"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/scene"
	"github.com/inamate/whiteboard/internal/selection"
)

var (
	eng     *engine.Engine
	events  engine.Events
	onEvent js.Value
)

func main() {
	if err := create(scene.Sample(), 1); err != nil {
		slog.Error("create engine", "error", err)
		return
	}

	// Create the engine API object
	whiteboardEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	whiteboardEngine.Set("loadDocument", js.FuncOf(loadDocument))
	whiteboardEngine.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	whiteboardEngine.Set("setPixelRatio", js.FuncOf(setPixelRatio))
	whiteboardEngine.Set("pointerDown", js.FuncOf(pointerDown))
	whiteboardEngine.Set("pointerMove", js.FuncOf(pointerMove))
	whiteboardEngine.Set("pointerUp", js.FuncOf(pointerUp))
	whiteboardEngine.Set("pointerCancel", js.FuncOf(pointerCancel))
	whiteboardEngine.Set("addRectangle", js.FuncOf(addRectangle))
	whiteboardEngine.Set("deleteObject", js.FuncOf(deleteObject))
	whiteboardEngine.Set("setSelection", js.FuncOf(setSelection))
	whiteboardEngine.Set("onEvent", js.FuncOf(setEventHandler))
	whiteboardEngine.Set("destroy", js.FuncOf(destroy))

	// --- Queries (frontend ← engine) ---
	whiteboardEngine.Set("render", js.FuncOf(renderPicking))
	whiteboardEngine.Set("drawCommands", js.FuncOf(drawCommands))
	whiteboardEngine.Set("dirtyLayers", js.FuncOf(dirtyLayers))
	whiteboardEngine.Set("getObjects", js.FuncOf(getObjects))
	whiteboardEngine.Set("getSelection", js.FuncOf(getSelection))
	whiteboardEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	whiteboardEngine.Set("getActiveHandle", js.FuncOf(getActiveHandle))

	// Register on global scope
	js.Global().Set("whiteboardEngine", whiteboardEngine)

	// Signal that WASM is ready
	js.Global().Set("whiteboardWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// create replaces the engine and re-attaches the event bridge.
func create(doc *scene.Document, dpr float64) error {
	next, err := engine.FromDocument(doc, engine.Options{PixelRatio: dpr})
	if err != nil {
		return err
	}
	if eng != nil {
		events.Unsubscribe()
		eng.Destroy()
	}
	eng = next
	events = engine.Events{
		eng.OnSelectionChanged(func(ids []int) { emit("selectionChanged", ids) }),
		eng.OnHandleChanged(func(h selection.HandleChange) {
			if h.Active {
				emit("handleChanged", h.ID)
				return
			}
			emit("handleChanged", nil)
		}),
		eng.OnDragStart(func() { emit("dragStart", nil) }),
		eng.OnDragDelta(func(d selection.Delta) {
			emit("dragDelta", map[string]interface{}{"dx": d.DX, "dy": d.DY})
		}),
		eng.OnDragEnd(func() { emit("dragEnd", nil) }),
	}
	return nil
}

// emit hands an event to the registered JS callback as (type, payloadJSON).
func emit(typ string, payload interface{}) {
	if onEvent.Type() != js.TypeFunction {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	onEvent.Invoke(typ, string(data))
}

func result(err error) interface{} {
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document JSON"})
	}

	doc, err := scene.Parse([]byte(args[0].String()))
	if err != nil {
		return result(err)
	}
	return result(create(doc, pixelRatioArg(args, 1)))
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	return result(create(scene.Sample(), pixelRatioArg(args, 0)))
}

func pixelRatioArg(args []js.Value, i int) float64 {
	if len(args) > i && args[i].Type() == js.TypeNumber {
		return args[i].Float()
	}
	if dpr := js.Global().Get("devicePixelRatio"); dpr.Type() == js.TypeNumber {
		return dpr.Float()
	}
	return 1
}

func setPixelRatio(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	return result(eng.SetPixelRatio(args[0].Float()))
}

// pointerDown takes device pixel coordinates and the shift key state.
func pointerDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	shift := len(args) > 2 && args[2].Truthy()
	return result(eng.PointerDown(args[0].Float(), args[1].Float(), shift))
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	return result(eng.PointerMove(args[0].Float(), args[1].Float()))
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	return result(eng.PointerUp())
}

func pointerCancel(this js.Value, args []js.Value) interface{} {
	return result(eng.PointerCancel())
}

func addRectangle(this js.Value, args []js.Value) interface{} {
	obj, err := eng.AddRandomRectangle()
	if err != nil {
		return result(err)
	}
	return js.ValueOf(obj.ID)
}

func deleteObject(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	return result(eng.DeleteObject(args[0].Int()))
}

func setSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		return result(eng.Select(nil))
	}

	arr := args[0]
	length := arr.Length()
	ids := make([]int, length)
	for i := 0; i < length; i++ {
		ids[i] = arr.Index(i).Int()
	}
	return result(eng.Select(ids))
}

func setEventHandler(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		onEvent = js.Undefined()
		return nil
	}
	onEvent = args[0]
	return nil
}

func destroy(this js.Value, args []js.Value) interface{} {
	events.Unsubscribe()
	eng.Destroy()
	return nil
}

// --- Query Handlers ---

func renderPicking(this js.Value, args []js.Value) interface{} {
	return result(eng.Render())
}

// drawCommands returns the draw commands of one layer ("presentation",
// "ui" or "picking") as JSON.
func drawCommands(this js.Value, args []js.Value) interface{} {
	name := "presentation"
	if len(args) > 0 {
		name = args[0].String()
	}
	layer, err := render.ParseLayer(name)
	if err != nil {
		return result(err)
	}
	cmds, err := eng.DrawCommands(layer)
	if err != nil {
		return result(err)
	}
	out, err := render.DrawCommandsToJSON(cmds)
	if err != nil {
		return result(err)
	}
	return js.ValueOf(out)
}

// dirtyLayers returns the layers to redraw, e.g. "presentation|ui".
func dirtyLayers(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.TakeDirty().String())
}

func getObjects(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetObjects())
}

func getSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetSelection())
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetSelectionBounds())
}

func getActiveHandle(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetActiveHandle())
}
