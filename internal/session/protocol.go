package session

import (
	"encoding/json"

	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/render"
)

type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client to server
	TypePointerDown   = "pointer.down"
	TypePointerMove   = "pointer.move"
	TypePointerUp     = "pointer.up"
	TypePointerCancel = "pointer.cancel"
	TypeObjectCreate  = "object.create"
	TypeObjectDelete  = "object.delete"

	// Server to client
	TypeWelcome          = "welcome"
	TypeSelectionChanged = "selection.changed"
	TypeHandleChanged    = "handle.changed"
	TypeDragStart        = "drag.start"
	TypeDragDelta        = "drag.delta"
	TypeDragEnd          = "drag.end"
	TypeFrame            = "frame"
	TypeError            = "error"
)

// PointerPayload is a pointer position in device pixels.
type PointerPayload struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Shift bool    `json:"shift,omitempty"`
}

// ObjectCreatePayload adds Object, or a random rectangle when it is nil.
type ObjectCreatePayload struct {
	Object *geometry.Object `json:"object,omitempty"`
}

type ObjectDeletePayload struct {
	ID int `json:"id"`
}

type WelcomePayload struct {
	BoardID      string            `json:"boardId"`
	ConnectionID string            `json:"connectionId"`
	Width        int               `json:"width"`
	Height       int               `json:"height"`
	PixelRatio   float64           `json:"pixelRatio"`
	Objects      []geometry.Object `json:"objects"`
	Selection    []int             `json:"selection"`
}

type SelectionChangedPayload struct {
	IDs []int `json:"ids"`
}

// HandleChangedPayload carries the held handle, or no id once released.
type HandleChangedPayload struct {
	ID *int `json:"id,omitempty"`
}

type DragDeltaPayload struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// FramePayload holds the draw commands of the layers that changed.
type FramePayload struct {
	Layers map[string][]render.DrawCommand `json:"layers"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func newMessage(typ string, payload any) *Message {
	msg := &Message{Type: typ}
	if payload != nil {
		msg.Payload, _ = json.Marshal(payload)
	}
	return msg
}
