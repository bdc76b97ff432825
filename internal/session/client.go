package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/inamate/whiteboard/internal/engine"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/selection"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
)

// Client is the pointer session of one board. Pointer input read from
// the connection drives the board's engine; engine events and redrawn
// layers are written back.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	board    Board
	BoardID  string
	ClientID string

	events    engine.Events
	stopWatch func()
}

func NewClient(hub *Hub, conn *websocket.Conn, boardID string, board Board) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		board:    board,
		BoardID:  boardID,
		ClientID: uuid.New().String(),
	}
}

func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.detach()
		c.hub.unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			c.hub.logger.Debug("read error", "error", err, "client", c.ClientID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.hub.logger.Warn("invalid message", "error", err, "client", c.ClientID)
			c.sendError(errors.New("invalid message"))
			continue
		}

		if err := c.handleMessage(&msg); err != nil {
			c.hub.logger.Debug("message failed", "type", msg.Type, "error", err, "client", c.ClientID)
			c.sendError(err)
		}
	}
}

func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.hub.logger.Debug("write error", "error", err, "client", c.ClientID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.hub.logger.Error("marshal message", "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		c.hub.logger.Warn("client send buffer full, dropping message", "client", c.ClientID)
	}
}

func (c *Client) sendError(err error) {
	c.Send(newMessage(TypeError, ErrorPayload{Message: err.Error()}))
}

func (c *Client) handleMessage(msg *Message) error {
	switch msg.Type {
	case TypePointerDown:
		var p PointerPayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		return c.board.Do(func(e *engine.Engine) error { return e.PointerDown(p.X, p.Y, p.Shift) })

	case TypePointerMove:
		var p PointerPayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		return c.board.Do(func(e *engine.Engine) error { return e.PointerMove(p.X, p.Y) })

	case TypePointerUp:
		return c.board.Do(func(e *engine.Engine) error { return e.PointerUp() })

	case TypePointerCancel:
		return c.board.Do(func(e *engine.Engine) error { return e.PointerCancel() })

	case TypeObjectCreate:
		var p ObjectCreatePayload
		if len(msg.Payload) > 0 {
			if err := decodePayload(msg, &p); err != nil {
				return err
			}
		}
		return c.board.Do(func(e *engine.Engine) error {
			if p.Object == nil {
				_, err := e.AddRandomRectangle()
				return err
			}
			_, err := e.AddObject(*p.Object)
			return err
		})

	case TypeObjectDelete:
		var p ObjectDeletePayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		return c.board.Do(func(e *engine.Engine) error { return e.DeleteObject(p.ID) })
	}
	return fmt.Errorf("unknown message type %q", msg.Type)
}

func decodePayload(msg *Message, v any) error {
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("invalid %s payload: %w", msg.Type, err)
	}
	return nil
}

// attach subscribes to the engine, greets the client and sends a frame
// of every visible layer.
func (c *Client) attach() error {
	err := c.board.Do(func(e *engine.Engine) error {
		c.events = engine.Events{
			e.OnSelectionChanged(func(ids []int) {
				if ids == nil {
					ids = []int{}
				}
				c.Send(newMessage(TypeSelectionChanged, SelectionChangedPayload{IDs: ids}))
			}),
			e.OnHandleChanged(func(h selection.HandleChange) {
				var p HandleChangedPayload
				if h.Active {
					id := h.ID
					p.ID = &id
				}
				c.Send(newMessage(TypeHandleChanged, p))
			}),
			e.OnDragStart(func() { c.Send(newMessage(TypeDragStart, nil)) }),
			e.OnDragDelta(func(d selection.Delta) {
				c.Send(newMessage(TypeDragDelta, DragDeltaPayload{DX: d.DX, DY: d.DY}))
			}),
			e.OnDragEnd(func() { c.Send(newMessage(TypeDragEnd, nil)) }),
		}

		w, h := e.Size()
		selected := e.Selection()
		if selected == nil {
			selected = []int{}
		}
		c.Send(newMessage(TypeWelcome, WelcomePayload{
			BoardID:      c.BoardID,
			ConnectionID: c.ClientID,
			Width:        w,
			Height:       h,
			PixelRatio:   e.PixelRatio(),
			Objects:      e.Objects(),
			Selection:    selected,
		}))

		e.TakeDirty()
		c.sendFrame(e, render.LayerPresentation|render.LayerUI)
		return nil
	})
	if err != nil {
		return err
	}
	c.stopWatch = c.board.Watch(func(e *engine.Engine) {
		if d := e.TakeDirty(); d != 0 {
			c.sendFrame(e, d)
		}
	})
	return nil
}

// detach ends a press left open by the connection and drops every
// subscription. No message is sent to the client afterwards.
func (c *Client) detach() {
	if c.stopWatch != nil {
		c.stopWatch()
	}
	c.board.Do(func(e *engine.Engine) error {
		if e.Dragging() {
			c.hub.logger.Info("connection closed mid-drag, cancelling", "board", c.BoardID)
		}
		err := e.PointerCancel()
		c.events.Unsubscribe()
		if errors.Is(err, engine.ErrDestroyed) {
			return nil
		}
		return err
	})
}

func (c *Client) sendFrame(e *engine.Engine, layers render.Layer) {
	frame := FramePayload{Layers: make(map[string][]render.DrawCommand)}
	for _, l := range []render.Layer{render.LayerPresentation, render.LayerUI} {
		if !layers.Has(l) {
			continue
		}
		cmds, err := e.DrawCommands(l)
		if err != nil {
			c.hub.logger.Error("draw commands", "layer", l, "error", err)
			continue
		}
		if cmds == nil {
			cmds = []render.DrawCommand{}
		}
		frame.Layers[l.String()] = cmds
	}
	if len(frame.Layers) > 0 {
		c.Send(newMessage(TypeFrame, frame))
	}
}
