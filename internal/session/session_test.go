package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/inamate/whiteboard/internal/engine"
	"github.com/inamate/whiteboard/internal/scene"
)

type testBoard struct {
	mu       sync.Mutex
	eng      *engine.Engine
	watchers map[int]func(*engine.Engine)
	next     int
}

func (b *testBoard) Do(fn func(*engine.Engine) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	err := fn(b.eng)
	for _, w := range b.watchers {
		w(b.eng)
	}
	return err
}

func (b *testBoard) Watch(fn func(*engine.Engine)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	id := b.next
	b.watchers[id] = fn
	return func() {
		b.mu.Lock()
		delete(b.watchers, id)
		b.mu.Unlock()
	}
}

func newTestServer(t *testing.T) (*Hub, *testBoard, string) {
	t.Helper()
	eng, err := engine.New(scene.NewRegistry(scene.DefaultObjects()...), nil, engine.Options{Width: 400, Height: 400})
	if err != nil {
		t.Fatal(err)
	}
	board := &testBoard{eng: eng, watchers: make(map[int]func(*engine.Engine))}
	hub := NewHub(slog.New(slog.DiscardHandler))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(r.Context(), conn, "board_test", board)
	}))
	t.Cleanup(srv.Close)
	return hub, board, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := wsjson.Write(ctx, conn, newMessage(typ, payload)); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func expect(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var msg Message
	if err := wsjson.Read(ctx, conn, &msg); err != nil {
		t.Fatalf("waiting for %s: %v", typ, err)
	}
	if msg.Type != typ {
		t.Fatalf("got %s (%s), want %s", msg.Type, msg.Payload, typ)
	}
	if payload != nil {
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			t.Fatalf("decode %s payload: %v", typ, err)
		}
	}
}

func layerNames(f FramePayload) []string {
	var names []string
	for name := range f.Layers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func TestPointerSession(t *testing.T) {
	_, _, url := newTestServer(t)
	conn := dial(t, url)

	var welcome WelcomePayload
	expect(t, conn, TypeWelcome, &welcome)
	if welcome.BoardID != "board_test" || len(welcome.Objects) != 5 || welcome.Width != 400 {
		t.Errorf("welcome = %+v", welcome)
	}
	if welcome.ConnectionID == "" || welcome.Selection == nil {
		t.Errorf("welcome = %+v", welcome)
	}

	var frame FramePayload
	expect(t, conn, TypeFrame, &frame)
	if got := layerNames(frame); !slices.Equal(got, []string{"presentation", "ui"}) {
		t.Errorf("first frame layers = %v", got)
	}
	if len(frame.Layers["presentation"]) == 0 {
		t.Error("empty presentation layer")
	}

	send(t, conn, TypePointerDown, PointerPayload{X: 150, Y: 150})
	var sel SelectionChangedPayload
	expect(t, conn, TypeSelectionChanged, &sel)
	if !slices.Equal(sel.IDs, []int{1}) {
		t.Errorf("selection = %v", sel.IDs)
	}
	frame = FramePayload{}
	expect(t, conn, TypeFrame, &frame)
	if got := layerNames(frame); !slices.Equal(got, []string{"ui"}) {
		t.Errorf("click frame layers = %v", got)
	}

	send(t, conn, TypePointerMove, PointerPayload{X: 160, Y: 150})
	expect(t, conn, TypeDragStart, nil)
	var delta DragDeltaPayload
	expect(t, conn, TypeDragDelta, &delta)
	if delta.DX != 10 || delta.DY != 0 {
		t.Errorf("delta = %+v", delta)
	}
	frame = FramePayload{}
	expect(t, conn, TypeFrame, &frame)
	if got := layerNames(frame); !slices.Equal(got, []string{"presentation", "ui"}) {
		t.Errorf("drag frame layers = %v", got)
	}

	send(t, conn, TypePointerUp, nil)
	expect(t, conn, TypeDragEnd, nil)
	expect(t, conn, TypeFrame, nil)

	send(t, conn, "bogus", nil)
	var perr ErrorPayload
	expect(t, conn, TypeError, &perr)
	if !strings.Contains(perr.Message, "bogus") {
		t.Errorf("error = %q", perr.Message)
	}

	send(t, conn, TypeObjectCreate, nil)
	expect(t, conn, TypeFrame, nil)

	send(t, conn, TypeObjectDelete, ObjectDeletePayload{ID: 99})
	expect(t, conn, TypeError, nil)
}

func TestHandleChangedCarriesID(t *testing.T) {
	_, _, url := newTestServer(t)
	conn := dial(t, url)
	expect(t, conn, TypeWelcome, nil)
	expect(t, conn, TypeFrame, nil)

	send(t, conn, TypePointerDown, PointerPayload{X: 150, Y: 150})
	expect(t, conn, TypeSelectionChanged, nil)
	expect(t, conn, TypeFrame, nil)
	send(t, conn, TypePointerUp, nil)

	// Bottom-right corner of object 1.
	send(t, conn, TypePointerDown, PointerPayload{X: 200, Y: 225})
	var h HandleChangedPayload
	expect(t, conn, TypeHandleChanged, &h)
	if h.ID == nil || *h.ID != -3 {
		t.Fatalf("handle = %v", h.ID)
	}
	send(t, conn, TypePointerUp, nil)
	h = HandleChangedPayload{}
	expect(t, conn, TypeHandleChanged, &h)
	if h.ID != nil {
		t.Errorf("released handle = %d", *h.ID)
	}
}

func TestSecondSessionRejected(t *testing.T) {
	_, _, url := newTestServer(t)
	first := dial(t, url)
	expect(t, first, TypeWelcome, nil)

	second := dial(t, url)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _, err := second.Read(ctx)
	if got := websocket.CloseStatus(err); got != websocket.StatusTryAgainLater {
		t.Errorf("close status = %v (%v)", got, err)
	}
}

func TestCloseMidDragCancels(t *testing.T) {
	hub, board, url := newTestServer(t)
	conn := dial(t, url)
	expect(t, conn, TypeWelcome, nil)
	expect(t, conn, TypeFrame, nil)

	send(t, conn, TypePointerDown, PointerPayload{X: 150, Y: 150})
	send(t, conn, TypePointerMove, PointerPayload{X: 170, Y: 150})
	expect(t, conn, TypeSelectionChanged, nil)
	expect(t, conn, TypeFrame, nil)
	expect(t, conn, TypeDragStart, nil)
	conn.Close(websocket.StatusNormalClosure, "")

	deadline := time.Now().Add(5 * time.Second)
	for hub.Busy("board_test") {
		if time.Now().After(deadline) {
			t.Fatal("session never ended")
		}
		time.Sleep(10 * time.Millisecond)
	}

	board.Do(func(e *engine.Engine) error {
		if e.Dragging() {
			t.Error("drag survived the connection")
		}
		obj, _ := e.Object(1)
		if obj.Left != 120 {
			t.Errorf("object 1 left = %v", obj.Left)
		}
		return nil
	})
	if len(board.watchers) != 0 {
		t.Errorf("%d watchers left", len(board.watchers))
	}
}

func TestRegisterSingleSession(t *testing.T) {
	hub := NewHub(nil)
	c := &Client{hub: hub, BoardID: "b", ClientID: "x", send: make(chan []byte, 1)}
	if err := hub.register(c); err != nil {
		t.Fatal(err)
	}
	if err := hub.register(&Client{hub: hub, BoardID: "b", ClientID: "y"}); !errors.Is(err, ErrSessionBusy) {
		t.Errorf("got %v", err)
	}
	hub.unregister(c)
	if hub.Busy("b") {
		t.Error("board still busy")
	}
}
