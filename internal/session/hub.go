package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/coder/websocket"

	"github.com/inamate/whiteboard/internal/engine"
)

var ErrSessionBusy = errors.New("board already has a pointer session")

// Board is the engine access a session needs. Do serialises engine calls;
// Watch runs fn after every Do, from whichever goroutine called it.
type Board interface {
	Do(fn func(*engine.Engine) error) error
	Watch(fn func(*engine.Engine)) (stop func())
}

// Hub tracks the single pointer session allowed per board.
type Hub struct {
	mu     sync.Mutex
	active map[string]*Client // boardID -> client
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		active: make(map[string]*Client),
		logger: logger,
	}
}

// Busy reports whether boardID already has a session.
func (h *Hub) Busy(boardID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.active[boardID]
	return ok
}

// Serve runs a session for conn until the connection closes or ctx is
// done. A second session on the same board is closed with
// StatusTryAgainLater and ErrSessionBusy is returned.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn, boardID string, board Board) error {
	client := NewClient(h, conn, boardID, board)
	if err := h.register(client); err != nil {
		conn.Close(websocket.StatusTryAgainLater, err.Error())
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := client.attach(); err != nil {
		h.unregister(client)
		conn.Close(websocket.StatusInternalError, "board unavailable")
		return err
	}

	go client.WritePump(ctx)
	client.ReadPump(ctx)
	return nil
}

// Close ends every session.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.active))
	for _, c := range h.active {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

func (h *Hub) register(client *Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.active[client.BoardID]; ok {
		h.logger.Warn("rejecting second session", "board", client.BoardID, "client", client.ClientID)
		return ErrSessionBusy
	}
	h.active[client.BoardID] = client
	h.logger.Info("client joined", "board", client.BoardID, "client", client.ClientID)
	return nil
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.active[client.BoardID] != client {
		return
	}
	delete(h.active, client.BoardID)
	close(client.send)
	h.logger.Info("client left", "board", client.BoardID, "client", client.ClientID)
}
