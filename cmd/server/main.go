package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/inamate/whiteboard/internal/auth"
	"github.com/inamate/whiteboard/internal/board"
	"github.com/inamate/whiteboard/internal/config"
	"github.com/inamate/whiteboard/internal/engine"
	mw "github.com/inamate/whiteboard/internal/middleware"
	"github.com/inamate/whiteboard/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()})))

	authService := auth.NewService(cfg.JWTSecret, cfg.SessionTTL)
	boardService := board.NewService(authService, engine.Options{
		Width:        cfg.CanvasWidth,
		Height:       cfg.CanvasHeight,
		PixelRatio:   cfg.PixelRatio,
		HandleSize:   cfg.HandleSize,
		MoveInterval: cfg.MoveInterval,
		Logger:       slog.Default(),
	}, cfg.SessionTTL)
	boardHandler := board.NewHandler(boardService)

	hub := session.NewHub(slog.Default())

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	boardHandler.Routes(r)

	// WebSocket endpoint, token in the query string
	r.Handle("/ws/boards/{boardId}", authService.BoardMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, boardService, cfg.Origins())
	})))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweep(ctx, boardService, time.Minute)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		cancel()
		hub.Close()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
		boardService.Close()
	}()

	slog.Info("server starting", "addr", addr, "canvas", fmt.Sprintf("%dx%d", cfg.CanvasWidth, cfg.CanvasHeight))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *session.Hub, boards *board.Service, origins []string) {
	boardID := auth.BoardIDFromContext(r.Context())

	b, err := boards.Get(boardID)
	if err != nil {
		http.Error(w, "board not found", http.StatusNotFound)
		return
	}
	if hub.Busy(boardID) {
		http.Error(w, session.ErrSessionBusy.Error(), http.StatusConflict)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originHosts(origins),
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	if err := hub.Serve(r.Context(), conn, boardID, b); err != nil {
		slog.Warn("websocket session", "board", boardID, "error", err)
	}
}

// originHosts turns configured origins into the host patterns the
// websocket package matches against.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		if o == "*" {
			hosts = append(hosts, "*")
			continue
		}
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			slog.Warn("ignoring malformed origin", "origin", o)
			continue
		}
		hosts = append(hosts, u.Host)
	}
	return hosts
}

func sweep(ctx context.Context, boards *board.Service, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := boards.Sweep(); n > 0 {
				slog.Info("expired boards removed", "count", n, "remaining", boards.Len())
			}
		case <-ctx.Done():
			return
		}
	}
}
