package board

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/inamate/whiteboard/internal/engine"
	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/scene"
)

const maxBodySize = 1 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create starts a board. The body is an optional scene document.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	var doc *scene.Document
	if len(bytes.TrimSpace(body)) > 0 {
		doc, err = scene.Parse(body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}

	result, err := h.service.Create(doc)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) ListObjects(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(mux.Vars(r)["boardId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var doc *scene.Document
	var selected []int
	err = b.Do(func(e *engine.Engine) error {
		doc = e.Document()
		selected = e.Selection()
		return nil
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if selected == nil {
		selected = []int{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"width":     doc.Width,
		"height":    doc.Height,
		"objects":   doc.Objects,
		"selection": selected,
	})
}

// AddObject adds the object in the body, or a random rectangle when the
// body is empty.
func (h *Handler) AddObject(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(mux.Vars(r)["boardId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	obj, ok := decodeObject(w, r)
	if !ok {
		return
	}

	var added geometry.Object
	err = b.Do(func(e *engine.Engine) error {
		var err error
		if obj == nil {
			added, err = e.AddRandomRectangle()
		} else {
			added, err = e.AddObject(*obj)
		}
		return err
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, added)
}

func (h *Handler) UpdateObject(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(mux.Vars(r)["boardId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["objectId"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid object id"})
		return
	}

	obj, ok := decodeObject(w, r)
	if !ok {
		return
	}
	if obj == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "object is required"})
		return
	}
	obj.ID = id
	if obj.Kind == "" {
		obj.Kind = geometry.KindRectangle
	}

	if err := b.Do(func(e *engine.Engine) error { return e.UpdateObject(*obj) }); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, obj)
}

func (h *Handler) DeleteObject(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(mux.Vars(r)["boardId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["objectId"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid object id"})
		return
	}

	if err := b.Do(func(e *engine.Engine) error { return e.DeleteObject(id) }); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Snapshot renders the board as PNG. The layer query parameter selects
// presentation, ui, picking or debug; without it the UI is drawn over the
// presentation layer.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(mux.Vars(r)["boardId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	layer := r.URL.Query().Get("layer")
	if err := b.Do(func(e *engine.Engine) error { return e.WriteSnapshot(&buf, layer) }); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func decodeObject(w http.ResponseWriter, r *http.Request) (*geometry.Object, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return nil, false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, true
	}

	var obj geometry.Object
	if err := json.Unmarshal(body, &obj); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return nil, false
	}
	return &obj, true
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, scene.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, scene.ErrDuplicateID), errors.Is(err, engine.ErrDragActive):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, scene.ErrReservedID), errors.Is(err, scene.ErrInvalidObject), errors.Is(err, render.ErrUnknownLayer):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, engine.ErrDestroyed):
		writeJSON(w, http.StatusGone, map[string]string{"error": "board closed"})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Routes mounts the board API on r. Everything below a board id requires
// that board's token.
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/api/boards", h.Create).Methods("POST")

	api := r.PathPrefix("/api/boards/{boardId}").Subrouter()
	api.Use(h.service.auth.BoardMiddleware)

	api.HandleFunc("/objects", h.ListObjects).Methods("GET")
	api.HandleFunc("/objects", h.AddObject).Methods("POST")
	api.HandleFunc("/objects/{objectId}", h.UpdateObject).Methods("PUT")
	api.HandleFunc("/objects/{objectId}", h.DeleteObject).Methods("DELETE")
	api.HandleFunc("/snapshot.png", h.Snapshot).Methods("GET")
}
