package board

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/whiteboard/internal/auth"
	"github.com/inamate/whiteboard/internal/engine"
	"github.com/inamate/whiteboard/internal/scene"
)

var ErrNotFound = errors.New("board not found")

// Board is one live canvas. Every engine access goes through Do, which
// serialises HTTP edits with the board's pointer session.
type Board struct {
	ID string

	mu        sync.Mutex
	eng       *engine.Engine
	watchers  map[int]func(*engine.Engine)
	nextWatch int
	expires   time.Time
}

// Do runs fn with exclusive access to the engine, then notifies watchers.
func (b *Board) Do(fn func(*engine.Engine) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	err := fn(b.eng)
	for _, w := range b.watchers {
		w(b.eng)
	}
	return err
}

// Watch registers fn to run after every Do while the lock is still held.
// The returned func removes it.
func (b *Board) Watch(fn func(*engine.Engine)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextWatch++
	id := b.nextWatch
	b.watchers[id] = fn
	return func() {
		b.mu.Lock()
		delete(b.watchers, id)
		b.mu.Unlock()
	}
}

func (b *Board) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.eng.Destroy()
	clear(b.watchers)
}

type CreateResult struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

type Service struct {
	mu     sync.RWMutex
	boards map[string]*Board
	auth   *auth.Service
	opts   engine.Options
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates an empty board registry. opts is the template every
// board's engine is built from; boards expire ttl after creation.
func NewService(authSvc *auth.Service, opts engine.Options, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		boards: make(map[string]*Board),
		auth:   authSvc,
		opts:   opts,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Create starts a board from doc, or from the sample objects at the
// configured canvas size when doc is nil.
func (s *Service) Create(doc *scene.Document) (*CreateResult, error) {
	if doc == nil {
		doc = &scene.Document{Width: s.opts.Width, Height: s.opts.Height, Objects: scene.DefaultObjects()}
	}

	id := newID()
	opts := s.opts
	if doc.Width > 0 {
		opts.Width = doc.Width
	}
	if doc.Height > 0 {
		opts.Height = doc.Height
	}
	if opts.Logger != nil {
		opts.Logger = opts.Logger.With("board", id)
	}
	eng, err := engine.FromDocument(doc, opts)
	if err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}

	token, err := s.auth.IssueToken(id)
	if err != nil {
		eng.Destroy()
		return nil, err
	}

	s.mu.Lock()
	s.boards[id] = &Board{
		ID:       id,
		eng:      eng,
		watchers: make(map[int]func(*engine.Engine)),
		expires:  s.now().Add(s.ttl),
	}
	s.mu.Unlock()

	slog.Info("board created", "board", id, "objects", len(doc.Objects))
	return &CreateResult{ID: id, Token: token}, nil
}

func (s *Service) Get(id string) (*Board, error) {
	if err := parseID(id); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	s.mu.RLock()
	b, ok := s.boards[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

// Sweep drops boards whose lifetime has ended and returns how many.
func (s *Service) Sweep() int {
	now := s.now()

	s.mu.Lock()
	var expired []*Board
	for id, b := range s.boards {
		if now.After(b.expires) {
			expired = append(expired, b)
			delete(s.boards, id)
		}
	}
	s.mu.Unlock()

	for _, b := range expired {
		b.close()
		slog.Info("board expired", "board", b.ID)
	}
	return len(expired)
}

// Close destroys every board.
func (s *Service) Close() {
	s.mu.Lock()
	boards := s.boards
	s.boards = make(map[string]*Board)
	s.mu.Unlock()

	for _, b := range boards {
		b.close()
	}
}

func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.boards)
}
