package services

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"dconn.dev/hexboard/internal/codec"
	"dconn.dev/hexboard/internal/generation"
	"dconn.dev/hexboard/internal/history"
)

var (
	// ErrNoBoard is returned when an operation needs a board and none has
	// been generated or loaded yet
	ErrNoBoard = errors.New("no board")
	// ErrUnknownMap is returned for map names missing from the catalog
	ErrUnknownMap = errors.New("unknown map")
)

// Session owns one viewer's active map, board and history
type Session struct {
	ID string

	mu          sync.Mutex
	catalog     *generation.Catalog
	def         *generation.MapDefinition
	board       *generation.Board
	history     *history.History
	rng         *generation.RNG
	maxAttempts int
	lastUsed    time.Time
}

// SessionState is a point-in-time copy of a session for callers outside
// the lock
type SessionState struct {
	ID           string
	MapName      string
	Tiles        []generation.TileState
	Extent       generation.Bounds
	Code         string
	CanGoBack    bool
	CanGoForward bool
	HistoryLen   int
	HistoryIndex int
}

// NewSession creates an empty session. A nil rng is seeded randomly.
func NewSession(id string, catalog *generation.Catalog, rng *generation.RNG, maxAttempts int) *Session {
	if rng == nil {
		rng = generation.NewRNG(generation.RandomSeed())
	}
	if catalog == nil {
		catalog = generation.NewCatalog()
	}
	return &Session{
		ID:          id,
		catalog:     catalog,
		history:     history.New(),
		rng:         rng,
		maxAttempts: maxAttempts,
		lastUsed:    time.Now(),
	}
}

// DefineMap makes def the active definition. An invalid definition is
// rejected and the previous one kept.
func (s *Session) DefineMap(def *generation.MapDefinition) error {
	if def == nil {
		return generation.ErrNoDefinition
	}
	if !def.Validate() {
		return fmt.Errorf("%w: %q quotas do not match its %d coordinates",
			generation.ErrInvalidDefinition, def.Name, def.TileCount())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.def = def
	return nil
}

// UseMap looks a definition up by name and makes it active
func (s *Session) UseMap(name string) error {
	def, ok := s.catalog.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMap, name)
	}
	return s.DefineMap(def)
}

// Generate deals a new board for the active definition and pushes it onto
// the history. On failure the current board and history are unchanged.
func (s *Session) Generate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	board, err := generation.NewBoardGenerator(s.def, s.rng, generation.WithMaxAttempts(s.maxAttempts)).Generate()
	if err != nil {
		slog.Error("board generation failed", "session", s.ID, "error", err)
		return err
	}

	s.board = board
	s.history.Push(board.Snapshot())
	return nil
}

// GoBack shows the previous board. It returns false at the start of the
// history.
func (s *Session) GoBack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	snap, ok := s.history.Back()
	if !ok {
		return false
	}
	return s.show(snap)
}

// GoForward shows the next board. It returns false at the end of the
// history.
func (s *Session) GoForward() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	snap, ok := s.history.Forward()
	if !ok {
		return false
	}
	return s.show(snap)
}

// CanGoBack reports whether GoBack would move
func (s *Session) CanGoBack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanGoBack()
}

// CanGoForward reports whether GoForward would move
func (s *Session) CanGoForward() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanGoForward()
}

// show rebuilds the active board from a snapshot and switches to the
// definition of the same size, if the catalog has one
func (s *Session) show(snap history.Snapshot) bool {
	board, err := generation.BoardFromSnapshot(snap)
	if err != nil {
		slog.Error("corrupt history snapshot", "session", s.ID, "error", err)
		return false
	}
	s.board = board
	if def, ok := s.catalog.ForTileCount(board.Len()); ok {
		s.def = def
	}
	return true
}

// LoadShared replaces the board with a decoded share code and restarts the
// history from it. A bad code returns codec.ErrDecode and changes nothing.
func (s *Session) LoadShared(code string) error {
	tiles, err := codec.DecodeCompact(code)
	if err != nil {
		return err
	}
	board, err := generation.BoardFromSnapshot(tiles)
	if err != nil {
		return fmt.Errorf("%w: %w", codec.ErrDecode, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if def, ok := s.catalog.ForTileCount(board.Len()); ok {
		s.def = def
	} else {
		slog.Warn("shared board matches no known map; keeping current definition",
			"session", s.ID, "tiles", board.Len())
	}
	s.board = board
	s.history.Reset(board.Snapshot())
	return nil
}

// ShareCode returns the compact code of the active board, or "" if there
// is none
func (s *Session) ShareCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shareCode()
}

func (s *Session) shareCode() string {
	if s.board == nil {
		return ""
	}
	return codec.EncodeCompact(s.board.Snapshot())
}

// ShareURL returns base with the board query parameter set to the share code
func (s *Session) ShareURL(base string) (string, error) {
	code := s.ShareCode()
	if code == "" {
		return "", ErrNoBoard
	}
	return shareURL(base, code)
}

func shareURL(base, code string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set("board", code)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// State copies the session for rendering and serialization
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := SessionState{
		ID:           s.ID,
		CanGoBack:    s.history.CanGoBack(),
		CanGoForward: s.history.CanGoForward(),
		HistoryLen:   s.history.Len(),
		HistoryIndex: s.history.Index(),
	}
	if s.def != nil {
		st.MapName = s.def.Name
	}
	if s.board != nil {
		st.Tiles = s.board.Snapshot()
		st.Code = codec.EncodeCompact(st.Tiles)
		st.Extent = s.extent()
	}
	return st
}

// extent uses the definition's extent when the board belongs to it so all
// boards of one map render at the same scale
func (s *Session) extent() generation.Bounds {
	if s.def != nil && s.def.TileCount() == s.board.Len() {
		return s.def.Extent()
	}
	return generation.BoundsOf(s.board.Coordinates())
}

// LastUsed returns when the session was last touched
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

func (s *Session) touch() {
	s.lastUsed = time.Now()
}
