package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"dconn.dev/hexboard/internal/codec"
	"dconn.dev/hexboard/internal/generation"
	"dconn.dev/hexboard/internal/persistence"
)

var (
	// ErrSessionNotFound is returned for unknown session ids
	ErrSessionNotFound = errors.New("session not found")
	// ErrSharingDisabled is returned when no share store is configured
	ErrSharingDisabled = errors.New("sharing is disabled")
)

// ShareStore persists share codes under short slugs
type ShareStore interface {
	SaveShare(ctx context.Context, code, mapName string, tiles int) (*persistence.Share, error)
	GetShare(ctx context.Context, slug string) (*persistence.Share, error)
	RecentShares(ctx context.Context, limit int) ([]persistence.Share, error)
	Ping(ctx context.Context) error
}

// Options tunes a BoardService
type Options struct {
	// PublicURL is the base that share links point at
	PublicURL string
	// DefaultMap is used when a request names no map
	DefaultMap string
	// MaxAttempts bounds board re-deals; 0 uses the generator default
	MaxAttempts int
}

// BoardService keeps the live sessions and hands out share links
type BoardService struct {
	catalog *generation.Catalog
	store   ShareStore
	opts    Options

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewBoardService creates a BoardService. store may be nil, which turns
// sharing off.
func NewBoardService(catalog *generation.Catalog, store ShareStore, opts Options) *BoardService {
	if catalog == nil {
		catalog = generation.NewCatalog()
	}
	if opts.DefaultMap == "" {
		opts.DefaultMap = "standard"
	}
	return &BoardService{
		catalog:  catalog,
		store:    store,
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

// Catalog returns the definitions sessions can use
func (s *BoardService) Catalog() *generation.Catalog {
	return s.catalog
}

// CreateSession starts a session. With a board code the session opens on
// that board; otherwise a fresh board is generated for mapName.
func (s *BoardService) CreateSession(mapName, boardCode string) (*Session, error) {
	sess := NewSession(uuid.NewString(), s.catalog, nil, s.opts.MaxAttempts)

	// A shared board of unknown size keeps this definition for later deals
	if err := sess.UseMap(s.mapOrDefault(mapName)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(boardCode) != "" {
		if err := sess.LoadShared(boardCode); err != nil {
			return nil, err
		}
	} else if err := sess.Generate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	slog.Info("session created", "session", sess.ID, "map", sess.State().MapName)
	return sess, nil
}

// Session returns a live session by id
func (s *BoardService) Session(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// SessionCount returns the number of live sessions
func (s *BoardService) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Regenerate optionally switches the session's map and deals a new board
func (s *BoardService) Regenerate(id, mapName string) (*Session, error) {
	sess, err := s.Session(id)
	if err != nil {
		return nil, err
	}
	if mapName != "" {
		if err := sess.UseMap(mapName); err != nil {
			return nil, err
		}
	}
	if err := sess.Generate(); err != nil {
		return nil, err
	}
	return sess, nil
}

// PruneIdle drops sessions untouched for longer than maxIdle and returns
// how many were removed
func (s *BoardService) PruneIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.LastUsed().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Ping checks the share store is reachable. Without a store there is
// nothing to check.
func (s *BoardService) Ping(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("share store: %w", err)
	}
	return nil
}

// ShareURL builds the public link for a code
func (s *BoardService) ShareURL(code string) (string, error) {
	return shareURL(s.opts.PublicURL, code)
}

// Share stores the session's current board and returns the stored share
func (s *BoardService) Share(ctx context.Context, id string) (*persistence.Share, error) {
	if s.store == nil {
		return nil, ErrSharingDisabled
	}
	sess, err := s.Session(id)
	if err != nil {
		return nil, err
	}
	st := sess.State()
	if st.Code == "" {
		return nil, ErrNoBoard
	}
	share, err := s.store.SaveShare(ctx, st.Code, st.MapName, len(st.Tiles))
	if err != nil {
		return nil, fmt.Errorf("saving share: %w", err)
	}
	return share, nil
}

// GetShare loads a stored share
func (s *BoardService) GetShare(ctx context.Context, slug string) (*persistence.Share, error) {
	if s.store == nil {
		return nil, ErrSharingDisabled
	}
	return s.store.GetShare(ctx, slug)
}

// RecentShares lists the newest stored shares
func (s *BoardService) RecentShares(ctx context.Context, limit int) ([]persistence.Share, error) {
	if s.store == nil {
		return nil, ErrSharingDisabled
	}
	return s.store.RecentShares(ctx, limit)
}

// DecodedBoard is a board read from a share code
type DecodedBoard struct {
	Tiles   []generation.TileState
	MapName string
	Extent  generation.Bounds
	// Fair is true when the board matches its map's quotas and keeps every
	// 6 and 8 apart
	Fair bool
}

// Decode reads a share code in the compact or legacy format
func (s *BoardService) Decode(code string, legacy bool) (*DecodedBoard, error) {
	decode := codec.DecodeCompact
	if legacy {
		decode = codec.DecodeLegacy
	}
	tiles, err := decode(code)
	if err != nil {
		return nil, err
	}
	board, err := generation.BoardFromSnapshot(tiles)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", codec.ErrDecode, err)
	}

	out := &DecodedBoard{Tiles: tiles, Extent: generation.BoundsOf(board.Coordinates())}
	if def, ok := s.catalog.ForTileCount(board.Len()); ok {
		out.MapName = def.Name
		out.Extent = def.Extent()
		if err := board.Validate(def); err == nil {
			out.Fair = true
		} else {
			slog.Debug("decoded board is not fair", "map", def.Name, "reason", err)
		}
	}
	return out, nil
}

// Preview returns the tiles to draw for a share code, or for a freshly
// generated board of mapName when code is empty. Nothing is stored.
func (s *BoardService) Preview(mapName, code string) (*DecodedBoard, error) {
	if strings.TrimSpace(code) != "" {
		return s.Decode(code, false)
	}

	def, ok := s.catalog.Get(s.mapOrDefault(mapName))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMap, mapName)
	}
	board, err := generation.NewBoardGenerator(def, nil, generation.WithMaxAttempts(s.opts.MaxAttempts)).Generate()
	if err != nil {
		return nil, err
	}
	return &DecodedBoard{Tiles: board.Snapshot(), MapName: def.Name, Extent: def.Extent(), Fair: true}, nil
}

func (s *BoardService) mapOrDefault(name string) string {
	if strings.TrimSpace(name) == "" {
		return s.opts.DefaultMap
	}
	return name
}
