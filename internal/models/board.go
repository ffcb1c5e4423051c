package models

import "dconn.dev/hexboard/internal/generation"

// Tile is one tile as sent to the client
type Tile struct {
	X                int    `json:"x"`
	Y                int    `json:"y"`
	Resource         string `json:"resource"`
	Color            string `json:"color"`
	Number           *int   `json:"number,omitempty"`
	HighlyProductive bool   `json:"highly_productive"`
}

// NewTiles converts board snapshots for the wire
func NewTiles(states []generation.TileState) []Tile {
	out := make([]Tile, len(states))
	for i, s := range states {
		t := Tile{
			X:                s.X,
			Y:                s.Y,
			Resource:         s.Resource.String(),
			Color:            s.Resource.Color(),
			HighlyProductive: generation.IsHighlyProductive(s.Number),
		}
		if s.Number != 0 && s.Resource != generation.ResourceDesert {
			n := s.Number
			t.Number = &n
		}
		out[i] = t
	}
	return out
}

// SessionResponse is the state of a session
type SessionResponse struct {
	ID            string            `json:"id"`
	Map           string            `json:"map"`
	Tiles         []Tile            `json:"tiles"`
	Extent        generation.Bounds `json:"extent"`
	Code          string            `json:"code"`
	ShareURL      string            `json:"share_url,omitempty"`
	CanGoBack     bool              `json:"can_go_back"`
	CanGoForward  bool              `json:"can_go_forward"`
	HistoryLength int               `json:"history_length"`
	HistoryIndex  int               `json:"history_index"`
}

// MapInfo describes one catalog entry
type MapInfo struct {
	Name      string            `json:"name"`
	Tiles     int               `json:"tiles"`
	Resources map[string]int    `json:"resources"`
	Numbers   map[int]int       `json:"numbers"`
	Extent    generation.Bounds `json:"extent"`
}

// NewMapInfo summarizes a definition
func NewMapInfo(def *generation.MapDefinition) MapInfo {
	resources := make(map[string]int, len(def.ResourceCounts))
	for r, n := range def.ResourceCounts {
		resources[r.String()] = n
	}
	return MapInfo{
		Name:      def.Name,
		Tiles:     def.TileCount(),
		Resources: resources,
		Numbers:   def.NumberCounts,
		Extent:    def.Extent(),
	}
}

// DecodeResponse is a board read from a share code
type DecodeResponse struct {
	Map    string            `json:"map,omitempty"`
	Tiles  []Tile            `json:"tiles"`
	Extent generation.Bounds `json:"extent"`
	Fair   bool              `json:"fair"`
	Code   string            `json:"code"`
}

// ShareResponse is a stored share link
type ShareResponse struct {
	Slug      string `json:"slug"`
	Code      string `json:"code"`
	Map       string `json:"map"`
	Tiles     int    `json:"tiles"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
	Age       string `json:"age"`
}
