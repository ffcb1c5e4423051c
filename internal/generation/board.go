package generation

import (
	"errors"
	"fmt"
)

// ErrDuplicateCoordinate is returned when two tiles claim the same position
var ErrDuplicateCoordinate = errors.New("duplicate tile coordinate")

// Board is an ordered collection of tiles with a coordinate index.
// The index is rebuilt from the tiles whenever the collection is replaced.
type Board struct {
	tiles []*HexTile
	index map[Point]*HexTile
}

// NewBoard builds a board from the given tiles
func NewBoard(tiles []*HexTile) (*Board, error) {
	b := &Board{tiles: tiles}
	if err := b.RebuildIndex(); err != nil {
		return nil, err
	}
	return b, nil
}

// BoardFromSnapshot builds a board of fresh tiles from detached states
func BoardFromSnapshot(states []TileState) (*Board, error) {
	tiles := make([]*HexTile, len(states))
	for i, s := range states {
		tiles[i] = s.Tile()
	}
	return NewBoard(tiles)
}

func newEmptyBoard(capacity int) *Board {
	return &Board{
		tiles: make([]*HexTile, 0, capacity),
		index: make(map[Point]*HexTile, capacity),
	}
}

// RebuildIndex clears and repopulates the coordinate index from the tiles
func (b *Board) RebuildIndex() error {
	b.index = make(map[Point]*HexTile, len(b.tiles))
	for _, t := range b.tiles {
		if _, exists := b.index[t.Coord]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateCoordinate, t.Coord)
		}
		b.index[t.Coord] = t
	}
	return nil
}

// Place appends a tile during generation and registers it in the index
func (b *Board) Place(t *HexTile) {
	b.tiles = append(b.tiles, t)
	b.index[t.Coord] = t
}

// Len returns the number of tiles
func (b *Board) Len() int {
	return len(b.tiles)
}

// Tiles returns the tiles in placement order
func (b *Board) Tiles() []*HexTile {
	return b.tiles
}

// Tile returns the tile at a coordinate, or nil if none
func (b *Board) Tile(p Point) *HexTile {
	return b.index[p]
}

// Coordinates returns every tile coordinate in placement order
func (b *Board) Coordinates() []Point {
	out := make([]Point, len(b.tiles))
	for i, t := range b.tiles {
		out[i] = t.Coord
	}
	return out
}

// AdjacentTiles returns the tiles that exist at the six neighbour offsets
// of p. Edge tiles have fewer than six.
func (b *Board) AdjacentTiles(p Point) []*HexTile {
	adj := make([]*HexTile, 0, 6)
	for _, n := range p.Neighbors() {
		if t, ok := b.index[n]; ok {
			adj = append(adj, t)
		}
	}
	return adj
}

// HasHighlyProductiveNeighbors reports whether any tile next to p
// carries a 6 or an 8
func (b *Board) HasHighlyProductiveNeighbors(p Point) bool {
	for _, t := range b.AdjacentTiles(p) {
		if t.HighlyProductive() {
			return true
		}
	}
	return false
}

// Snapshot returns detached copies of every tile in order
func (b *Board) Snapshot() []TileState {
	out := make([]TileState, len(b.tiles))
	for i, t := range b.tiles {
		out[i] = t.State()
	}
	return out
}

// Histograms counts resources and number tokens across the board.
// Desert tiles do not contribute to the number histogram.
func (b *Board) Histograms() (map[Resource]int, map[int]int) {
	resources := make(map[Resource]int)
	numbers := make(map[int]int)
	for _, t := range b.tiles {
		resources[t.Resource]++
		if t.HasNumber() && t.Resource != ResourceDesert {
			numbers[t.Number]++
		}
	}
	return resources, numbers
}

// Validate checks the board against a definition: one tile per
// coordinate, quotas matched exactly, and no adjacent 6/8 pair
func (b *Board) Validate(def *MapDefinition) error {
	if def == nil {
		return ErrNoDefinition
	}
	if b.Len() != def.TileCount() {
		return fmt.Errorf("board has %d tiles, %q expects %d", b.Len(), def.Name, def.TileCount())
	}
	for _, p := range def.Coordinates {
		if b.Tile(p) == nil {
			return fmt.Errorf("no tile at %s", p)
		}
	}

	resources, numbers := b.Histograms()
	if !sameCounts(resources, def.ResourceCounts) {
		return fmt.Errorf("resource distribution %v does not match %v", resources, def.ResourceCounts)
	}
	if !sameCounts(numbers, def.NumberCounts) {
		return fmt.Errorf("number distribution %v does not match %v", numbers, def.NumberCounts)
	}

	for _, t := range b.tiles {
		if t.HighlyProductive() && b.HasHighlyProductiveNeighbors(t.Coord) {
			return fmt.Errorf("tile %s (%d) borders another 6 or 8", t.Coord, t.Number)
		}
	}
	return nil
}

func sameCounts[K comparable](got, want map[K]int) bool {
	for k, n := range want {
		if got[k] != n {
			return false
		}
	}
	for k, n := range got {
		if n != 0 && want[k] != n {
			return false
		}
	}
	return true
}
