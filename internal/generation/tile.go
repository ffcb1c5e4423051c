package generation

// HexTile is one placed tile. Number is 0 when the tile carries no token
// (deserts and unset tiles).
type HexTile struct {
	Coord    Point
	Resource Resource
	Number   int
}

// HasNumber reports whether a number token sits on the tile
func (t *HexTile) HasNumber() bool {
	return t.Number != 0
}

// HighlyProductive reports whether the tile carries a 6 or an 8
func (t *HexTile) HighlyProductive() bool {
	return IsHighlyProductive(t.Number)
}

// State returns an immutable copy of the tile
func (t *HexTile) State() TileState {
	return TileState{X: t.Coord.X, Y: t.Coord.Y, Resource: t.Resource, Number: t.Number}
}

// IsHighlyProductive reports whether a number token is one of the two most
// rolled values
func IsHighlyProductive(n int) bool {
	return n == 6 || n == 8
}

// TileState is a detached value copy of a tile, used for history
// snapshots and codec round trips
type TileState struct {
	X        int      `json:"x"`
	Y        int      `json:"y"`
	Resource Resource `json:"resource"`
	Number   int      `json:"number,omitempty"`
}

// Tile rebuilds a fresh tile from the state. Deserts never keep a number.
func (s TileState) Tile() *HexTile {
	t := &HexTile{Coord: Point{s.X, s.Y}, Resource: s.Resource}
	if s.Resource != ResourceDesert {
		t.Number = s.Number
	}
	return t
}
