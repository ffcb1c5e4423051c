package generation

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// DefaultMaxAttempts bounds how many times a board is re-dealt when the
// 6/8 spacing rule cannot be met for a tile
const DefaultMaxAttempts = 64

// ErrPlacementExhausted is returned when no attempt could space out every
// 6 and 8
var ErrPlacementExhausted = errors.New("could not place highly productive tiles")

// errPoolExhausted aborts a single attempt; Generate restarts on it
var errPoolExhausted = errors.New("coordinate pool exhausted")

// BoardGenerator deals a board for one map definition
type BoardGenerator struct {
	def         *MapDefinition
	rng         *RNG
	maxAttempts int

	board     *Board
	coords    *Pool[Point]
	numbers   *Pool[int]
	resources *Pool[Resource]
}

// Option configures a BoardGenerator
type Option func(*BoardGenerator)

// WithMaxAttempts overrides DefaultMaxAttempts. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(bg *BoardGenerator) {
		if n >= 1 {
			bg.maxAttempts = n
		}
	}
}

// NewBoardGenerator creates a generator for the given definition
func NewBoardGenerator(def *MapDefinition, rng *RNG, opts ...Option) *BoardGenerator {
	if rng == nil {
		rng = NewRNG(RandomSeed())
	}
	bg := &BoardGenerator{
		def:         def,
		rng:         rng,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(bg)
	}
	return bg
}

// Generate produces a fully placed board. Either every tile is placed and
// every constraint holds, or an error is returned and no board.
func (bg *BoardGenerator) Generate() (*Board, error) {
	if bg.def == nil {
		return nil, ErrNoDefinition
	}
	if !bg.def.Validate() {
		return nil, fmt.Errorf("%w: %q quotas do not match its %d coordinates",
			ErrInvalidDefinition, bg.def.Name, bg.def.TileCount())
	}

	for attempt := 1; attempt <= bg.maxAttempts; attempt++ {
		board, err := bg.attempt()
		if err == nil {
			return board, nil
		}
		if !errors.Is(err, errPoolExhausted) {
			return nil, err
		}
		slog.Warn("re-dealing board", "map", bg.def.Name, "attempt", attempt, "reason", err)
	}

	return nil, fmt.Errorf("%w: %q after %d attempts", ErrPlacementExhausted, bg.def.Name, bg.maxAttempts)
}

func (bg *BoardGenerator) attempt() (*Board, error) {
	// 1. Fresh board and token pools
	bg.initPools()

	// 2. Deserts go anywhere
	if err := bg.placeDeserts(); err != nil {
		return nil, err
	}

	// 3. Move the 6s and 8s to the front so they are placed while the
	// board is still mostly empty
	bg.frontLoadProductive()

	// 4. Deal the remaining tiles
	if err := bg.placeRemaining(); err != nil {
		return nil, err
	}

	return bg.board, nil
}

func (bg *BoardGenerator) initPools() {
	bg.board = newEmptyBoard(bg.def.TileCount())
	bg.coords = NewPool(bg.def.Coordinates)

	values := make([]int, 0, len(bg.def.NumberCounts))
	for v := range bg.def.NumberCounts {
		values = append(values, v)
	}
	slices.Sort(values)

	var numbers []int
	for _, v := range values {
		for i := 0; i < bg.def.NumberCounts[v]; i++ {
			numbers = append(numbers, v)
		}
	}
	bg.numbers = NewPool(numbers)

	var resources []Resource
	for _, r := range Producing {
		for i := 0; i < bg.def.ResourceCounts[r]; i++ {
			resources = append(resources, r)
		}
	}
	bg.resources = NewPool(resources)
}

func (bg *BoardGenerator) placeDeserts() error {
	for i := 0; i < bg.def.Deserts(); i++ {
		coord, ok := bg.coords.Take(bg.rng)
		if !ok {
			return fmt.Errorf("%w: %q has more deserts than coordinates", ErrInvalidDefinition, bg.def.Name)
		}
		bg.board.Place(&HexTile{Coord: coord, Resource: ResourceDesert})
	}
	return nil
}

// frontLoadProductive swaps every 6 and then every 8 into the leading
// slots, in the order they occur
func (bg *BoardGenerator) frontLoadProductive() {
	idx := append(bg.numbers.IndexesOf(6), bg.numbers.IndexesOf(8)...)
	for i, j := range idx {
		bg.numbers.Swap(i, j)
	}
}

func (bg *BoardGenerator) placeRemaining() error {
	remaining := bg.def.TileCount() - bg.def.Deserts()
	if bg.numbers.Len() < remaining {
		return fmt.Errorf("%w: %q has %d number tokens for %d tiles",
			ErrInvalidDefinition, bg.def.Name, bg.numbers.Len(), remaining)
	}

	for i := 0; i < remaining; i++ {
		resource, ok := bg.resources.Take(bg.rng)
		if !ok {
			return fmt.Errorf("%w: %q ran out of resources", ErrInvalidDefinition, bg.def.Name)
		}
		tile := &HexTile{Resource: resource, Number: bg.numbers.At(i)}

		var coord Point
		var err error
		if tile.HighlyProductive() {
			coord, err = bg.spacedCoordinate()
		} else {
			coord, err = bg.anyCoordinate()
		}
		if err != nil {
			return err
		}

		tile.Coord = coord
		bg.board.Place(tile)
	}
	return nil
}

// spacedCoordinate draws until it finds a coordinate with no 6 or 8 next
// to it. Rejected draws are held back until then and returned to the pool
// afterwards so later tiles can still use them.
func (bg *BoardGenerator) spacedCoordinate() (Point, error) {
	var rejected []Point
	for {
		coord, ok := bg.coords.Take(bg.rng)
		if !ok {
			bg.coords.Append(rejected...)
			return Point{}, fmt.Errorf("%w: all %d candidates border a 6 or 8", errPoolExhausted, len(rejected))
		}
		if !bg.board.HasHighlyProductiveNeighbors(coord) {
			bg.coords.Append(rejected...)
			return coord, nil
		}
		rejected = append(rejected, coord)
	}
}

func (bg *BoardGenerator) anyCoordinate() (Point, error) {
	coord, ok := bg.coords.Take(bg.rng)
	if !ok {
		return Point{}, fmt.Errorf("%w: no coordinates left", ErrInvalidDefinition)
	}
	return coord, nil
}
