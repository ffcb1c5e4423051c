package generation

import (
	"errors"
	"slices"
	"testing"
)

func TestGenerateSatisfiesDefinition(t *testing.T) {
	cases := []struct {
		name string
		def  func() *MapDefinition
	}{
		{"standard", StandardMap},
		{"expanded", ExpandedMap},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def := tc.def()
			for seed := uint64(1); seed <= 300; seed++ {
				board, err := NewBoardGenerator(def, NewRNG(seed)).Generate()
				if err != nil {
					t.Fatalf("seed %d: Generate failed: %v", seed, err)
				}
				if board.Len() != def.TileCount() {
					t.Fatalf("seed %d: expected %d tiles, got %d", seed, def.TileCount(), board.Len())
				}
				if err := board.Validate(def); err != nil {
					t.Fatalf("seed %d: invalid board: %v", seed, err)
				}
			}
		})
	}
}

func TestGenerateStandardScenario(t *testing.T) {
	def := StandardMap()
	for seed := uint64(1000); seed < 1200; seed++ {
		board, err := NewBoardGenerator(def, NewRNG(seed)).Generate()
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}

		deserts, productive := 0, 0
		seen := make(map[Point]bool)
		for _, tile := range board.Tiles() {
			if seen[tile.Coord] {
				t.Fatalf("seed %d: coordinate %s used twice", seed, tile.Coord)
			}
			seen[tile.Coord] = true

			switch {
			case tile.Resource == ResourceDesert:
				deserts++
				if tile.HasNumber() {
					t.Fatalf("seed %d: desert at %s carries number %d", seed, tile.Coord, tile.Number)
				}
			case !tile.HasNumber():
				t.Fatalf("seed %d: %s tile at %s has no number", seed, tile.Resource, tile.Coord)
			}

			if tile.HighlyProductive() {
				productive++
				for _, n := range board.AdjacentTiles(tile.Coord) {
					if n.HighlyProductive() {
						t.Fatalf("seed %d: %d at %s borders %d at %s", seed, tile.Number, tile.Coord, n.Number, n.Coord)
					}
				}
			}
		}

		if board.Len() != 19 || deserts != 1 || productive != 4 {
			t.Fatalf("seed %d: tiles=%d deserts=%d productive=%d", seed, board.Len(), deserts, productive)
		}
	}
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	if got := NewRNG(42).Seed(); got != 42 {
		t.Fatalf("Seed() = %d, want 42", got)
	}
	a, err := NewBoardGenerator(ExpandedMap(), NewRNG(42)).Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b, err := NewBoardGenerator(ExpandedMap(), NewRNG(42)).Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !slices.Equal(a.Snapshot(), b.Snapshot()) {
		t.Fatalf("same seed produced different boards")
	}
}

func TestGenerateRejectsBadDefinitions(t *testing.T) {
	if _, err := NewBoardGenerator(nil, NewRNG(1)).Generate(); !errors.Is(err, ErrNoDefinition) {
		t.Fatalf("expected ErrNoDefinition, got %v", err)
	}

	def := StandardMap()
	def.ResourceCounts[ResourceWood]++
	board, err := NewBoardGenerator(def, NewRNG(1)).Generate()
	if !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition, got %v", err)
	}
	if board != nil {
		t.Fatalf("expected no board for an invalid definition")
	}
}

func TestGenerateGivesUpWhenSpacingIsImpossible(t *testing.T) {
	// Two adjacent positions, both dealt a 6
	def := &MapDefinition{
		Name:           "cramped",
		ResourceCounts: map[Resource]int{ResourceWood: 2},
		NumberCounts:   map[int]int{6: 2},
		Coordinates:    []Point{{0, 0}, {0, 2}},
	}
	if !def.Validate() {
		t.Fatalf("test definition should pass quota validation")
	}

	board, err := NewBoardGenerator(def, NewRNG(7), WithMaxAttempts(3)).Generate()
	if !errors.Is(err, ErrPlacementExhausted) {
		t.Fatalf("expected ErrPlacementExhausted, got %v", err)
	}
	if board != nil {
		t.Fatalf("expected no partial board")
	}
}

func TestFrontLoadProductiveOrder(t *testing.T) {
	bg := NewBoardGenerator(StandardMap(), NewRNG(1))
	bg.initPools()
	bg.frontLoadProductive()

	want := []int{6, 6, 8, 8, 4, 5, 5, 2, 3, 3, 4, 9, 9, 10, 10, 11, 11, 12}
	if got := bg.numbers.Items(); !slices.Equal(got, want) {
		t.Fatalf("number order\n got %v\nwant %v", got, want)
	}
}

func TestResourcePoolExcludesDesert(t *testing.T) {
	bg := NewBoardGenerator(ExpandedMap(), NewRNG(1))
	bg.initPools()

	if bg.resources.Len() != 28 {
		t.Fatalf("expected 28 resource tokens, got %d", bg.resources.Len())
	}
	if len(bg.resources.IndexesOf(ResourceDesert)) != 0 {
		t.Fatalf("desert leaked into the resource pool")
	}
	if bg.numbers.Len() != 28 {
		t.Fatalf("expected 28 number tokens, got %d", bg.numbers.Len())
	}
}
