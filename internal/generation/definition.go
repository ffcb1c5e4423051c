package generation

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDefinition is returned when generation runs without a map definition
	ErrNoDefinition = errors.New("no map definition")
	// ErrInvalidDefinition is returned when a definition's quotas do not add up
	ErrInvalidDefinition = errors.New("invalid map definition")
)

// MapDefinition describes one board size: where tiles go and how many of
// each resource and number token are dealt onto them
type MapDefinition struct {
	Name           string
	ResourceCounts map[Resource]int
	NumberCounts   map[int]int
	Coordinates    []Point
}

// Deserts returns the number of desert tiles in the definition
func (d *MapDefinition) Deserts() int {
	return d.ResourceCounts[ResourceDesert]
}

// TileCount returns the number of board positions
func (d *MapDefinition) TileCount() int {
	return len(d.Coordinates)
}

// Validate reports whether the coordinate count, resource quota and number
// quota agree with each other. A negative quota never validates.
func (d *MapDefinition) Validate() bool {
	if d == nil {
		return false
	}
	resources := 0
	for _, n := range d.ResourceCounts {
		if n < 0 {
			return false
		}
		resources += n
	}
	numbers := 0
	for _, n := range d.NumberCounts {
		if n < 0 {
			return false
		}
		numbers += n
	}
	return len(d.Coordinates) == resources && resources == numbers+d.Deserts()
}

// Extent returns the bounding box of the definition's coordinates
func (d *MapDefinition) Extent() Bounds {
	return BoundsOf(d.Coordinates)
}

// CheckLayout verifies the coordinate set itself: no duplicates, every
// point on the even-stepped lattice the neighbour offsets assume, and a
// single connected island
func (d *MapDefinition) CheckLayout() error {
	if len(d.Coordinates) == 0 {
		return fmt.Errorf("%w: %q has no coordinates", ErrInvalidDefinition, d.Name)
	}

	// Columns alternate between even and odd rows; which one comes first
	// is up to the map, so take the first coordinate as reference
	parity := lattice(d.Coordinates[0])

	seen := make(map[Point]bool, len(d.Coordinates))
	for _, p := range d.Coordinates {
		if seen[p] {
			return fmt.Errorf("%w: %q repeats coordinate %s", ErrInvalidDefinition, d.Name, p)
		}
		seen[p] = true

		if p.X%2 != 0 || lattice(p) != parity {
			return fmt.Errorf("%w: %q coordinate %s is off the hex lattice", ErrInvalidDefinition, d.Name, p)
		}
	}

	// Breadth-first walk from the first coordinate
	visited := make(map[Point]bool, len(seen))
	queue := []Point{d.Coordinates[0]}
	visited[d.Coordinates[0]] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, n := range current.Neighbors() {
			if seen[n] && !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}

	if len(visited) != len(seen) {
		return fmt.Errorf("%w: %q is split into disconnected islands", ErrInvalidDefinition, d.Name)
	}
	return nil
}

func lattice(p Point) int {
	return ((p.X/2+p.Y)%2 + 2) % 2
}

// column lists count coordinates at x, centred on y=0 and 2 apart
func column(x, count int) []Point {
	out := make([]Point, 0, count)
	for y := count - 1; y >= -(count - 1); y -= 2 {
		out = append(out, Point{x, y})
	}
	return out
}

// hexagon lays out columns left to right with the given tile counts
func hexagon(counts ...int) []Point {
	var out []Point
	x := -(len(counts) - 1)
	for _, n := range counts {
		out = append(out, column(x, n)...)
		x += 2
	}
	return out
}

// StandardMap returns the 19 tile base game definition
func StandardMap() *MapDefinition {
	return &MapDefinition{
		Name: "standard",
		ResourceCounts: map[Resource]int{
			ResourceDesert: 1,
			ResourceWood:   4,
			ResourceClay:   3,
			ResourceWool:   4,
			ResourceGrain:  4,
			ResourceOre:    3,
		},
		NumberCounts: map[int]int{
			2: 1, 3: 2, 4: 2, 5: 2, 6: 2,
			8: 2, 9: 2, 10: 2, 11: 2, 12: 1,
		},
		Coordinates: hexagon(3, 4, 5, 4, 3),
	}
}

// ExpandedMap returns the 30 tile five-to-six player definition
func ExpandedMap() *MapDefinition {
	return &MapDefinition{
		Name: "expanded",
		ResourceCounts: map[Resource]int{
			ResourceDesert: 2,
			ResourceWood:   6,
			ResourceClay:   5,
			ResourceWool:   6,
			ResourceGrain:  6,
			ResourceOre:    5,
		},
		NumberCounts: map[int]int{
			2: 2, 3: 3, 4: 3, 5: 3, 6: 3,
			8: 3, 9: 3, 10: 3, 11: 3, 12: 2,
		},
		Coordinates: hexagon(3, 4, 5, 6, 5, 4, 3),
	}
}
