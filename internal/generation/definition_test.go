package generation

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*MapDefinition)
		want   bool
	}{
		{"standard as shipped", func(*MapDefinition) {}, true},
		{"extra coordinate", func(d *MapDefinition) { d.Coordinates = append(d.Coordinates, Point{6, 0}) }, false},
		{"extra resource", func(d *MapDefinition) { d.ResourceCounts[ResourceOre]++ }, false},
		{"missing number token", func(d *MapDefinition) { d.NumberCounts[12] = 0 }, false},
		{"negative quota cancelling a surplus", func(d *MapDefinition) {
			d.ResourceCounts[ResourceWood]++
			d.ResourceCounts[ResourceClay] = -1
			d.ResourceCounts[ResourceOre]++
			d.ResourceCounts[ResourceWool]--
			d.ResourceCounts[ResourceGrain] += 3
		}, false},
		{"negative number quota", func(d *MapDefinition) {
			d.NumberCounts[5] += 1
			d.NumberCounts[9] = -1
			d.NumberCounts[10] += 2
		}, false},
		{"desert traded for a number", func(d *MapDefinition) {
			d.ResourceCounts[ResourceDesert] = 0
			d.ResourceCounts[ResourceOre]++
			d.NumberCounts[7] = 1
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def := StandardMap()
			tc.mutate(def)
			if got := def.Validate(); got != tc.want {
				t.Fatalf("Validate() = %v, want %v", got, tc.want)
			}
		})
	}

	var nilDef *MapDefinition
	if nilDef.Validate() {
		t.Fatalf("nil definition should not validate")
	}
}

func TestCanonicalMaps(t *testing.T) {
	std, exp := StandardMap(), ExpandedMap()
	if std.TileCount() != 19 || exp.TileCount() != 30 {
		t.Fatalf("tile counts: standard=%d expanded=%d", std.TileCount(), exp.TileCount())
	}
	for _, def := range []*MapDefinition{std, exp} {
		if !def.Validate() {
			t.Fatalf("%s does not validate", def.Name)
		}
		if err := def.CheckLayout(); err != nil {
			t.Fatalf("%s layout: %v", def.Name, err)
		}
	}

	if got := std.Extent(); got != (Bounds{MinX: -4, MinY: -4, MaxX: 4, MaxY: 4}) {
		t.Fatalf("standard extent = %+v", got)
	}
	if got := exp.Extent(); got.SpanX() != 12 || got.SpanY() != 10 {
		t.Fatalf("expanded span = %dx%d", got.SpanX(), got.SpanY())
	}
	if std.Coordinates[0] != (Point{-4, 2}) || std.Coordinates[18] != (Point{4, -2}) {
		t.Fatalf("standard coordinates out of order: first=%s last=%s", std.Coordinates[0], std.Coordinates[18])
	}
}

func TestCheckLayout(t *testing.T) {
	cases := []struct {
		name   string
		coords []Point
	}{
		{"duplicate", []Point{{0, 0}, {0, 2}, {0, 0}}},
		{"odd column", []Point{{0, 0}, {1, 0}}},
		{"row parity", []Point{{0, 0}, {2, 0}}},
		{"islands", []Point{{0, 0}, {0, 2}, {0, 8}}},
		{"empty", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def := &MapDefinition{Name: tc.name, Coordinates: tc.coords}
			if err := def.CheckLayout(); !errors.Is(err, ErrInvalidDefinition) {
				t.Fatalf("expected ErrInvalidDefinition, got %v", err)
			}
		})
	}
}

func TestCatalog(t *testing.T) {
	c := NewCatalog()

	if def, ok := c.ForTileCount(19); !ok || def.Name != "standard" {
		t.Fatalf("19 tiles should select standard")
	}
	if def, ok := c.ForTileCount(30); !ok || def.Name != "expanded" {
		t.Fatalf("30 tiles should select expanded")
	}
	if _, ok := c.ForTileCount(7); ok {
		t.Fatalf("unexpected definition for 7 tiles")
	}
	if _, ok := c.Get(" Expanded "); !ok {
		t.Fatalf("lookup should ignore case and spacing")
	}

	tiny := &MapDefinition{
		Name:           "Tiny",
		ResourceCounts: map[Resource]int{ResourceDesert: 1, ResourceOre: 2},
		NumberCounts:   map[int]int{5: 1, 9: 1},
		Coordinates:    []Point{{0, 0}, {0, 2}, {2, 1}},
	}
	if err := c.Add(tiny); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if def, ok := c.ForTileCount(3); !ok || def.Name != "tiny" {
		t.Fatalf("custom map not registered")
	}
	if len(c.All()) != 3 {
		t.Fatalf("expected 3 definitions, got %d", len(c.All()))
	}

	bad := StandardMap()
	bad.Name = "broken"
	bad.NumberCounts[2] = 5
	if err := c.Add(bad); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition, got %v", err)
	}
}
