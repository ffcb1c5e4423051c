package render

import (
	"fmt"
	"strings"

	"dconn.dev/hexboard/internal/generation"
)

// cellWidth is two glyph letters, a two digit number and a hot marker
const cellWidth = 5

// Grid is a character grid that text renderings are drawn onto. Each cell
// holds one tile label.
type Grid struct {
	Width, Height int
	Cells         [][]string
}

// NewGrid creates a grid filled with a default cell
func NewGrid(width, height int, defaultCell string) *Grid {
	cells := make([][]string, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]string, width)
		for x := 0; x < width; x++ {
			cells[y][x] = defaultCell
		}
	}
	return &Grid{Width: width, Height: height, Cells: cells}
}

// InBounds checks if a point is within the grid
func (g *Grid) InBounds(p generation.Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Set sets a cell at a position. Points off the grid are ignored.
func (g *Grid) Set(p generation.Point, cell string) {
	if g.InBounds(p) {
		g.Cells[p.Y][p.X] = cell
	}
}

// String joins the rows, trimming trailing blanks
func (g *Grid) String() string {
	var sb strings.Builder
	for y := 0; y < g.Height; y++ {
		var row strings.Builder
		for x := 0; x < g.Width; x++ {
			if x > 0 {
				row.WriteByte(' ')
			}
			row.WriteString(g.Cells[y][x])
		}
		sb.WriteString(strings.TrimRight(row.String(), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ASCII lays the tiles out as text. Each board column becomes a grid
// column and each Y step a row, so neighbouring columns appear staggered
// the same way the hexagons are.
func ASCII(tiles []generation.TileState) *Grid {
	coords := make([]generation.Point, len(tiles))
	for i, t := range tiles {
		coords[i] = generation.Point{X: t.X, Y: t.Y}
	}
	b := generation.BoundsOf(coords)

	g := NewGrid(b.SpanX()/2+1, b.SpanY()+1, strings.Repeat(" ", cellWidth))
	for _, t := range tiles {
		p := generation.Point{X: (t.X - b.MinX) / 2, Y: t.Y - b.MinY}
		g.Set(p, cellLabel(t))
	}
	return g
}

func cellLabel(t generation.TileState) string {
	number := ""
	if t.Number != 0 && t.Resource != generation.ResourceDesert {
		number = fmt.Sprint(t.Number)
	}
	mark := " "
	if generation.IsHighlyProductive(t.Number) {
		mark = "*"
	}
	return fmt.Sprintf("%s%2s%s", t.Resource.Glyph(), number, mark)
}
