package generation

import "fmt"

// Point is a board grid coordinate. Columns step by 2 on X; within a
// column tiles step by 2 on Y, and neighbouring columns are offset by 1.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Add returns a new point offset by dx, dy
func (p Point) Add(dx, dy int) Point {
	return Point{p.X + dx, p.Y + dy}
}

// String formats the point the way the board codecs write it
func (p Point) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// Neighbors returns the six hex-adjacent coordinates, whether or not a
// tile exists there
func (p Point) Neighbors() [6]Point {
	var out [6]Point
	for i, d := range Directions {
		dx, dy := d.Delta()
		out[i] = p.Add(dx, dy)
	}
	return out
}

// Direction is one of the six hex sides
type Direction int

const (
	South Direction = iota
	SouthEast
	NorthEast
	North
	NorthWest
	SouthWest
)

// Directions lists the sides in neighbour-scan order
var Directions = [6]Direction{South, SouthEast, NorthEast, North, NorthWest, SouthWest}

// Delta returns the x,y offset for moving in this direction
func (d Direction) Delta() (int, int) {
	switch d {
	case South:
		return 0, 2
	case SouthEast:
		return 2, 1
	case NorthEast:
		return 2, -1
	case North:
		return 0, -2
	case NorthWest:
		return -2, -1
	case SouthWest:
		return -2, 1
	}
	return 0, 0
}

// Bounds represents a rectangular region of grid coordinates
type Bounds struct {
	MinX int `json:"min_x"`
	MinY int `json:"min_y"`
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`
}

// BoundsOf returns the smallest bounds holding every point.
// An empty slice yields the zero bounds.
func BoundsOf(points []Point) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{points[0].X, points[0].Y, points[0].X, points[0].Y}
	for _, p := range points[1:] {
		b.MinX = min(b.MinX, p.X)
		b.MinY = min(b.MinY, p.Y)
		b.MaxX = max(b.MaxX, p.X)
		b.MaxY = max(b.MaxY, p.Y)
	}
	return b
}

// SpanX returns the coordinate distance covered on the X axis
func (b Bounds) SpanX() int {
	return b.MaxX - b.MinX
}

// SpanY returns the coordinate distance covered on the Y axis
func (b Bounds) SpanY() int {
	return b.MaxY - b.MinY
}
