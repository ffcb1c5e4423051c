// Package render draws boards as PNG images and as text.
package render

import (
	"math"

	"dconn.dev/hexboard/internal/generation"
)

// margin is the number of pixels kept clear around the board
const margin = 10

var (
	cos60 = math.Cos(math.Pi / 3)
	sin60 = math.Sin(math.Pi / 3)
)

// Layout maps grid coordinates to pixel positions on a surface
type Layout struct {
	Width, Height int
	// Size is the hexagon radius in pixels
	Size float64
	// DX and DY are the pixel distances of one grid step on each axis
	DX, DY float64

	originX, originY float64
}

// NewLayout fits a board with the given extent into a width x height
// surface. The hexagon radius is the largest whole number of pixels for
// which both axes fit.
func NewLayout(extent generation.Bounds, width, height int) Layout {
	wSize := float64(width-margin) / (float64(extent.SpanX())*(1+cos60)/2 + 2)
	hSize := float64(height-margin) / ((float64(extent.SpanY()) + 2) * sin60)
	size := max(math.Floor(min(wSize, hSize)), 1)

	l := Layout{
		Width:  width,
		Height: height,
		Size:   size,
		DX:     size * (1 + cos60) / 2,
		DY:     size * sin60,
	}
	// Boards centred on the origin land in the middle of the surface.
	// Off-centre custom maps are shifted so their extent is centred too.
	midX := float64(extent.MinX+extent.MaxX) / 2
	midY := float64(extent.MinY+extent.MaxY) / 2
	l.originX = float64(width)/2 - l.DX*midX
	l.originY = float64(height)/2 - l.DY*midY
	return l
}

// Center returns the pixel centre of the tile at p
func (l Layout) Center(p generation.Point) (float64, float64) {
	return l.originX + l.DX*float64(p.X), l.originY + l.DY*float64(p.Y)
}

// Corners returns the six vertices of a hexagon of radius r around the
// centre of p, clockwise from the upper right
func (l Layout) Corners(p generation.Point, r float64) [][2]float64 {
	cx, cy := l.Center(p)
	out := make([][2]float64, 6)
	for i := range out {
		a := float64(i)*math.Pi/3 + math.Pi/6
		out[i] = [2]float64{cx + r*math.Sin(a), cy - r*math.Cos(a)}
	}
	return out
}

// LabelPoints is the label size for the current hexagon radius
func (l Layout) LabelPoints() float64 {
	return math.Ceil(30.0/40.0*(0.45*l.Size-8) + 6)
}
