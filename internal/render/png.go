package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"dconn.dev/hexboard/internal/generation"
)

const (
	lineWidth  = 3.0
	discRatio  = 0.375
	discPoints = 48
)

var (
	background = color.RGBA{0xff, 0xff, 0xff, 0xff}
	outline    = color.RGBA{0x00, 0x00, 0x00, 0xff}
	discFill   = color.RGBA{0xff, 0xff, 0xff, 0xff}
	labelColor = color.RGBA{0x00, 0x00, 0x00, 0xff}
	hotColor   = color.RGBA{0xff, 0x00, 0x00, 0xff}
)

// Renderer rasterizes boards. The zero value is not usable; use NewRenderer.
type Renderer struct {
	width, height int

	mu    sync.Mutex
	faces map[int]font.Face
	ttf   *opentype.Font
}

// NewRenderer returns a renderer producing width x height images
func NewRenderer(width, height int) *Renderer {
	r := &Renderer{width: width, height: height, faces: make(map[int]font.Face)}
	if f, err := opentype.Parse(gobold.TTF); err == nil {
		r.ttf = f
	}
	return r
}

// Size returns the configured image dimensions
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Image draws the tiles onto a new image. The extent decides scale and
// placement; pass the definition's extent so boards of one map line up.
func (r *Renderer) Image(tiles []generation.TileState, extent generation.Bounds) *image.RGBA {
	return r.ImageSized(tiles, extent, r.width, r.height)
}

// ImageSized is Image with explicit dimensions
func (r *Renderer) ImageSized(tiles []generation.TileState, extent generation.Bounds, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	layout := NewLayout(extent, width, height)

	type label struct {
		text   string
		cx, cy float64
		ink    color.Color
	}
	var labels []label

	for _, t := range tiles {
		p := generation.Point{X: t.X, Y: t.Y}
		fill := parseHex(t.Resource.Color())

		fillPolygon(img, layout.Corners(p, layout.Size+lineWidth/2), outline)
		fillPolygon(img, layout.Corners(p, layout.Size-lineWidth/2), fill)

		if t.Number == 0 || t.Resource == generation.ResourceDesert {
			continue
		}
		cx, cy := layout.Center(p)
		radius := discRatio * layout.Size
		fillPolygon(img, circle(cx, cy, radius+lineWidth/2), outline)
		fillPolygon(img, circle(cx, cy, max(radius-lineWidth/2, 1)), discFill)

		ink := labelColor
		if generation.IsHighlyProductive(t.Number) {
			ink = hotColor
		}
		labels = append(labels, label{strconv.Itoa(t.Number), cx, cy, ink})
	}

	// Faces keep per-glyph scratch buffers, so text is drawn under the lock
	r.mu.Lock()
	defer r.mu.Unlock()
	face := r.face(layout.LabelPoints())
	for _, l := range labels {
		drawLabel(img, face, l.text, l.cx, l.cy, l.ink)
	}
	return img
}

// PNG encodes the rendered tiles to w
func (r *Renderer) PNG(w io.Writer, tiles []generation.TileState, extent generation.Bounds, width, height int) error {
	if width <= 0 || height <= 0 {
		width, height = r.width, r.height
	}
	if err := png.Encode(w, r.ImageSized(tiles, extent, width, height)); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// face returns a cached bold face at roughly the given point size.
// Callers hold r.mu.
func (r *Renderer) face(points float64) font.Face {
	size := max(int(points), 6)
	if f, ok := r.faces[size]; ok {
		return f
	}
	if r.ttf == nil {
		return basicfont.Face7x13
	}
	f, err := opentype.NewFace(r.ttf, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     96,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	r.faces[size] = f
	return f
}

func fillPolygon(dst draw.Image, pts [][2]float64, c color.Color) {
	if len(pts) < 3 {
		return
	}
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(float32(pts[0][0]), float32(pts[0][1]))
	for _, p := range pts[1:] {
		z.LineTo(float32(p[0]), float32(p[1]))
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

func circle(cx, cy, r float64) [][2]float64 {
	pts := make([][2]float64, discPoints)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / discPoints
		pts[i] = [2]float64{cx + r*math.Cos(a), cy + r*math.Sin(a)}
	}
	return pts
}

// drawLabel centres text horizontally on cx with its baseline placed so the
// digits sit in the middle of the disc
func drawLabel(dst draw.Image, face font.Face, text string, cx, cy float64, c color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	width := d.MeasureString(text)
	ascent := face.Metrics().Ascent
	x := fixed.Int26_6(cx*64) - width/2
	y := fixed.Int26_6(cy*64) + ascent*85/200
	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(text)
}

// parseHex reads a #RRGGBB color. Anything else renders white.
func parseHex(s string) color.RGBA {
	if len(s) != 7 || s[0] != '#' {
		return background
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return background
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}
}
