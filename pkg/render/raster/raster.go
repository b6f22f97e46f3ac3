package raster

import (
	"bytes"
	"image"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/clrfp/pkg/field"
)

// Default tile geometry in pixels.
const (
	DefaultTileSize = 25
	DefaultInset    = 2
)

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	tileSize int
	inset    int
}

// WithTileSize sets the edge length of one cell's tile. Values below 8 are
// raised to 8 so every glyph stays inside its tile.
func WithTileSize(n int) Option {
	return func(r *renderer) { r.tileSize = max(8, n) }
}

// WithInset sets the glyph margin inside a tile.
func WithInset(n int) Option {
	return func(r *renderer) { r.inset = max(0, n) }
}

func newRenderer(opts []Option) renderer {
	r := renderer{tileSize: DefaultTileSize, inset: DefaultInset}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Size returns the canvas dimensions for f.
func Size(f *field.Field, opts ...Option) (width, height int) {
	r := newRenderer(opts)
	return f.Cols() * r.tileSize, f.Rows() * r.tileSize
}

// paint walks the grid and draws every tile onto p.
func (r renderer) paint(f *field.Field, p painter) {
	size := float64(r.tileSize)
	for row := 0; row < f.Rows(); row++ {
		for col := 0; col < f.Cols(); col++ {
			t := tile{
				x:     float64(col * r.tileSize),
				y:     float64(row * r.tileSize),
				size:  size,
				inset: float64(r.inset),
			}
			p.rect(t.x, t.y, t.x+size-1, t.y+size-1, tileColor(row, col))

			g, c := GlyphFor(f.At(row, col))
			glyphTable[g](p, t, c)
		}
	}
}

// Draw renders f into an in-memory image.
func Draw(f *field.Field, opts ...Option) image.Image {
	return draw(f, opts).Image()
}

// RenderPNG renders f as PNG bytes.
func RenderPNG(f *field.Field, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := draw(f, opts).EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func draw(f *field.Field, opts []Option) *gg.Context {
	r := newRenderer(opts)
	w, h := Size(f, opts...)
	dc := gg.NewContext(w, h)
	r.paint(f, ggPainter{dc})
	return dc
}

// ggPainter draws onto a gg context.
type ggPainter struct {
	dc *gg.Context
}

func (p ggPainter) rect(x0, y0, x1, y1 float64, c colorful.Color) {
	p.dc.SetColor(c)
	p.dc.DrawRectangle(x0, y0, x1-x0+1, y1-y0+1)
	p.dc.Fill()
}

func (p ggPainter) ellipse(x0, y0, x1, y1 float64, c colorful.Color, stroke float64) {
	p.dc.SetColor(c)
	rx, ry := (x1-x0+1)/2, (y1-y0+1)/2
	if stroke > 0 {
		// Keep the stroke inside the bounding box.
		p.dc.DrawEllipse(x0+rx, y0+ry, rx-stroke/2, ry-stroke/2)
		p.dc.SetLineWidth(stroke)
		p.dc.Stroke()
		return
	}
	p.dc.DrawEllipse(x0+rx, y0+ry, rx, ry)
	p.dc.Fill()
}

func (p ggPainter) polygon(xs, ys []float64, c colorful.Color) {
	p.dc.SetColor(c)
	for i := range xs {
		if i == 0 {
			p.dc.MoveTo(xs[i], ys[i])
			continue
		}
		p.dc.LineTo(xs[i], ys[i])
	}
	p.dc.ClosePath()
	p.dc.Fill()
}

func (p ggPainter) line(x0, y0, x1, y1, width float64, c colorful.Color) {
	p.dc.SetColor(c)
	p.dc.SetLineWidth(width)
	p.dc.DrawLine(x0, y0, x1, y1)
	p.dc.Stroke()
}
