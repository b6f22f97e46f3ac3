package raster

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/clrfp/pkg/field"
)

// RenderSVG renders f as an SVG document with the same layout as the PNG
// sink.
func RenderSVG(f *field.Field, opts ...Option) []byte {
	r := newRenderer(opts)
	w, h := Size(f, opts...)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(w, h)
	r.paint(f, svgPainter{canvas})
	canvas.End()
	return buf.Bytes()
}

// svgPainter draws onto an svgo canvas. SVG coordinates are integral here;
// every glyph coordinate already is.
type svgPainter struct {
	canvas *svg.SVG
}

func px(v float64) int { return int(math.Round(v)) }

func fill(c colorful.Color) string { return "fill:" + c.Hex() }

func (p svgPainter) rect(x0, y0, x1, y1 float64, c colorful.Color) {
	p.canvas.Rect(px(x0), px(y0), px(x1-x0+1), px(y1-y0+1), fill(c))
}

func (p svgPainter) ellipse(x0, y0, x1, y1 float64, c colorful.Color, stroke float64) {
	rx, ry := (x1-x0+1)/2, (y1-y0+1)/2
	if stroke > 0 {
		style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%d", c.Hex(), px(stroke))
		p.canvas.Ellipse(px(x0+rx), px(y0+ry), px(rx-stroke/2), px(ry-stroke/2), style)
		return
	}
	p.canvas.Ellipse(px(x0+rx), px(y0+ry), px(rx), px(ry), fill(c))
}

func (p svgPainter) polygon(xs, ys []float64, c colorful.Color) {
	ix := make([]int, len(xs))
	iy := make([]int, len(ys))
	for i := range xs {
		ix[i], iy[i] = px(xs[i]), px(ys[i])
	}
	p.canvas.Polygon(ix, iy, fill(c))
}

func (p svgPainter) line(x0, y0, x1, y1, width float64, c colorful.Color) {
	style := fmt.Sprintf("stroke:%s;stroke-width:%d", c.Hex(), px(width))
	p.canvas.Line(px(x0), px(y0), px(x1), px(y1), style)
}
