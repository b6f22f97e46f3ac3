package raster

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/clrfp/pkg/field"
)

// Glyph is one of the drawable tile contents.
type Glyph uint8

const (
	GlyphNone Glyph = iota
	GlyphEllipse
	GlyphTriangle
	GlyphRectangle
	GlyphRing
	GlyphCross
	GlyphFlag
	GlyphStart
	GlyphEnd
)

// countShapes is the rotation used for visit counts.
var countShapes = [...]Glyph{GlyphEllipse, GlyphTriangle, GlyphRectangle, GlyphRing, GlyphCross, GlyphFlag}

// countColors is the cycle color rotation for visit counts.
var countColors = [...]colorful.Color{
	mustHex("#0000ff"), // blue
	mustHex("#008000"), // green
	mustHex("#ff0000"), // red
}

var (
	markerColor = mustHex("#000000")
	lightTile   = mustHex("#ffffff")
	darkTile    = mustHex("#eeeeee")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// GlyphFor returns the glyph and color for a cell.
func GlyphFor(c field.Cell) (Glyph, colorful.Color) {
	switch c.Kind() {
	case field.KindStart:
		return GlyphStart, markerColor
	case field.KindEnd:
		return GlyphEnd, markerColor
	}
	n := c.Count()
	if n <= 0 {
		return GlyphNone, colorful.Color{}
	}
	k := len(countShapes)
	return countShapes[(n-1)%k], countColors[((n-1)/k)%len(countColors)]
}

// tileColor returns the checkerboard shade for a cell.
func tileColor(row, col int) colorful.Color {
	if (row+col)%2 == 1 {
		return darkTile
	}
	return lightTile
}

// painter is the drawing surface a sink provides. Coordinates are inclusive
// pixel bounds.
type painter interface {
	rect(x0, y0, x1, y1 float64, c colorful.Color)
	ellipse(x0, y0, x1, y1 float64, c colorful.Color, stroke float64) // stroke 0 fills
	polygon(xs, ys []float64, c colorful.Color)
	line(x0, y0, x1, y1, width float64, c colorful.Color)
}

// tile is the pixel box of one cell.
type tile struct {
	x, y, size, inset float64
}

type drawFunc func(p painter, t tile, c colorful.Color)

// glyphTable dispatches every glyph to its drawing routine.
var glyphTable = [...]drawFunc{
	GlyphNone:      func(painter, tile, colorful.Color) {},
	GlyphEllipse:   drawEllipse,
	GlyphTriangle:  drawTriangle,
	GlyphRectangle: drawRectangle,
	GlyphRing:      drawRing,
	GlyphCross:     drawCross,
	GlyphFlag:      drawFlag,
	GlyphStart:     drawS,
	GlyphEnd:       drawE,
}

func drawRectangle(p painter, t tile, c colorful.Color) {
	p.rect(t.x+t.inset, t.y+t.inset, t.x+t.size-t.inset, t.y+t.size-t.inset, c)
}

func drawEllipse(p painter, t tile, c colorful.Color) {
	p.ellipse(t.x+t.inset, t.y+t.inset, t.x+t.size-t.inset, t.y+t.size-t.inset, c, 0)
}

func drawTriangle(p painter, t tile, c colorful.Color) {
	in := t.inset
	apex := t.x + float64(int(t.size-2*in)/2) + in
	p.polygon(
		[]float64{t.x + in, t.x + t.size - in, apex},
		[]float64{t.y + t.size - in, t.y + t.size - in, t.y + in},
		c,
	)
}

func drawRing(p painter, t tile, c colorful.Color) {
	in := t.inset
	p.ellipse(t.x+2*in, t.y+in, t.x+t.size-2*in, t.y+t.size-in, c, 3)
}

func drawCross(p painter, t tile, c colorful.Color) {
	in := t.inset
	l, r := t.x+3*in, t.x+t.size-3*in
	top, bot := t.y+in, t.y+t.size-in
	p.line(l, top, r, bot, 2, c)
	p.line(l, bot, r, top, 2, c)
}

// letterBox returns the bounds shared by the letter-like glyphs.
func letterBox(t tile) (l, r, top, bot, mid float64) {
	l, r = t.x+2*t.inset, t.x+t.size-2*t.inset
	top, bot = t.y+t.inset, t.y+t.size-t.inset
	mid = float64(int(top+bot) / 2)
	return
}

func drawFlag(p painter, t tile, c colorful.Color) {
	in := t.inset
	half := float64(int(in) / 2)
	l, r, top, bot, mid := letterBox(t)
	p.rect(l, top, l+in, bot, c)
	p.rect(l, top, r, top+in, c)
	p.rect(l, mid-half, r-2*in, mid+half, c)
}

func drawS(p painter, t tile, c colorful.Color) {
	in := t.inset
	half := float64(int(in) / 2)
	l, r, top, bot, mid := letterBox(t)
	p.rect(l, top, r, top+in, c)
	p.rect(l, mid-half, r, mid+half, c)
	p.rect(l, bot-in, r, bot, c)
	p.rect(l, top, l+in, mid, c)
	p.rect(r-in, mid, r, bot, c)
}

func drawE(p painter, t tile, c colorful.Color) {
	in := t.inset
	half := float64(int(in) / 2)
	l, r, top, bot, mid := letterBox(t)
	p.rect(l, top, l+in, bot, c)
	p.rect(l, top, r, top+in, c)
	p.rect(l, mid-half, r-2*in, mid+half, c)
	p.rect(l, bot-in, r, bot, c)
}
