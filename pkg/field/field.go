package field

import (
	"fmt"

	"github.com/matzehuels/clrfp/pkg/bitstream"
)

// Kind identifies what a cell holds.
type Kind uint8

const (
	KindCount Kind = iota // an ordinary visit count, possibly zero
	KindStart             // the walk's starting cell (the grid centre)
	KindEnd               // the walk's final cell
)

// Cell is one grid position.
type Cell struct {
	kind  Kind
	count int
}

// Count returns a count cell holding n.
func Count(n int) Cell { return Cell{kind: KindCount, count: n} }

// Kind returns what the cell holds.
func (c Cell) Kind() Kind { return c.kind }

// Count returns the visit count. It is zero for marker cells.
func (c Cell) Count() int { return c.count }

// IsEmpty reports whether the cell is an unvisited count cell.
func (c Cell) IsEmpty() bool { return c.kind == KindCount && c.count == 0 }

// Point is a grid coordinate.
type Point struct {
	Row, Col int
}

// Dims configures a walk.
type Dims struct {
	Rows, Cols int
	// MaxFigure sizes the glyph range; counts stop at MaxFigure-2 so that
	// the two markers can take the last two glyphs.
	MaxFigure int
}

// Cap returns the highest count a cell can reach.
func (d Dims) Cap() int { return d.MaxFigure - 2 }

// Presets for the two renderers.
var (
	TextDims  = Dims{Rows: 9, Cols: 17, MaxFigure: 17}
	ImageDims = Dims{Rows: 32, Cols: 32, MaxFigure: 20}
)

// Field is the result of a walk. It is immutable once returned.
type Field struct {
	dims  Dims
	cells []Cell
	start Point
	end   Point
}

// Generate runs the drunken bishop walk over data.
func Generate(data []byte, dims Dims) *Field {
	f := &Field{
		dims:  dims,
		cells: make([]Cell, dims.Rows*dims.Cols),
		start: Point{Row: dims.Rows / 2, Col: dims.Cols / 2},
	}
	limit := dims.Cap()

	pos := f.start
	bitstream.Walk(data, 2, 4, func(step byte) {
		pos.Col = clamp(pos.Col+bitstream.Sign(step, 1), 0, dims.Cols-1)
		pos.Row = clamp(pos.Row+bitstream.Sign(step, 2), 0, dims.Rows-1)
		c := &f.cells[f.index(pos)]
		if c.count < limit {
			c.count++
		}
	})
	f.end = pos

	// Markers are written last; the end marker wins when both land on the
	// centre.
	f.cells[f.index(f.start)] = Cell{kind: KindStart}
	f.cells[f.index(f.end)] = Cell{kind: KindEnd}
	return f
}

// New assembles a field from explicit row-major counts, clamped to the cap,
// with the start marker at the centre and the end marker at end. counts may
// be nil for an empty grid. It panics if counts has the wrong length or end
// lies outside the grid. Renderer tests use it to build exact layouts;
// production fields come from [Generate].
func New(dims Dims, counts []int, end Point) *Field {
	f := &Field{
		dims:  dims,
		cells: make([]Cell, dims.Rows*dims.Cols),
		start: Point{Row: dims.Rows / 2, Col: dims.Cols / 2},
		end:   end,
	}
	if counts != nil && len(counts) != len(f.cells) {
		panic("field: counts length does not match dims")
	}
	for i, n := range counts {
		f.cells[i] = Count(clamp(n, 0, dims.Cap()))
	}
	if end.Row < 0 || end.Row >= dims.Rows || end.Col < 0 || end.Col >= dims.Cols {
		panic(fmt.Sprintf("field: end %v outside %dx%d grid", end, dims.Rows, dims.Cols))
	}
	f.cells[f.index(f.start)] = Cell{kind: KindStart}
	f.cells[f.index(f.end)] = Cell{kind: KindEnd}
	return f
}

// Rows returns the number of grid rows.
func (f *Field) Rows() int { return f.dims.Rows }

// Cols returns the number of grid columns.
func (f *Field) Cols() int { return f.dims.Cols }

// Dims returns the dimensions the field was generated with.
func (f *Field) Dims() Dims { return f.dims }

// Start returns the start marker position (always the grid centre).
func (f *Field) Start() Point { return f.start }

// End returns the end marker position.
func (f *Field) End() Point { return f.end }

// At returns the cell at row, col. It panics if the coordinate is outside
// the grid.
func (f *Field) At(row, col int) Cell {
	if row < 0 || row >= f.dims.Rows || col < 0 || col >= f.dims.Cols {
		panic("field: coordinate out of range")
	}
	return f.cells[row*f.dims.Cols+col]
}

// MaxCount returns the highest count present in the grid.
func (f *Field) MaxCount() int {
	m := 0
	for _, c := range f.cells {
		if c.kind == KindCount && c.count > m {
			m = c.count
		}
	}
	return m
}

// Equal reports whether two fields have identical dimensions and cells.
func (f *Field) Equal(o *Field) bool {
	if f.dims != o.dims || f.start != o.start || f.end != o.end {
		return false
	}
	for i := range f.cells {
		if f.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

func (f *Field) index(p Point) int { return p.Row*f.dims.Cols + p.Col }

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
