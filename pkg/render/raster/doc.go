// Package raster renders a field as a grid of colored glyph tiles.
//
// Every cell becomes a square tile on a two-shade checkerboard. Empty cells
// stay blank, the start and end markers are drawn as black "S" and "E"
// letters, and a visit count n picks one of six shapes by (n-1) % 6 and one
// of three colors by ((n-1) / 6) % 3, so shape encodes the count within a
// cycle and color encodes the cycle.
//
// Two sinks share the same glyph table:
//
//	png, err := raster.RenderPNG(f)          // fogleman/gg
//	svg := raster.RenderSVG(f, raster.WithTileSize(16))
//
// The canvas is always Cols*tile pixels wide and Rows*tile pixels high.
package raster
