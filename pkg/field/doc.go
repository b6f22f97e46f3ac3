// Package field implements the drunken bishop walk that turns fingerprint
// bytes into a grid of visit counts.
//
// The walk starts at the centre of a Rows x Cols grid. Every byte moves the
// cursor four times, one diagonal step per bit pair (low bits first): bit 0
// picks left or right, bit 1 picks up or down. The cursor is clamped to the
// grid edges and each visited cell counts up to a cap. After the walk the
// centre becomes the start marker and the final position the end marker.
//
// Cells are a small tagged union ([Cell]) so that a marker is never mistaken
// for a count:
//
//	f := field.Generate(fp.Bytes, field.TextDims)
//	c := f.At(f.End().Row, f.End().Col)
//	fmt.Println(c.Kind() == field.KindEnd) // true
package field
