// Package text renders a field as a bordered randomart block with ANSI color
// bands.
//
// The block is the familiar ssh-keygen layout: a top border carrying the key
// type and size, one line per field row, and a bottom border carrying the
// digest name. Lines are split into four contiguous bands and every band is
// painted with one palette entry chosen by the fingerprint's color bias.
// Banding only changes colors, never glyphs.
package text

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/matzehuels/clrfp/pkg/field"
	"github.com/matzehuels/clrfp/pkg/fingerprint"
	"github.com/matzehuels/clrfp/pkg/palette"
)

// Alphabet maps counts to glyphs. The last two symbols are reserved for the
// start and end markers.
const Alphabet = " .o+=*BOX@%&#/^SE"

const maxGlyph = len(Alphabet) - 3

var (
	startGlyph = Alphabet[len(Alphabet)-2]
	endGlyph   = Alphabet[len(Alphabet)-1]
)

// Mode selects how band colors are painted.
type Mode uint8

const (
	Foreground Mode = iota // colored glyphs
	Background             // colored cell fill
)

// ParseMode converts "foreground" or "background" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "foreground", "fg":
		return Foreground, nil
	case "background", "bg":
		return Background, nil
	}
	return 0, fmt.Errorf("invalid color mode: %s (must be 'foreground' or 'background')", s)
}

// String returns the flag spelling of m.
func (m Mode) String() string {
	if m == Background {
		return "background"
	}
	return "foreground"
}

// PaletteSize is the number of entries in each palette.
const PaletteSize = 7

var (
	bold  = termenv.CSI + termenv.BoldSeq + "m"
	reset = termenv.CSI + termenv.ResetSeq + "m"
)

func fg(c termenv.ANSIColor) string { return termenv.CSI + c.Sequence(false) + "m" }
func bg(c termenv.ANSIColor) string { return termenv.CSI + c.Sequence(true) + "m" }

// palettes holds one table per Mode. Both end in plain white text.
var palettes = [...][PaletteSize]string{
	Foreground: {
		fg(termenv.ANSIRed), fg(termenv.ANSIBlue), fg(termenv.ANSIGreen), fg(termenv.ANSIYellow),
		fg(termenv.ANSIMagenta), fg(termenv.ANSICyan), fg(termenv.ANSIWhite),
	},
	Background: {
		bg(termenv.ANSIRed), bg(termenv.ANSIBlue), bg(termenv.ANSIGreen), bg(termenv.ANSIYellow),
		bg(termenv.ANSIMagenta), bg(termenv.ANSICyan), fg(termenv.ANSIWhite),
	},
}

// Palette returns the escape sequences used for mode.
func Palette(m Mode) [PaletteSize]string { return palettes[m] }

// Lines returns the uncolored block: top border, one line per row, bottom
// border. Every line is f.Cols()+2 characters wide.
func Lines(f *field.Field, meta fingerprint.Metadata) []string {
	cols := f.Cols()
	lines := make([]string, 0, f.Rows()+2)

	lines = append(lines, topBorder(cols, meta))

	var b strings.Builder
	for r := 0; r < f.Rows(); r++ {
		b.Reset()
		b.WriteByte('|')
		for c := 0; c < cols; c++ {
			b.WriteByte(Glyph(f.At(r, c)))
		}
		b.WriteByte('|')
		lines = append(lines, b.String())
	}

	lines = append(lines, bottomBorder(cols, meta.Digest))
	return lines
}

// Glyph returns the symbol for a cell. Counts past the alphabet's range
// show the densest count glyph so they never look like a marker.
func Glyph(c field.Cell) byte {
	switch c.Kind() {
	case field.KindStart:
		return startGlyph
	case field.KindEnd:
		return endGlyph
	}
	return Alphabet[min(c.Count(), maxGlyph)]
}

func topBorder(cols int, meta fingerprint.Metadata) string {
	line := fmt.Sprintf("+--[%s %s]", meta.KeyType, meta.KeySize)
	return line + dashes(cols-len(line)+1) + "+"
}

func bottomBorder(cols int, d fingerprint.Digest) string {
	line := "+" + dashes((cols-len(d)-2)/2) + "[" + string(d) + "]"
	return line + dashes(cols-len(line)+1) + "+"
}

func dashes(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("-", n)
}

// BandSize returns how many consecutive lines share a color when lineCount
// lines are split into palette.Bands bands.
func BandSize(lineCount int) int {
	return max(1, (lineCount+palette.Bands-1)/palette.Bands)
}

// Render returns the colored block. Each line is wrapped as
// bold + color + line + reset + newline.
func Render(f *field.Field, meta fingerprint.Metadata, bias palette.Bias, mode Mode) string {
	return Paint(Lines(f, meta), bias, mode)
}

// Paint colors pre-built lines in bands.
func Paint(lines []string, bias palette.Bias, mode Mode) string {
	colors := palettes[mode]
	size := BandSize(len(lines))

	var b strings.Builder
	var color string
	for i, line := range lines {
		if i%size == 0 {
			color = colors[bias.Index(i/size, len(colors))]
		}
		b.WriteString(bold)
		b.WriteString(color)
		b.WriteString(line)
		b.WriteString(reset)
		b.WriteByte('\n')
	}
	return b.String()
}

// Plain returns the block without any escape sequences.
func Plain(f *field.Field, meta fingerprint.Metadata) string {
	return strings.Join(Lines(f, meta), "\n") + "\n"
}
