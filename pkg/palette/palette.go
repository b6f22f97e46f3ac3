// Package palette derives deterministic color choices from fingerprint
// bytes.
//
// The bytes are hashed with SHA-512 purely to decorrelate colors from the
// walk shape; the hash is not used for any security purpose. Each digest
// nibble votes +1 or -1 on four counters, one per bit. The counters are then
// used as palette indices via floor modulo.
package palette

import (
	"crypto/sha512"

	"github.com/matzehuels/clrfp/pkg/bitstream"
)

// Bands is the number of bias counters, one per color band.
const Bands = 4

// Bias holds four signed counters centred roughly on zero.
type Bias [Bands]int

// Derive computes the color bias for data.
func Derive(data []byte) Bias {
	sum := sha512.Sum512(data)

	var b Bias
	bitstream.Walk(sum[:], 4, 2, func(nibble byte) {
		for i := range b {
			b[i] += bitstream.Sign(nibble, 1<<i)
		}
	})
	return b
}

// Index returns the palette index for band in a palette of size entries.
// The result is always in [0, size) even for negative counters.
func (b Bias) Index(band, size int) int {
	return Mod(b[band%Bands], size)
}

// Mod is floor modulo: the result has the sign of m.
func Mod(n, m int) int {
	r := n % m
	if r < 0 {
		r += m
	}
	return r
}
