// Package bitstream consumes byte sequences a few low bits at a time.
//
// Both the drunken bishop walk (2 bits, 4 steps per byte) and the color
// bias derivation (4 bits, 2 steps per byte) read their input the same way:
// mask the low bits, act on them, shift right, repeat.
package bitstream

// Walk calls fn steps times for every byte of data, in order. Each call
// receives the low width bits of the byte; the byte is then shifted right by
// width. width*steps should not exceed 8, otherwise later steps see zeros.
func Walk(data []byte, width, steps uint, fn func(chunk byte)) {
	mask := byte(1)<<width - 1
	for _, b := range data {
		for range steps {
			fn(b & mask)
			b >>= width
		}
	}
}

// Sign returns +1 if bit is set in chunk and -1 otherwise.
func Sign(chunk, bit byte) int {
	if chunk&bit != 0 {
		return 1
	}
	return -1
}
