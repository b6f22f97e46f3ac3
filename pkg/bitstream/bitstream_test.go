package bitstream

import (
	"reflect"
	"testing"
)

func TestWalk(t *testing.T) {
	tests := []struct {
		name         string
		data         []byte
		width, steps uint
		want         []byte
	}{
		{"two bit pairs", []byte{0b11_10_01_00}, 2, 4, []byte{0, 1, 2, 3}},
		{"nibbles", []byte{0xA5}, 4, 2, []byte{0x5, 0xA}},
		{"multiple bytes", []byte{0x01, 0x80}, 4, 2, []byte{0x1, 0x0, 0x0, 0x8}},
		{"empty", nil, 2, 4, nil},
		{"partial consume", []byte{0xFF}, 2, 1, []byte{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []byte
			Walk(tt.data, tt.width, tt.steps, func(c byte) { got = append(got, c) })
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Walk() chunks = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWalkDoesNotMutate(t *testing.T) {
	data := []byte{0xDE, 0xAD}
	Walk(data, 2, 4, func(byte) {})
	if data[0] != 0xDE || data[1] != 0xAD {
		t.Errorf("Walk mutated input: %x", data)
	}
}

func TestSign(t *testing.T) {
	if Sign(0b01, 1) != 1 || Sign(0b10, 1) != -1 || Sign(0b10, 2) != 1 {
		t.Error("Sign() returned unexpected values")
	}
}
