package bitcodec

import "unicode/utf16"

// UnitBits is the fixed width of one encoded text unit.
//
// Text is encoded as UTF-16 code units, 16 bits each, big-endian. This is a
// deliberate wire-format choice: it covers the full 16-bit code-unit range
// (supplementary characters travel as surrogate pairs) at the cost of
// doubling storage versus UTF-8. Changing the width breaks every payload
// already embedded in the wild, so it requires a format version bump.
const UnitBits = 16

// Encode converts text to a bitstring, one byte per bit (0 or 1),
// each UTF-16 code unit written as 16 bits, most significant first.
func Encode(text string) []byte {
	units := utf16.Encode([]rune(text))
	bits := make([]byte, 0, len(units)*UnitBits)
	for _, u := range units {
		for i := UnitBits - 1; i >= 0; i-- {
			bits = append(bits, byte((u>>i)&1))
		}
	}
	return bits
}

// Decode converts a bitstring back to text. Any trailing group shorter than
// 16 bits is discarded rather than zero-padded, so a truncated read never
// fabricates a spurious final character.
func Decode(bits []byte) string {
	n := len(bits) / UnitBits
	units := make([]uint16, n)
	for i := 0; i < n; i++ {
		var u uint16
		for j := 0; j < UnitBits; j++ {
			u = u<<1 | uint16(bits[i*UnitBits+j]&1)
		}
		units[i] = u
	}
	return string(utf16.Decode(units))
}
