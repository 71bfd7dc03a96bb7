package frame

import "errors"

// HeaderBits is the width of the length header: a 32-bit unsigned,
// big-endian count of payload bits, embedded before the payload itself.
const HeaderBits = 32

// ErrCorruptHeader indicates the decoded length header is implausible.
// This is a sanity bound, not a cryptographic check: it catches lengths
// that cannot possibly fit the carrier, not all garbage.
var ErrCorruptHeader = errors.New("could not extract hidden data (invalid or corrupt length header)")

// Frame prepends the 32-bit length header to the payload bitstring.
func Frame(payload []byte) []byte {
	out := make([]byte, HeaderBits, HeaderBits+len(payload))
	v := uint32(len(payload))
	for i := 0; i < HeaderBits; i++ {
		out[i] = byte((v >> (HeaderBits - 1 - i)) & 1)
	}
	return append(out, payload...)
}

// HeaderValue decodes the 32 header bits into a payload bit count and
// bound-checks it against the carrier capacity. Extraction must then read
// exactly that many bits and stop, regardless of remaining capacity.
func HeaderValue(header []byte, capacityBits int) (int, error) {
	if len(header) != HeaderBits {
		return 0, ErrCorruptHeader
	}
	var v uint32
	for _, bit := range header {
		v = v<<1 | uint32(bit&1)
	}
	n := int(v)
	if n <= 0 || n > capacityBits-HeaderBits {
		return 0, ErrCorruptHeader
	}
	return n, nil
}
