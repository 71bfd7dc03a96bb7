package lsb

import (
	"github.com/obscura-tools/obscura/pkg/capacity"
	"github.com/obscura-tools/obscura/pkg/pixel"
)

// Embed writes one payload bit into the least significant bit of each
// usable channel, iterating pixels in buffer order and channels in R,G,B
// order (alpha is skipped). Channels beyond the payload are left untouched,
// and no channel is ever written twice.
//
// Extraction must walk the exact same traversal; a mismatch anywhere
// scrambles every bit after it.
func Embed(buf *pixel.Buffer, bits []byte) error {
	if err := capacity.Check(buf, len(bits)); err != nil {
		return err
	}

	for i, bit := range bits {
		px := i / capacity.ChannelsPerPixel
		ch := i % capacity.ChannelsPerPixel
		idx := px*4 + ch
		buf.Pix[idx] = (buf.Pix[idx] & 0xFE) | (bit & 1)
	}
	return nil
}

// Extract reads count LSBs starting at bit position offset, in the same
// pixel-major R,G,B order Embed writes them. The caller is responsible for
// keeping offset+count within the buffer capacity.
func Extract(buf *pixel.Buffer, offset, count int) []byte {
	bits := make([]byte, count)
	for i := 0; i < count; i++ {
		pos := offset + i
		px := pos / capacity.ChannelsPerPixel
		ch := pos % capacity.ChannelsPerPixel
		bits[i] = buf.Pix[px*4+ch] & 1
	}
	return bits
}
