package capacity

import (
	"fmt"

	"github.com/obscura-tools/obscura/pkg/pixel"
)

// ChannelsPerPixel is the number of usable color channels. The alpha
// channel never carries payload bits.
const ChannelsPerPixel = 3

// CapacityError reports a payload that does not fit the carrier. Both
// numbers must be surfaced to the user so they can pick a bigger image.
type CapacityError struct {
	Needed    int // payload size in bits, including framing
	Available int // carrier capacity in bits
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("payload too large for carrier: need %d bits, have %d", e.Needed, e.Available)
}

// Available returns the number of embeddable bits in the buffer.
func Available(b *pixel.Buffer) int {
	return b.Width * b.Height * ChannelsPerPixel
}

// Check returns a *CapacityError if payloadBits cannot fit into the buffer.
// It must run before any pixel is written; a failed embed leaves the
// carrier untouched.
func Check(b *pixel.Buffer, payloadBits int) error {
	available := Available(b)
	if payloadBits > available {
		return &CapacityError{Needed: payloadBits, Available: available}
	}
	return nil
}
