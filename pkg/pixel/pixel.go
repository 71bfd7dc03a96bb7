package pixel

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
)

// Buffer is an owned, arena-style pixel buffer laid out as repeating
// (R,G,B,A) byte groups. It is created once at the boundary from a decoded
// image and holds no reference back to it, so embedding can mutate Pix
// freely without aliasing a rendering surface.
type Buffer struct {
	Pix    []uint8
	Width  int
	Height int
}

// New allocates a zeroed buffer of the given dimensions.
func New(width, height int) *Buffer {
	return &Buffer{
		Pix:    make([]uint8, width*height*4),
		Width:  width,
		Height: height,
	}
}

// FromImage copies img into a fresh Buffer.
// NRGBA images are copied directly; anything else goes through a draw
// conversion (same fallback the extraction path of any image type needs,
// since premultiplied formats would otherwise lose low bits).
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	nrgba := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)

	buf := &Buffer{
		Pix:    make([]uint8, len(nrgba.Pix)),
		Width:  width,
		Height: height,
	}
	copy(buf.Pix, nrgba.Pix)
	return buf
}

// Image wraps the buffer back into an *image.NRGBA for encoding.
// The returned image shares Pix with the buffer; callers that keep the
// buffer alive after encoding should Clone first.
func (b *Buffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		Pix:    make([]uint8, len(b.Pix)),
		Width:  b.Width,
		Height: b.Height,
	}
	copy(out.Pix, b.Pix)
	return out
}

// Pixels returns the number of pixels in the buffer.
func (b *Buffer) Pixels() int {
	return b.Width * b.Height
}

// ForceOpaque sets every alpha byte to 0xFF. The watermark path does this
// before embedding so that encoders targeting premultiplied formats cannot
// disturb the color channels carrying payload bits.
func (b *Buffer) ForceOpaque() {
	for i := 3; i < len(b.Pix); i += 4 {
		b.Pix[i] = 0xFF
	}
}

// Decode reads any registered image format from r into a Buffer.
func Decode(r io.Reader) (*Buffer, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img), nil
}

// EncodePNG writes the buffer to w as a PNG. PNG is the only sanctioned
// output format: lossy encoders would destroy the LSB payload.
func EncodePNG(w io.Writer, b *Buffer) error {
	if err := png.Encode(w, b.Image()); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
