package pixel

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func TestFromImageCopiesPixels(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.NRGBA{R: 10, G: 20, B: 30, A: 255}}, image.Point{}, draw.Src)

	buf := FromImage(img)
	if buf.Width != 3 || buf.Height != 2 {
		t.Fatalf("Expected 3x2 buffer, got %dx%d", buf.Width, buf.Height)
	}

	// Mutating the buffer must not touch the source image.
	buf.Pix[0] = 99
	if img.Pix[0] != 10 {
		t.Error("Buffer aliases the source image")
	}
}

func TestFromImageNonNRGBA(t *testing.T) {
	// RGBA (premultiplied) input goes through the conversion path.
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.NRGBA{R: 50, G: 60, B: 70, A: 255}}, image.Point{}, draw.Src)

	buf := FromImage(img)
	if buf.Pix[0] != 50 || buf.Pix[1] != 60 || buf.Pix[2] != 70 || buf.Pix[3] != 255 {
		t.Errorf("Unexpected first pixel: %v", buf.Pix[:4])
	}
}

func TestPNGRoundTripPreservesLSBs(t *testing.T) {
	buf := New(8, 8)
	for i := range buf.Pix {
		buf.Pix[i] = uint8(i % 251)
	}
	buf.ForceOpaque()

	var out bytes.Buffer
	if err := EncodePNG(&out, buf); err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}

	decoded, err := Decode(&out)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	// PNG is lossless: every channel byte survives.
	if !bytes.Equal(buf.Pix, decoded.Pix) {
		t.Error("PNG round trip altered pixel data")
	}
}

func TestClone(t *testing.T) {
	buf := New(2, 2)
	buf.Pix[5] = 42

	clone := buf.Clone()
	clone.Pix[5] = 7

	if buf.Pix[5] != 42 {
		t.Error("Clone shares storage with the original")
	}
}

func TestForceOpaque(t *testing.T) {
	buf := New(2, 2)
	buf.ForceOpaque()
	for i := 3; i < len(buf.Pix); i += 4 {
		if buf.Pix[i] != 0xFF {
			t.Fatalf("Alpha byte %d not opaque", i)
		}
	}
	if buf.Pix[0] != 0 {
		t.Error("ForceOpaque touched a color channel")
	}
}
