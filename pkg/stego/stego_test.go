package stego

import (
	"bytes"
	"errors"
	"testing"

	"github.com/obscura-tools/obscura/pkg/capacity"
	"github.com/obscura-tools/obscura/pkg/frame"
	"github.com/obscura-tools/obscura/pkg/pixel"
)

func uniformBuffer(w, h int, val uint8) *pixel.Buffer {
	buf := pixel.New(w, h)
	for i := range buf.Pix {
		buf.Pix[i] = val
	}
	return buf
}

func TestTextRoundTrip(t *testing.T) {
	// 10x10 = 300 bits. "secret" needs 32 + 6*16 = 128 bits.
	buf := uniformBuffer(10, 10, 100)

	if err := EmbedText(buf, "secret"); err != nil {
		t.Fatalf("EmbedText failed: %v", err)
	}

	got, err := ExtractText(buf)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if got != "secret" {
		t.Errorf("Expected %q, got %q", "secret", got)
	}
}

func TestTextRoundTripUnicode(t *testing.T) {
	buf := uniformBuffer(20, 20, 100)
	message := "héllo 🔒 wörld"

	if err := EmbedText(buf, message); err != nil {
		t.Fatalf("EmbedText failed: %v", err)
	}
	got, err := ExtractText(buf)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if got != message {
		t.Errorf("Expected %q, got %q", message, got)
	}
}

func TestCapacityExceeded(t *testing.T) {
	// 1x1 = 3 bits; "secret" needs 128 framed bits.
	buf := uniformBuffer(1, 1, 100)

	err := EmbedText(buf, "secret")
	var capErr *capacity.CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("Expected *CapacityError, got %v", err)
	}
	if capErr.Needed != 128 || capErr.Available != 3 {
		t.Errorf("Expected needed=128 available=3, got needed=%d available=%d", capErr.Needed, capErr.Available)
	}
}

func TestFailedEmbedLeavesCarrierUntouched(t *testing.T) {
	buf := uniformBuffer(1, 1, 100)
	before := append([]byte(nil), buf.Pix...)

	if err := EmbedText(buf, "secret"); err == nil {
		t.Fatal("Expected capacity failure")
	}
	if !bytes.Equal(before, buf.Pix) {
		t.Error("Failed embed modified the carrier")
	}
}

func TestExactCapacityFit(t *testing.T) {
	// 4x4 = 48 bits = 32 header + one 16-bit character, exactly full.
	buf := uniformBuffer(4, 4, 100)

	if err := EmbedText(buf, "A"); err != nil {
		t.Fatalf("Message filling capacity exactly should embed, got %v", err)
	}
	got, err := ExtractText(buf)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if got != "A" {
		t.Errorf("Expected %q, got %q", "A", got)
	}
}

func TestExtractFromGarbage(t *testing.T) {
	// All-ones LSBs decode to a 0xFFFFFFFF header, which can never fit.
	buf := uniformBuffer(10, 10, 0xFF)

	if _, err := ExtractText(buf); !errors.Is(err, frame.ErrCorruptHeader) {
		t.Errorf("Expected ErrCorruptHeader, got %v", err)
	}
}

func TestExtractFromTinyImage(t *testing.T) {
	// 3x3 = 27 bits: not even a full header.
	buf := uniformBuffer(3, 3, 100)

	if _, err := ExtractText(buf); !errors.Is(err, frame.ErrCorruptHeader) {
		t.Errorf("Expected ErrCorruptHeader, got %v", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	buf := uniformBuffer(64, 64, 100)
	data := []byte("file contents with some binary \x00\x01\x02 bytes")

	if err := EmbedFile(buf, "notes.txt", data, 1700000000000, false); err != nil {
		t.Fatalf("EmbedFile failed: %v", err)
	}

	restored, info, err := ExtractFile(buf)
	if err != nil {
		t.Fatalf("ExtractFile failed: %v", err)
	}
	if !bytes.Equal(data, restored) {
		t.Error("Restored file contents mismatch")
	}
	if info.Name != "notes.txt" || info.Size != int64(len(data)) || info.Compressed {
		t.Errorf("Unexpected file info: %+v", info)
	}
}

func TestFileRoundTripCompressed(t *testing.T) {
	buf := uniformBuffer(64, 64, 100)
	data := bytes.Repeat([]byte("repetitive payload "), 40)

	if err := EmbedFile(buf, "log.txt", data, 0, true); err != nil {
		t.Fatalf("EmbedFile failed: %v", err)
	}

	restored, info, err := ExtractFile(buf)
	if err != nil {
		t.Fatalf("ExtractFile failed: %v", err)
	}
	if !bytes.Equal(data, restored) {
		t.Error("Compressed round trip mismatch")
	}
	if !info.Compressed {
		t.Error("Expected Compressed flag to survive the round trip")
	}
}

func TestExtractFileFromTextPayload(t *testing.T) {
	buf := uniformBuffer(20, 20, 100)
	if err := EmbedText(buf, "just text"); err != nil {
		t.Fatalf("EmbedText failed: %v", err)
	}

	if _, _, err := ExtractFile(buf); err == nil {
		t.Error("Extracting a file from a text payload should fail")
	}
}
