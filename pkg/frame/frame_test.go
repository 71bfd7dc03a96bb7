package frame

import (
	"bytes"
	"errors"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	payload := []byte{1, 0, 1, 1, 0, 1}
	framed := Frame(payload)

	if len(framed) != HeaderBits+len(payload) {
		t.Fatalf("Expected %d framed bits, got %d", HeaderBits+len(payload), len(framed))
	}

	n, err := HeaderValue(framed[:HeaderBits], 1000)
	if err != nil {
		t.Fatalf("HeaderValue failed: %v", err)
	}
	if n != len(payload) {
		t.Errorf("Expected header value %d, got %d", len(payload), n)
	}
	if !bytes.Equal(framed[HeaderBits:], payload) {
		t.Error("Payload bits were altered by framing")
	}
}

func TestFrameHeaderEncoding(t *testing.T) {
	// 6 bits of payload: header is 26 zeros then 000110.
	framed := Frame(make([]byte, 6))
	header := framed[:HeaderBits]

	for i := 0; i < 28; i++ {
		if header[i] != 0 {
			t.Fatalf("Header bit %d: expected 0, got %d", i, header[i])
		}
	}
	want := []byte{0, 1, 1, 0}
	if !bytes.Equal(header[28:], want) {
		t.Errorf("Header tail mismatch.\nExpected: %v\nGot: %v", want, header[28:])
	}
}

func TestHeaderValueRejectsImplausible(t *testing.T) {
	zero := make([]byte, HeaderBits)
	if _, err := HeaderValue(zero, 300); !errors.Is(err, ErrCorruptHeader) {
		t.Errorf("Zero length should be corrupt, got %v", err)
	}

	// All ones: 0xFFFFFFFF payload bits can never fit.
	ones := bytes.Repeat([]byte{1}, HeaderBits)
	if _, err := HeaderValue(ones, 300); !errors.Is(err, ErrCorruptHeader) {
		t.Errorf("Oversized length should be corrupt, got %v", err)
	}

	// Exactly at the bound: capacity minus header is fine.
	exact := Frame(make([]byte, 268))[:HeaderBits]
	if _, err := HeaderValue(exact, 300); err != nil {
		t.Errorf("Length at capacity bound should pass, got %v", err)
	}

	// One past the bound fails.
	over := Frame(make([]byte, 269))[:HeaderBits]
	if _, err := HeaderValue(over, 300); !errors.Is(err, ErrCorruptHeader) {
		t.Errorf("Length one past bound should be corrupt, got %v", err)
	}
}

func TestHeaderValueWrongWidth(t *testing.T) {
	if _, err := HeaderValue([]byte{1, 0, 1}, 300); !errors.Is(err, ErrCorruptHeader) {
		t.Errorf("Short header should be corrupt, got %v", err)
	}
}
