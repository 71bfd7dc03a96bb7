package watermark

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/obscura-tools/obscura/pkg/bitcodec"
	"github.com/obscura-tools/obscura/pkg/capacity"
	"github.com/obscura-tools/obscura/pkg/crypto/packer"
	"github.com/obscura-tools/obscura/pkg/frame"
	"github.com/obscura-tools/obscura/pkg/lsb"
	"github.com/obscura-tools/obscura/pkg/pixel"
)

const (
	// Signature is the literal token every watermark payload starts with.
	Signature = "OBSCURA"
	// Delimiter separates the signature from the record body on the wire.
	Delimiter = "||"
	// Version is the record format version written by Add.
	Version = "1.0"
	// LegacyVersion marks records recovered from a raw, pre-JSON payload.
	LegacyVersion = "legacy"
)

// ErrNoWatermark indicates the extracted text does not start with the
// signature prefix. Distinct from a corrupt header: the frame was
// readable, it just isn't a watermark.
var ErrNoWatermark = errors.New("no watermark found in image")

// ErrPasswordRequired indicates an encrypted watermark was detected but no
// password was supplied. Recoverable: callers should re-prompt rather than
// treat the image as corrupt.
var ErrPasswordRequired = errors.New("watermark is encrypted: password required")

// Record is the structured payload carried by a watermark.
type Record struct {
	Watermark string `json:"watermark"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
	Version   string `json:"version"`
}

// Codec embeds and extracts watermark records, composing the frame codec,
// the cipher packer and the LSB embedder.
type Codec struct {
	packer *packer.Packer
}

// NewCodec returns a Codec backed by the default cipher packer.
func NewCodec() *Codec {
	return &Codec{packer: packer.New()}
}

// NewCodecWithPacker returns a Codec using a caller-supplied packer.
func NewCodecWithPacker(p *packer.Packer) *Codec {
	return &Codec{packer: p}
}

// NewRecord builds a version-stamped record for the given watermark text.
func NewRecord(text string) Record {
	return Record{
		Watermark: text,
		Timestamp: time.Now().UnixMilli(),
		Version:   Version,
	}
}

// Add embeds a record into the buffer. With a non-empty password the JSON
// record is first sealed into a cipher packet, so the embedded text is
// "OBSCURA||" followed by either a JSON object or a packet. The alpha
// channel is forced fully opaque first: a premultiplied encode of a
// translucent pixel would rewrite the color bytes under the payload.
func (c *Codec) Add(buf *pixel.Buffer, record Record, password string) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal watermark record: %w", err)
	}

	body := string(recordJSON)
	if password != "" {
		body, err = c.packer.Encrypt(recordJSON, password)
		if err != nil {
			return fmt.Errorf("failed to encrypt watermark: %w", err)
		}
	}

	payload := Signature + Delimiter + body
	framed := frame.Frame(bitcodec.Encode(payload))
	if err := capacity.Check(buf, len(framed)); err != nil {
		return err
	}

	buf.ForceOpaque()
	return lsb.Embed(buf, framed)
}

// Extract recovers a record from the buffer.
//
// The "looks encrypted" test is a best-effort heuristic, not a format tag:
// a JSON object always starts with '{' and a cipher packet never does
// (base64 first). An unencrypted payload that is not JSON will be
// misclassified; kept as-is for wire compatibility.
func (c *Codec) Extract(buf *pixel.Buffer, password string) (Record, error) {
	available := capacity.Available(buf)
	if available < frame.HeaderBits {
		return Record{}, frame.ErrCorruptHeader
	}

	header := lsb.Extract(buf, 0, frame.HeaderBits)
	n, err := frame.HeaderValue(header, available)
	if err != nil {
		return Record{}, err
	}
	text := bitcodec.Decode(lsb.Extract(buf, frame.HeaderBits, n))

	prefix := Signature + Delimiter
	if !strings.HasPrefix(text, prefix) {
		return Record{}, ErrNoWatermark
	}
	body := text[len(prefix):]

	looksEncrypted := !strings.HasPrefix(body, "{")
	if looksEncrypted {
		if password == "" {
			return Record{}, ErrPasswordRequired
		}
		plaintext, err := c.packer.Decrypt(body, password)
		if err != nil {
			return Record{}, err
		}
		body = string(plaintext)
	}

	var record Record
	if err := json.Unmarshal([]byte(body), &record); err != nil {
		if looksEncrypted {
			// Decryption "succeeded" but produced garbage; most likely a
			// wrong password on a legacy packet. Same generic failure.
			return Record{}, packer.ErrDecryptionFailed
		}
		// Unencrypted, non-JSON body: a legacy unstructured watermark.
		return Record{Watermark: body, Version: LegacyVersion}, nil
	}
	return record, nil
}
