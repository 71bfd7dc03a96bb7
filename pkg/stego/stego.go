package stego

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/obscura-tools/obscura/pkg/bitcodec"
	"github.com/obscura-tools/obscura/pkg/capacity"
	"github.com/obscura-tools/obscura/pkg/compression"
	"github.com/obscura-tools/obscura/pkg/frame"
	"github.com/obscura-tools/obscura/pkg/lsb"
	"github.com/obscura-tools/obscura/pkg/pixel"
)

// EmbedText hides a message in the buffer's pixel LSBs: 32-bit length
// header, then the message at 16 bits per text unit. The buffer is left
// untouched when the payload does not fit.
func EmbedText(buf *pixel.Buffer, text string) error {
	framed := frame.Frame(bitcodec.Encode(text))
	if err := capacity.Check(buf, len(framed)); err != nil {
		return err
	}
	return lsb.Embed(buf, framed)
}

// ExtractText recovers a message embedded by EmbedText. It reads exactly
// the number of bits the header declares and stops, regardless of how much
// capacity remains.
func ExtractText(buf *pixel.Buffer) (string, error) {
	body, err := extractFramed(buf)
	if err != nil {
		return "", err
	}
	return bitcodec.Decode(body), nil
}

// FileInfo is the JSON prelude embedded before a file body. Size is the
// size before compression.
type FileInfo struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	Compressed bool   `json:"compressed"`
	Timestamp  int64  `json:"timestamp"`
}

// EmbedFile hides an arbitrary byte payload plus a JSON metadata prelude.
// Layout inside the frame: 32-bit metadata length, metadata JSON, body
// bytes, all at 8 bits per byte, most significant bit first.
func EmbedFile(buf *pixel.Buffer, name string, data []byte, timestamp int64, compress bool) error {
	info := FileInfo{
		Name:       name,
		Size:       int64(len(data)),
		Compressed: compress,
		Timestamp:  timestamp,
	}

	body := data
	if compress {
		compressed, err := compression.NewGzipCompressor().Compress(data)
		if err != nil {
			return fmt.Errorf("compression failed: %w", err)
		}
		body = compressed
	}

	metaJSON, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal file metadata: %w", err)
	}

	payload := make([]byte, 4, 4+len(metaJSON)+len(body))
	binary.BigEndian.PutUint32(payload, uint32(len(metaJSON)))
	payload = append(payload, metaJSON...)
	payload = append(payload, body...)

	framed := frame.Frame(bytesToBits(payload))
	if err := capacity.Check(buf, len(framed)); err != nil {
		return err
	}
	return lsb.Embed(buf, framed)
}

// ExtractFile recovers a payload embedded by EmbedFile, decompressing the
// body if the metadata says it was compressed.
func ExtractFile(buf *pixel.Buffer) ([]byte, FileInfo, error) {
	body, err := extractFramed(buf)
	if err != nil {
		return nil, FileInfo{}, err
	}

	payload := bitsToBytes(body)
	if len(payload) < 4 {
		return nil, FileInfo{}, frame.ErrCorruptHeader
	}
	metaLen := int(binary.BigEndian.Uint32(payload[:4]))
	if metaLen <= 0 || metaLen > len(payload)-4 {
		return nil, FileInfo{}, frame.ErrCorruptHeader
	}

	var info FileInfo
	if err := json.Unmarshal(payload[4:4+metaLen], &info); err != nil {
		return nil, FileInfo{}, fmt.Errorf("image does not carry a file payload: %w", err)
	}

	data := payload[4+metaLen:]
	if info.Compressed {
		data, err = compression.NewGzipCompressor().Decompress(data)
		if err != nil {
			return nil, FileInfo{}, fmt.Errorf("failed to decompress file payload: %w", err)
		}
	}

	return data, info, nil
}

// extractFramed reads the 32-bit header, bound-checks it, then reads
// exactly that many payload bits.
func extractFramed(buf *pixel.Buffer) ([]byte, error) {
	available := capacity.Available(buf)
	if available < frame.HeaderBits {
		return nil, frame.ErrCorruptHeader
	}

	header := lsb.Extract(buf, 0, frame.HeaderBits)
	n, err := frame.HeaderValue(header, available)
	if err != nil {
		return nil, err
	}
	return lsb.Extract(buf, frame.HeaderBits, n), nil
}

// bytesToBits unpacks bytes into one bit per output byte, MSB first.
func bytesToBits(data []byte) []byte {
	bits := make([]byte, len(data)*8)
	for i, b := range data {
		for j := 0; j < 8; j++ {
			bits[i*8+j] = (b >> (7 - j)) & 1
		}
	}
	return bits
}

// bitsToBytes packs bits back into bytes, discarding any trailing group
// shorter than 8 bits.
func bitsToBytes(bits []byte) []byte {
	data := make([]byte, len(bits)/8)
	for i := range data {
		var b byte
		for j := 0; j < 8; j++ {
			b = b<<1 | bits[i*8+j]&1
		}
		data[i] = b
	}
	return data
}
