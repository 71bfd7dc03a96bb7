package compression

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

// Compressor defines the contract for payload compression. File payloads
// are compressed before embedding because pixel capacity, not disk space,
// is the scarce resource.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// GzipCompressor implements standard gzip compression.
type GzipCompressor struct{}

func NewGzipCompressor() *GzipCompressor {
	return &GzipCompressor{}
}

func (g *GzipCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	// BestCompression: every byte saved is 8 channel writes saved.
	writer, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}

	if _, err := writer.Write(data); err != nil {
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (g *GzipCompressor) Decompress(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("payload is not valid gzip: %w", err)
	}
	defer reader.Close()

	return io.ReadAll(reader)
}
