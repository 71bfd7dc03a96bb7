package packer

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/obscura-tools/obscura/pkg/crypto/secrets"
)

const (
	// SaltSize is the length of the random PBKDF2 salt.
	SaltSize = 16
	// IVSize is the AES-GCM nonce length.
	IVSize = 12
	// KeySize is the derived key length (AES-256).
	KeySize = 32
	// Iterations is the PBKDF2 round count. Raising it invalidates no
	// existing packet (the salt travels with the ciphertext), but every
	// peer must agree on the count, so treat it as part of the format.
	Iterations = 100_000

	segmentSep = ":"
)

// ErrMalformedPacket indicates a packet with the wrong segment count or
// undecodable base64. Text packets have exactly 3 segments, file packets
// exactly 4.
var ErrMalformedPacket = errors.New("malformed cipher packet")

// ErrDecryptionFailed covers both a wrong password and a tampered
// ciphertext. The two are deliberately indistinguishable: reporting which
// sub-step failed would hand an attacker a password-guessing oracle.
var ErrDecryptionFailed = errors.New("decryption failed: wrong password or corrupted data")

// FileMetadata describes an encrypted file. It is sealed under the same
// derived key as the file body so one password recovers both with a single
// key derivation.
type FileMetadata struct {
	Filename  string `json:"filename"`
	MimeType  string `json:"type"`
	Size      int64  `json:"size"`
	Timestamp int64  `json:"timestamp"`
}

// Packer derives keys from passwords and converts plaintexts to and from
// the colon-delimited base64 packet formats. It holds no state between
// calls; every operation derives a fresh key and discards it.
type Packer struct {
	provider Provider
}

// New returns a Packer backed by the default AES-GCM provider.
func New() *Packer {
	return &Packer{provider: gcmProvider{}}
}

// NewWithProvider returns a Packer backed by a custom crypto provider.
func NewWithProvider(p Provider) *Packer {
	return &Packer{provider: p}
}

// Encrypt seals plaintext under a password-derived key and returns the
// text packet form "saltB64:ivB64:cipherB64". The salt and IV are freshly
// random on every call; an (IV, key) pair is never reused.
func (p *Packer) Encrypt(plaintext []byte, password string) (string, error) {
	salt, iv, err := randomSaltIV()
	if err != nil {
		return "", err
	}

	key := secrets.WrapSecret(p.provider.DeriveKey([]byte(password), salt, Iterations, KeySize))
	defer key.Destroy()

	ciphertext, err := p.provider.Seal(key.Bytes(), iv, plaintext)
	if err != nil {
		return "", fmt.Errorf("encryption failed: %w", err)
	}

	return joinSegments(salt, iv, ciphertext), nil
}

// Decrypt reverses Encrypt. A packet without exactly 3 segments fails with
// ErrMalformedPacket; an authentication failure (wrong password or
// modified ciphertext) fails with ErrDecryptionFailed.
func (p *Packer) Decrypt(packet string, password string) ([]byte, error) {
	segments, err := splitSegments(packet, 3)
	if err != nil {
		return nil, err
	}
	salt, iv, ciphertext := segments[0], segments[1], segments[2]

	key := secrets.WrapSecret(p.provider.DeriveKey([]byte(password), salt, Iterations, KeySize))
	defer key.Destroy()

	plaintext, err := p.provider.Open(key.Bytes(), iv, ciphertext)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// EncryptFile seals a file body and its metadata into the 4-segment packet
// "saltB64:ivB64:metaB64:dataB64". Both ciphertexts share one derived key
// and one IV — a known wire-format weakness kept for compatibility with
// existing .obs files; the two plaintexts are disjoint and produced in a
// single session, never attacker-interleaved.
func (p *Packer) EncryptFile(data []byte, meta FileMetadata, password string) (string, error) {
	salt, iv, err := randomSaltIV()
	if err != nil {
		return "", err
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("failed to marshal file metadata: %w", err)
	}

	key := secrets.WrapSecret(p.provider.DeriveKey([]byte(password), salt, Iterations, KeySize))
	defer key.Destroy()

	encMeta, err := p.provider.Seal(key.Bytes(), iv, metaJSON)
	if err != nil {
		return "", fmt.Errorf("metadata encryption failed: %w", err)
	}
	encData, err := p.provider.Seal(key.Bytes(), iv, data)
	if err != nil {
		return "", fmt.Errorf("file encryption failed: %w", err)
	}

	return joinSegments(salt, iv, encMeta, encData), nil
}

// DecryptFile reverses EncryptFile, returning the file body and its
// metadata. Wrong segment count fails with ErrMalformedPacket; any
// authentication or metadata-parse failure collapses into
// ErrDecryptionFailed.
func (p *Packer) DecryptFile(packet string, password string) ([]byte, FileMetadata, error) {
	var meta FileMetadata

	segments, err := splitSegments(packet, 4)
	if err != nil {
		return nil, meta, err
	}
	salt, iv, encMeta, encData := segments[0], segments[1], segments[2], segments[3]

	key := secrets.WrapSecret(p.provider.DeriveKey([]byte(password), salt, Iterations, KeySize))
	defer key.Destroy()

	metaJSON, err := p.provider.Open(key.Bytes(), iv, encMeta)
	if err != nil {
		return nil, meta, ErrDecryptionFailed
	}
	if err := json.Unmarshal(metaJSON, &meta); err != nil {
		return nil, meta, ErrDecryptionFailed
	}

	data, err := p.provider.Open(key.Bytes(), iv, encData)
	if err != nil {
		return nil, FileMetadata{}, ErrDecryptionFailed
	}
	return data, meta, nil
}

// randomSaltIV draws a fresh salt and IV from the CSPRNG.
func randomSaltIV() (salt, iv []byte, err error) {
	salt = make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	iv = make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, nil, fmt.Errorf("failed to generate iv: %w", err)
	}
	return salt, iv, nil
}

func joinSegments(segments ...[]byte) string {
	encoded := make([]string, len(segments))
	for i, s := range segments {
		encoded[i] = base64.StdEncoding.EncodeToString(s)
	}
	return strings.Join(encoded, segmentSep)
}

func splitSegments(packet string, want int) ([][]byte, error) {
	parts := strings.Split(packet, segmentSep)
	if len(parts) != want {
		return nil, fmt.Errorf("%w: expected %d segments, got %d", ErrMalformedPacket, want, len(parts))
	}
	out := make([][]byte, len(parts))
	for i, part := range parts {
		decoded, err := base64.StdEncoding.DecodeString(part)
		if err != nil {
			return nil, fmt.Errorf("%w: segment %d is not valid base64", ErrMalformedPacket, i+1)
		}
		out[i] = decoded
	}
	return out, nil
}
