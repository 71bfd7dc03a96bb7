package secrets

import (
	"crypto/rand"
	"fmt"
)

// Secret wraps sensitive key material (password-derived AES keys) and
// provides a way to zero the memory once the enclosing operation finishes.
type Secret struct {
	data []byte
}

// NewSecret generates a cryptographically secure random secret of the
// specified size.
func NewSecret(size int) (*Secret, error) {
	key := make([]byte, size)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate random secret: %w", err)
	}
	return &Secret{data: key}, nil
}

// WrapSecret takes ownership of an existing byte slice, typically the
// output of a key derivation. The caller must not retain the slice.
func WrapSecret(data []byte) *Secret {
	return &Secret{data: data}
}

// Bytes returns the raw bytes of the secret. The slice is only valid until
// Destroy is called.
func (s *Secret) Bytes() []byte {
	return s.data
}

// Destroy overwrites the secret with zeros. It is idempotent and should be
// deferred immediately after the secret is created.
func (s *Secret) Destroy() {
	if s.data != nil {
		for i := range s.data {
			s.data[i] = 0
		}
		s.data = nil
	}
}
