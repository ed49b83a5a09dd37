// Package crypto provides the encrypt/decrypt service backing persisted
// Planwise state. Consumers treat it as an opaque round-trip keyed by a user
// secret; the key material's origin is not this package's concern.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	pwerrors "github.com/planwise/planwise/internal/errors"
)

// Cipher is an opaque encrypt/decrypt service.
type Cipher interface {
	// Encrypt seals the plaintext into an opaque blob.
	Encrypt(plaintext []byte) ([]byte, error)

	// Decrypt opens a blob produced by Encrypt. Returns ErrDecrypt when the
	// key is wrong or the blob is corrupted.
	Decrypt(blob []byte) ([]byte, error)
}

// AESGCM implements Cipher with AES-256-GCM. The key is derived from the
// user secret by SHA-256; a fresh random nonce is prepended to every blob.
type AESGCM struct {
	key [32]byte
}

// NewAESGCM derives a cipher from the user secret.
func NewAESGCM(secret string) *AESGCM {
	return &AESGCM{key: sha256.Sum256([]byte(secret))}
}

func (c *AESGCM) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key[:])
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Encrypt implements Cipher.
func (c *AESGCM) Encrypt(plaintext []byte) ([]byte, error) {
	aead, err := c.aead()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt implements Cipher.
func (c *AESGCM) Decrypt(blob []byte) ([]byte, error) {
	aead, err := c.aead()
	if err != nil {
		return nil, err
	}

	if len(blob) < aead.NonceSize() {
		return nil, fmt.Errorf("%w: blob shorter than nonce", pwerrors.ErrDecrypt)
	}

	nonce, ciphertext := blob[:aead.NonceSize()], blob[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pwerrors.ErrDecrypt, err)
	}
	return plaintext, nil
}

// Compile-time check that AESGCM implements Cipher.
var _ Cipher = (*AESGCM)(nil)
