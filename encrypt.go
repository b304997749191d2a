// encrypt.go
package main

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const saltSize = 16
const iterSize = 4

// maxIterations bounds the embedded PBKDF2 count so a corrupted header
// cannot make key derivation run for minutes.
const maxIterations = 10_000_000

// Cipher performs password-based encryption of backup payloads: PBKDF2 over
// the master secret with a fresh salt, then AES-256-GCM. The random source
// is injected so tests can make it fail; production uses crypto/rand.
type Cipher struct {
	iterations int
	rand       io.Reader
}

// NewCipher builds a Cipher with the given PBKDF2 iteration count.
func NewCipher(iterations int) *Cipher {
	if iterations <= 0 {
		iterations = 10000
	}
	return &Cipher{iterations: iterations, rand: rand.Reader}
}

// deriveKey stretches the master secret into an AES-256 key.
func deriveKey(secret string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(secret), salt, iterations, 32, sha256.New)
}

// EncryptString encrypts plaintext under the master secret. The result is
// base64(iterations || salt || nonce || ciphertext), safe to embed in JSON.
// The iteration count travels with the payload so a backup decrypts on a
// machine configured with a different count.
func (c *Cipher) EncryptString(plaintext, secret string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(c.rand, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	block, err := aes.NewCipher(deriveKey(secret, salt, c.iterations))
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(c.rand, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	out := make([]byte, iterSize, iterSize+len(salt)+len(nonce)+len(sealed))
	binary.BigEndian.PutUint32(out, uint32(c.iterations))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, sealed...)
	return base64.StdEncoding.EncodeToString(out), nil
}

// DecryptString reverses EncryptString, using the iteration count embedded
// in the payload rather than the local configuration. Every failure mode, a
// bad base64, a short payload, an implausible header, an authentication
// failure, comes back as a *CryptoError, since the caller cannot tell a
// wrong password from a corrupted file.
func (c *Cipher) DecryptString(encoded, secret string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", &CryptoError{Err: err}
	}
	if len(raw) < iterSize+saltSize {
		return "", &CryptoError{Err: fmt.Errorf("ciphertext too short")}
	}
	iterations := int(binary.BigEndian.Uint32(raw))
	if iterations <= 0 || iterations > maxIterations {
		return "", &CryptoError{Err: fmt.Errorf("implausible iteration count %d", iterations)}
	}
	salt, rest := raw[iterSize:iterSize+saltSize], raw[iterSize+saltSize:]

	block, err := aes.NewCipher(deriveKey(secret, salt, iterations))
	if err != nil {
		return "", &CryptoError{Err: err}
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", &CryptoError{Err: err}
	}
	if len(rest) < gcm.NonceSize() {
		return "", &CryptoError{Err: fmt.Errorf("ciphertext too short")}
	}

	nonce, sealed := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", &CryptoError{Err: err}
	}
	return string(plaintext), nil
}
