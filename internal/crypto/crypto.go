// Package crypto seals the locally stored bearer token with AES-256-GCM so a
// copied credential database is useless without the key file next to it.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	// KeySize is the AES-256 key length in bytes
	KeySize = 32

	// DefaultKeyFileName is used when no key path is configured
	DefaultKeyFileName = ".annualmedia-key"
)

var (
	ErrInvalidKeySize = errors.New("sealing key must be 32 bytes for AES-256")
	ErrSealedTooShort = errors.New("sealed value too short")
	ErrOpenFailed     = errors.New("unseal failed: authentication error")
)

// Sealer encrypts and decrypts short string values.
type Sealer struct {
	gcm cipher.AEAD
}

// NewSealer creates a Sealer from a raw 32-byte key.
func NewSealer(key []byte) (*Sealer, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	return &Sealer{gcm: gcm}, nil
}

// NewSealerFromKeyFile loads the base64 key at path, generating and saving a
// fresh key when the file does not exist yet. An empty path resolves to
// DefaultKeyFileName in the user's home directory.
func NewSealerFromKeyFile(path string) (*Sealer, error) {
	resolved, err := resolveKeyPath(path)
	if err != nil {
		return nil, err
	}

	if data, err := os.ReadFile(resolved); err == nil {
		key, err := base64.StdEncoding.DecodeString(string(data))
		if err != nil {
			return nil, fmt.Errorf("decode key file %s: %w", resolved, err)
		}
		return NewSealer(key)
	}

	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(key)
	if err := os.WriteFile(resolved, []byte(encoded), 0600); err != nil {
		return nil, fmt.Errorf("save key to %s: %w", resolved, err)
	}
	return NewSealer(key)
}

func resolveKeyPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultKeyFileName), nil
}

// Seal encrypts plaintext and returns base64 ciphertext with the nonce
// prepended. Empty input round-trips to empty output.
func (s *Sealer) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := s.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value previously produced by Seal.
func (s *Sealer) Open(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode sealed value: %w", err)
	}
	if len(sealed) < s.gcm.NonceSize() {
		return "", ErrSealedTooShort
	}
	nonce, ciphertext := sealed[:s.gcm.NonceSize()], sealed[s.gcm.NonceSize():]
	plaintext, err := s.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrOpenFailed
	}
	return string(plaintext), nil
}
