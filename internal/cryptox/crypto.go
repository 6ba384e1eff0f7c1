// Package cryptox implements the encryption used by the secure storage
// tier: argon2id key derivation and AES-GCM sealing of JSON payloads.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// KeySize is the AES-256 key length used for the secure tier.
const KeySize = 32

// GenerateRandBytes returns n cryptographically random bytes.
func GenerateRandBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err) // crypto/rand failure is not recoverable
	}
	return b
}

// Seal serializes v to JSON and encrypts it with AES-GCM under key.
// A fresh 12-byte nonce is generated per call and returned alongside
// the ciphertext.
func Seal(v any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	nonce = GenerateRandBytes(aesgcm.NonceSize())
	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)

	return ciphertext, nonce, nil
}

// Open decrypts ciphertext produced by Seal and unmarshals the resulting
// JSON into v. The nonce must be the one returned by the matching Seal.
func Open(ciphertext, nonce, key []byte, v any) error {
	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return err
	}

	return json.Unmarshal(plaintext, v)
}

// LoadOrCreateDeviceKey returns the AES key protecting the secure tier.
// On first run it generates a random device secret and salt under dir;
// subsequent runs derive the same key from the persisted material.
func LoadOrCreateDeviceKey(dir string) ([]byte, error) {
	secret, err := loadOrCreate(filepath.Join(dir, "device_secret"), KeySize)
	if err != nil {
		return nil, err
	}
	salt, err := loadOrCreate(filepath.Join(dir, "device_salt"), 16)
	if err != nil {
		return nil, err
	}
	return DeriveKey(secret, salt), nil
}

func loadOrCreate(path string, n int) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err == nil && len(b) == n {
		return b, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	b = GenerateRandBytes(n)
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return b, nil
}
