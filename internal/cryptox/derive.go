package cryptox

import "golang.org/x/crypto/argon2"

// DeriveKey stretches the device secret into an AES-256 key with argon2id.
// Parameters follow the RFC 9106 low-memory recommendation.
func DeriveKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, KeySize)
}
