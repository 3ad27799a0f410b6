// Package cryptox derives the password verifier kept next to each profile
// directory record. The verifier is write-only: sessions never consult it.
package cryptox

import (
	"crypto/sha256"

	"github.com/dmitrijs2005/carekeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	SaltSize = 32
	KeySize  = 32
)

// DeriveKey stretches password with argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

// MakeVerifier returns sha256(key).
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// NewPasswordVerifier draws a fresh salt and returns it with the verifier
// for password. The intermediate key is wiped before returning.
func NewPasswordVerifier(password []byte) (salt, verifier []byte) {
	salt = common.GenerateRandByteArray(SaltSize)
	key := DeriveKey(password, salt)
	defer common.WipeByteArray(key)
	return salt, MakeVerifier(key)
}
