package jwt

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the length of keys produced by DeriveKey.
const KeySize = 32

// DeriveKey expands an operator-supplied secret into a KeySize signing key
// with HKDF-SHA256. Distinct info values yield independent keys from one secret.
func DeriveKey(secret, info []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSigningKey
	}

	r := hkdf.New(sha256.New, secret, nil, info)
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, errors.Join(ErrKeyDerivation, err)
	}
	return key, nil
}
