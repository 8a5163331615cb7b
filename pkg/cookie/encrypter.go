package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"slices"
)

const minSecretLength = 32

// Encrypter seals cookie values with AES-256-GCM. The first secret
// encrypts; every secret is tried on decryption, so old cookies stay
// readable while a key is being rotated out.
type Encrypter struct {
	aeads []cipher.AEAD
}

// NewEncrypter creates an encrypter. Each secret needs at least 32 characters;
// the first 32 bytes form the AES-256 key.
func NewEncrypter(secrets ...string) (*Encrypter, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	aeads := make([]cipher.AEAD, 0, len(secrets))
	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d", ErrSecretTooShort, i, len(s), minSecretLength)
		}

		block, err := aes.NewCipher([]byte(s[:minSecretLength]))
		if err != nil {
			return nil, err
		}
		gcm, err := cipher.NewGCM(block)
		if err != nil {
			return nil, err
		}
		aeads = append(aeads, gcm)
	}

	return &Encrypter{aeads: aeads}, nil
}

// Encrypt returns base64url(nonce || ciphertext).
func (e *Encrypter) Encrypt(plaintext []byte) (string, error) {
	gcm := e.aeads[0]

	// Random nonce per message; prepended for self-contained decryption
	nonce := make([]byte, gcm.NonceSize(), gcm.NonceSize()+len(plaintext)+gcm.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(gcm.Seal(nonce, nonce, plaintext, nil)), nil
}

// Decrypt reverses Encrypt.
func (e *Encrypter) Decrypt(encoded string) ([]byte, error) {
	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidFormat
	}

	for _, gcm := range e.aeads {
		if len(data) < gcm.NonceSize()+gcm.Overhead() {
			return nil, ErrInvalidFormat
		}
		nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
		if plaintext, err := gcm.Open(nil, nonce, ciphertext, nil); err == nil {
			return plaintext, nil
		}
	}

	return nil, ErrDecryptionFailed
}
