package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"
)

const flashPrefix = "__flash_"

// Manager reads and writes auxiliary cookies (plain, signed, encrypted and
// flash) next to the session cookie. It shares the Template attribute model.
type Manager struct {
	secrets   []string
	encrypter *Encrypter
	defaults  Template
	now       func() time.Time
}

func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	enc, err := NewEncrypter(secrets...)
	if err != nil {
		return nil, err
	}

	defaults := NewTemplate("", WithPath("/"), WithHTTPOnly(true), WithSameSite(http.SameSiteLaxMode)).With(opts...)

	return &Manager{
		secrets:   secrets,
		encrypter: enc,
		defaults:  defaults,
		now:       time.Now,
	}, nil
}

// Encrypter exposes the manager's encrypter, e.g. for encrypted session tokens.
func (m *Manager) Encrypter() *Encrypter {
	return m.encrypter
}

func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	t := m.defaults.WithName(name).With(opts...)
	if err := t.Validate(); err != nil {
		return err
	}

	c := t.cookie(value)
	c.MaxAge = t.attrs.MaxAge
	if c.MaxAge > 0 {
		c.Expires = m.now().Add(time.Duration(c.MaxAge) * time.Second).UTC()
	}

	Replace(w.Header(), c)
	return nil
}

func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

func (m *Manager) Delete(w http.ResponseWriter, name string) {
	Replace(w.Header(), m.defaults.WithName(name).Expire(m.now()))
}

func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) error {
	return m.Set(w, name, m.sign(value), opts...)
}

func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	signed, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.verify(signed)
}

func (m *Manager) SetEncrypted(w http.ResponseWriter, name, value string, opts ...Option) error {
	encrypted, err := m.encrypter.Encrypt([]byte(value))
	if err != nil {
		return err
	}
	return m.Set(w, name, encrypted, opts...)
}

func (m *Manager) GetEncrypted(r *http.Request, name string) (string, error) {
	encrypted, err := m.Get(r, name)
	if err != nil {
		return "", err
	}

	plaintext, err := m.encrypter.Decrypt(encrypted)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

func (m *Manager) SetFlash(w http.ResponseWriter, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal flash: %w", err)
	}

	return m.SetEncrypted(w, flashPrefix+key, string(data))
}

func (m *Manager) GetFlash(w http.ResponseWriter, r *http.Request, key string, dest any) error {
	cookieName := flashPrefix + key

	data, err := m.GetEncrypted(r, cookieName)
	if err != nil {
		return err
	}

	// Flash cookies are deleted after reading to prevent replay
	m.Delete(w, cookieName)

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("unmarshal flash: %w", err)
	}

	return nil
}

func (m *Manager) sign(value string) string {
	mac := hmac.New(sha256.New, []byte(m.secrets[0]))
	mac.Write([]byte(value))
	signature := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	return base64.RawURLEncoding.EncodeToString([]byte(value)) + "|" + signature
}

func (m *Manager) verify(signed string) (string, error) {
	encodedValue, signature, ok := strings.Cut(signed, "|")
	if !ok {
		return "", ErrInvalidFormat
	}

	value, err := base64.RawURLEncoding.DecodeString(encodedValue)
	if err != nil {
		return "", ErrInvalidFormat
	}

	// Try all secrets to support key rotation
	for _, secret := range m.secrets {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(value)
		expectedSig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

		if subtle.ConstantTimeCompare([]byte(signature), []byte(expectedSig)) == 1 {
			return string(value), nil
		}
	}

	return "", ErrInvalidSignature
}
