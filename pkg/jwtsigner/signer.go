package jwtsigner

import (
	"crypto"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/lestrrat-go/jwx/jwk"
)

// Signer signs and verifies tokens with any algorithm known to jwt-go.
// Verification is pinned to the configured algorithm.
type Signer struct {
	method          jwt.SigningMethod
	signingKey      any
	verificationKey any
	keySet          *jwk.Set
	keyID           string
}

// Option configures a Signer.
type Option func(*Signer)

// WithKeySet verifies tokens with the key whose ID matches the token's kid
// header. Rotating keys then only needs a new set.
func WithKeySet(set *jwk.Set) Option {
	return func(s *Signer) {
		if set == nil {
			panic("jwtsigner: nil key set")
		}
		s.keySet = set
	}
}

// WithKeyID stamps issued tokens with a kid header.
func WithKeyID(kid string) Option {
	return func(s *Signer) {
		s.keyID = kid
	}
}

// New creates a signer. HMAC algorithms take []byte or string keys; RSA,
// RSA-PSS and ECDSA take *rsa/*ecdsa keys. A nil verification key is derived
// from the signing key.
func New(alg string, signingKey, verificationKey any, opts ...Option) (*Signer, error) {
	method := jwt.GetSigningMethod(alg)
	if method == nil || strings.EqualFold(alg, "none") {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
	if signingKey == nil {
		return nil, ErrMissingKey
	}

	s := &Signer{method: method}
	for _, opt := range opts {
		opt(s)
	}

	if isHMAC(method) {
		key, err := hmacKey(signingKey)
		if err != nil {
			return nil, err
		}
		s.signingKey = key
		if verificationKey == nil {
			verificationKey = key
		}
		if s.verificationKey, err = hmacKey(verificationKey); err != nil {
			return nil, err
		}
		return s, nil
	}

	s.signingKey = signingKey
	if verificationKey == nil {
		priv, ok := signingKey.(crypto.Signer)
		if !ok {
			return nil, fmt.Errorf("%w: %T cannot derive a public key", ErrInvalidKey, signingKey)
		}
		verificationKey = priv.Public()
	}
	s.verificationKey = verificationKey

	return s, nil
}

// Algorithm returns the pinned algorithm name.
func (s *Signer) Algorithm() string {
	return s.method.Alg()
}

// Token is a decoded, not yet verified token.
type Token struct {
	Raw    string
	Header map[string]any

	claims       jwt.MapClaims
	signingInput string
	signature    string
}

// Claims returns the decoded claim set.
func (t *Token) Claims() map[string]any {
	return t.claims
}

// KeyID returns the kid header, if any.
func (t *Token) KeyID() string {
	kid, _ := t.Header["kid"].(string)
	return kid
}

// Parse decodes the token without verifying it.
func (s *Signer) Parse(raw string) (*Token, error) {
	claims := jwt.MapClaims{}
	parsed, parts, err := new(jwt.Parser).ParseUnverified(raw, claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if len(parts) != 3 {
		return nil, ErrInvalidToken
	}

	return &Token{
		Raw:          raw,
		Header:       parsed.Header,
		claims:       claims,
		signingInput: parts[0] + "." + parts[1],
		signature:    parts[2],
	}, nil
}

// Verify checks the signature with the configured key or the key set entry
// named by the token's kid.
func (s *Signer) Verify(tok *Token) error {
	if tok == nil {
		return ErrInvalidToken
	}

	// Pin the algorithm to prevent algorithm confusion attacks
	if alg, _ := tok.Header["alg"].(string); alg != s.method.Alg() {
		return ErrUnexpectedSigningMethod
	}

	key, err := s.keyFor(tok)
	if err != nil {
		return err
	}

	if err := s.method.Verify(tok.signingInput, tok.signature, key); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	return nil
}

// Build signs claims, stamping iat and exp. The input map is not modified.
func (s *Signer) Build(claims map[string]any, issuedAt, expiresAt time.Time) (string, error) {
	mc := make(jwt.MapClaims, len(claims)+2)
	maps.Copy(mc, claims)
	mc["iat"] = issuedAt.Unix()
	mc["exp"] = expiresAt.Unix()

	tok := jwt.NewWithClaims(s.method, mc)
	if s.keyID != "" {
		tok.Header["kid"] = s.keyID
	}

	raw, err := tok.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("jwtsigner: sign token: %w", err)
	}
	return raw, nil
}

func (s *Signer) keyFor(tok *Token) (any, error) {
	if s.keySet == nil {
		return s.verificationKey, nil
	}

	kid := tok.KeyID()
	keys := s.keySet.LookupKeyID(kid)
	if kid == "" || len(keys) != 1 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKeyID, kid)
	}

	key, err := keys[0].Materialize()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	if isHMAC(s.method) {
		return hmacKey(key)
	}
	return key, nil
}

func isHMAC(m jwt.SigningMethod) bool {
	_, ok := m.(*jwt.SigningMethodHMAC)
	return ok
}

func hmacKey(key any) ([]byte, error) {
	switch k := key.(type) {
	case []byte:
		if len(k) == 0 {
			return nil, ErrMissingKey
		}
		return k, nil
	case string:
		if k == "" {
			return nil, ErrMissingKey
		}
		return []byte(k), nil
	}
	return nil, fmt.Errorf("%w: HMAC needs []byte, got %T", ErrInvalidKey, key)
}
