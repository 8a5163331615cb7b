package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"time"
)

// JWT header constants required by RFC 7519
const (
	HeaderType      = "JWT"
	HeaderAlgorithm = "HS256" // HMAC-SHA256 chosen for security/performance balance
)

// Registered claim names used by Build.
const (
	ClaimIssuedAt  = "iat"
	ClaimExpiresAt = "exp"
	ClaimNotBefore = "nbf"
)

// Header represents the JWT header as defined in RFC 7515
type Header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
	KeyID     string `json:"kid,omitempty"`
}

// StandardClaims represents the registered JWT claims defined in RFC 7519 Section 4.1.
// All fields use Unix timestamps for temporal claims to ensure consistent validation.
type StandardClaims struct {
	ID        string `json:"jti,omitempty"` // JWT ID - unique identifier for preventing token reuse
	Subject   string `json:"sub,omitempty"` // Subject - typically user ID or entity identifier
	Issuer    string `json:"iss,omitempty"` // Issuer - identifies who issued the token
	Audience  string `json:"aud,omitempty"` // Audience - intended recipient(s) of the token
	ExpiresAt int64  `json:"exp,omitempty"` // Expiration time - Unix timestamp when token expires
	NotBefore int64  `json:"nbf,omitempty"` // Not before - Unix timestamp when token becomes valid
	IssuedAt  int64  `json:"iat,omitempty"` // Issued at - Unix timestamp when token was created
}

// Valid validates the temporal claims against current time.
// Zero values are treated as unset (per RFC 7519) and are ignored during validation.
func (c StandardClaims) Valid() error {
	now := time.Now().Unix()

	if c.ExpiresAt > 0 && now > c.ExpiresAt {
		return ErrExpiredToken
	}

	if c.NotBefore > 0 && now < c.NotBefore {
		return ErrInvalidToken
	}

	return nil
}

// Token is a structurally decoded, not yet verified JWT.
type Token struct {
	Raw    string
	Header Header

	claims       map[string]any
	claimsJSON   []byte
	signingInput string
	signature    string
}

// Claims returns the decoded claim set.
func (t *Token) Claims() map[string]any {
	return t.claims
}

// IssuedAt returns the "iat" claim if present and numeric.
func (t *Token) IssuedAt() (time.Time, bool) {
	return TimeClaim(t.claims, ClaimIssuedAt)
}

// ExpiresAt returns the "exp" claim if present and numeric.
func (t *Token) ExpiresAt() (time.Time, bool) {
	return TimeClaim(t.claims, ClaimExpiresAt)
}

// Service handles JWT token generation and validation using HMAC-SHA256.
// The first key signs; every key verifies, which allows rotating keys without
// invalidating tokens issued under the previous one.
type Service struct {
	signingKey []byte
	keys       [][]byte
}

// New creates a new JWT service with the provided signing key and optional
// additional verification keys.
// The key should be at least 32 bytes for adequate security with HMAC-SHA256.
func New(signingKey []byte, verificationKeys ...[]byte) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}

	keys := make([][]byte, 0, len(verificationKeys)+1)
	keys = append(keys, signingKey)
	for _, k := range verificationKeys {
		if len(k) > 0 {
			keys = append(keys, k)
		}
	}

	return &Service{
		signingKey: signingKey,
		keys:       keys,
	}, nil
}

// NewFromString creates a new JWT service from a string signing key.
// Convenience wrapper around New() for string-based configuration.
func NewFromString(signingKey string) (*Service, error) {
	if signingKey == "" {
		return nil, ErrMissingSigningKey
	}
	return New([]byte(signingKey))
}

// Generate creates a JWT token with the given claims.
// Accepts any JSON-serializable claims structure and returns a signed JWT string.
func (s *Service) Generate(claims any) (string, error) {
	if claims == nil {
		return "", ErrMissingClaims
	}

	header := Header{
		Type:      HeaderType,
		Algorithm: HeaderAlgorithm,
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("failed to marshal header: %w", err)
	}

	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}

	// Build JWT payload: base64url(header).base64url(claims)
	payload := base64URLEncode(headerJSON) + "." + base64URLEncode(claimsJSON)

	return payload + "." + s.sign(s.signingKey, payload), nil
}

// Build signs a claim set, stamping it with the issued-at and expiry times.
// The input map is not modified.
func (s *Service) Build(claims map[string]any, issuedAt, expiresAt time.Time) (string, error) {
	out := make(map[string]any, len(claims)+2)
	maps.Copy(out, claims)
	out[ClaimIssuedAt] = issuedAt.Unix()
	out[ClaimExpiresAt] = expiresAt.Unix()

	return s.Generate(out)
}

// Parse decodes the token structure without checking the signature.
// Any malformed input yields an error wrapping ErrInvalidToken; Parse never panics.
func (s *Service) Parse(raw string) (*Token, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, ErrInvalidToken
	}

	headerJSON, err := base64URLDecode(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: decode header: %w", ErrInvalidToken, err)
	}

	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, fmt.Errorf("%w: unmarshal header: %w", ErrInvalidToken, err)
	}

	claimsJSON, err := base64URLDecode(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: decode claims: %w", ErrInvalidToken, err)
	}

	var claims map[string]any
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return nil, fmt.Errorf("%w: unmarshal claims: %w", ErrInvalidToken, err)
	}
	if claims == nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrInvalidClaims)
	}

	return &Token{
		Raw:          raw,
		Header:       header,
		claims:       claims,
		claimsJSON:   claimsJSON,
		signingInput: parts[0] + "." + parts[1],
		signature:    parts[2],
	}, nil
}

// Verify checks the token signature against every configured key.
func (s *Service) Verify(tok *Token) error {
	if tok == nil {
		return ErrInvalidToken
	}

	// Reject tokens using unexpected algorithms to prevent algorithm confusion attacks
	if tok.Header.Algorithm != HeaderAlgorithm {
		return ErrUnexpectedSigningMethod
	}

	for _, key := range s.keys {
		expected := s.sign(key, tok.signingInput)
		// Constant-time comparison to prevent timing attacks
		if subtle.ConstantTimeCompare([]byte(tok.signature), []byte(expected)) == 1 {
			return nil
		}
	}

	return ErrInvalidSignature
}

// ParseInto validates a JWT token and unmarshals its claims into the provided structure.
// Performs cryptographic verification, algorithm validation, and temporal claim checks.
func (s *Service) ParseInto(raw string, claims any) error {
	tok, err := s.Parse(raw)
	if err != nil {
		return err
	}

	if err := s.Verify(tok); err != nil {
		return err
	}

	if err := json.Unmarshal(tok.claimsJSON, claims); err != nil {
		return fmt.Errorf("failed to unmarshal claims: %w", err)
	}

	// Validate temporal claims if the type implements the Valid interface
	if validator, ok := claims.(interface{ Valid() error }); ok {
		if err := validator.Valid(); err != nil {
			return err
		}
	}

	return nil
}

// sign creates an HMAC-SHA256 signature for the given payload.
// Returns base64url-encoded signature as required by RFC 7515.
func (s *Service) sign(key []byte, payload string) string {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(payload))
	return base64URLEncode(h.Sum(nil))
}

// base64URLEncode encodes data using base64url encoding without padding.
// Padding removal is required by RFC 7515 for JWT tokens.
func base64URLEncode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// base64URLDecode decodes base64url-encoded data. Padding is tolerated for
// compatibility with encoders that emit it.
func base64URLDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}
