package jwtsession

import (
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/jwt"
	"github.com/dmitrymomot/sessionkit/pkg/jwtsigner"
)

// Claim names written by the middleware.
const (
	ClaimSessionData = "session-data"
	ClaimID          = "jti"
)

// Token is a decoded token whose signature may not be verified yet.
type Token interface {
	Claims() map[string]any
}

// Codec turns cookie values into tokens and back. Parse must not panic on
// malformed input; Verify checks the signature only.
type Codec interface {
	Parse(raw string) (Token, error)
	Verify(tok Token) error
	Build(claims map[string]any, issuedAt, expiresAt time.Time) (string, error)
}

// HS256 adapts the in-house HMAC-SHA256 service.
func HS256(svc *jwt.Service) Codec {
	if svc == nil {
		panic("jwtsession: nil jwt service")
	}
	return hs256Codec{svc: svc}
}

type hs256Codec struct {
	svc *jwt.Service
}

func (c hs256Codec) Parse(raw string) (Token, error) {
	tok, err := c.svc.Parse(raw)
	if err != nil {
		return nil, err
	}
	return tok, nil
}

func (c hs256Codec) Verify(tok Token) error {
	t, ok := tok.(*jwt.Token)
	if !ok {
		return ErrForeignToken
	}
	return c.svc.Verify(t)
}

func (c hs256Codec) Build(claims map[string]any, issuedAt, expiresAt time.Time) (string, error) {
	return c.svc.Build(claims, issuedAt, expiresAt)
}

// Signer adapts a multi-algorithm jwtsigner.Signer.
func Signer(s *jwtsigner.Signer) Codec {
	if s == nil {
		panic("jwtsession: nil signer")
	}
	return signerCodec{s: s}
}

type signerCodec struct {
	s *jwtsigner.Signer
}

func (c signerCodec) Parse(raw string) (Token, error) {
	tok, err := c.s.Parse(raw)
	if err != nil {
		return nil, err
	}
	return tok, nil
}

func (c signerCodec) Verify(tok Token) error {
	t, ok := tok.(*jwtsigner.Token)
	if !ok {
		return ErrForeignToken
	}
	return c.s.Verify(t)
}

func (c signerCodec) Build(claims map[string]any, issuedAt, expiresAt time.Time) (string, error) {
	return c.s.Build(claims, issuedAt, expiresAt)
}
