// Package jwt provides utilities for generating, parsing, and validating
// JSON Web Tokens (JWT) signed with HS256 (HMAC-SHA256).
//
// Parsing and verification are separate steps. Parse decodes the token
// structure without touching keys, Verify checks the signature against every
// configured key. Callers that must treat malformed and forged tokens
// differently (for example to log them at different levels) can do so;
// callers that only need a yes/no answer use ParseInto.
//
// # Architecture
//
//   - Service – signs and verifies tokens; the first key signs, all keys verify.
//   - Token – a decoded, not yet verified token with access to its claims.
//   - claims.go – NumericDate helpers for map-based claim sets.
//   - keys.go – HKDF key derivation from an operator secret.
//   - middleware.go – bearer/cookie/header token middleware that stores the
//     verified token in the request context.
//   - errors.go – sentinel error values returned by the package.
//
// # Usage
//
//	import "github.com/dmitrymomot/sessionkit/pkg/jwt"
//
//	key, err := jwt.DeriveKey([]byte(os.Getenv("SESSION_SECRET")), []byte("session"))
//	if err != nil {
//		// handle error
//	}
//	svc, err := jwt.New(key)
//
//	// Sign a map-based claim set with explicit timestamps.
//	raw, err := svc.Build(map[string]any{"sub": "123"}, now, now.Add(time.Hour))
//
//	// Decode, then verify.
//	tok, err := svc.Parse(raw)
//	if err == nil {
//		err = svc.Verify(tok)
//	}
//
//	// Or decode into a struct, verifying signature and temporal claims.
//	var parsed jwt.StandardClaims
//	err = svc.ParseInto(raw, &parsed)
//
// # Error Handling
//
// Errors such as ErrExpiredToken or ErrInvalidSignature are returned as
// sentinel variables and can be compared using errors.Is. Every structural
// failure reported by Parse wraps ErrInvalidToken.
package jwt
