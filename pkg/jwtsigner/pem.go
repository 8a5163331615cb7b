package jwtsigner

import (
	"fmt"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/lestrrat-go/jwx/jwk"
)

// NewFromPEM creates an RS*, PS* or ES* signer from PEM encoded keys.
// publicPEM may be empty, in which case the public key is derived.
func NewFromPEM(alg string, privatePEM, publicPEM []byte, opts ...Option) (*Signer, error) {
	var (
		priv, pub any
		err       error
	)

	switch {
	case strings.HasPrefix(alg, "RS"), strings.HasPrefix(alg, "PS"):
		if priv, err = jwt.ParseRSAPrivateKeyFromPEM(privatePEM); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		if len(publicPEM) > 0 {
			if pub, err = jwt.ParseRSAPublicKeyFromPEM(publicPEM); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
			}
		}
	case strings.HasPrefix(alg, "ES"):
		if priv, err = jwt.ParseECPrivateKeyFromPEM(privatePEM); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		if len(publicPEM) > 0 {
			if pub, err = jwt.ParseECPublicKeyFromPEM(publicPEM); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q has no PEM form", ErrUnsupportedAlgorithm, alg)
	}

	return New(alg, priv, pub, opts...)
}

// ParseKeySet parses a JWKS document.
func ParseKeySet(doc string) (*jwk.Set, error) {
	set, err := jwk.ParseString(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return set, nil
}

// FetchKeySet downloads a JWKS document, e.g. from an identity provider.
func FetchKeySet(url string) (*jwk.Set, error) {
	set, err := jwk.FetchHTTP(url)
	if err != nil {
		return nil, fmt.Errorf("jwtsigner: fetch key set: %w", err)
	}
	return set, nil
}
