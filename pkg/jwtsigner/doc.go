// Package jwtsigner signs and verifies JWTs with any algorithm supported by
// github.com/dgrijalva/jwt-go (HS*, RS*, PS*, ES*).
//
// Like pkg/jwt it splits decoding from verification: Parse never touches
// keys, Verify pins the algorithm and checks the signature, Build stamps iat
// and exp and signs. Verification keys can come from a JWKS document
// (github.com/lestrrat-go/jwx/jwk), selected by the token's kid header, which
// allows key rotation without redeploying verifiers.
//
//	s, err := jwtsigner.NewFromPEM("RS256", privPEM, nil, jwtsigner.WithKeyID("2024-03"))
//	raw, err := s.Build(claims, now, now.Add(time.Hour))
//
//	set, err := jwtsigner.ParseKeySet(jwks)
//	v, err := jwtsigner.New("RS256", priv, nil, jwtsigner.WithKeySet(set))
//	tok, err := v.Parse(raw)
//	err = v.Verify(tok)
package jwtsigner
