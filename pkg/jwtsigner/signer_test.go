package jwtsigner_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/jwtsigner"
)

var (
	now = time.Unix(1_700_000_000, 0)
	exp = now.Add(time.Hour)
)

func TestSigner_HMAC(t *testing.T) {
	t.Parallel()

	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		t.Run(alg, func(t *testing.T) {
			s, err := jwtsigner.New(alg, []byte("secret"), nil)
			require.NoError(t, err)
			assert.Equal(t, alg, s.Algorithm())

			raw, err := s.Build(map[string]any{"session-data": map[string]any{"foo": "bar"}}, now, exp)
			require.NoError(t, err)

			tok, err := s.Parse(raw)
			require.NoError(t, err)
			require.NoError(t, s.Verify(tok))

			claims := tok.Claims()
			assert.Equal(t, map[string]any{"foo": "bar"}, claims["session-data"])
			assert.Equal(t, float64(now.Unix()), claims["iat"])
			assert.Equal(t, float64(exp.Unix()), claims["exp"])
		})
	}

	t.Run("wrong key", func(t *testing.T) {
		a, err := jwtsigner.New("HS256", "secret-a", nil)
		require.NoError(t, err)
		b, err := jwtsigner.New("HS256", "secret-b", nil)
		require.NoError(t, err)

		raw, err := a.Build(map[string]any{}, now, exp)
		require.NoError(t, err)
		tok, err := b.Parse(raw)
		require.NoError(t, err)
		assert.ErrorIs(t, b.Verify(tok), jwtsigner.ErrInvalidSignature)
	})
}

func TestSigner_RSA(t *testing.T) {
	t.Parallel()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	for _, alg := range []string{"RS256", "PS256"} {
		t.Run(alg, func(t *testing.T) {
			signer, err := jwtsigner.New(alg, key, nil)
			require.NoError(t, err)

			verifier, err := jwtsigner.New(alg, key, &key.PublicKey)
			require.NoError(t, err)

			raw, err := signer.Build(map[string]any{"sub": "user"}, now, exp)
			require.NoError(t, err)

			tok, err := verifier.Parse(raw)
			require.NoError(t, err)
			assert.NoError(t, verifier.Verify(tok))
		})
	}

	t.Run("from PEM", func(t *testing.T) {
		privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
		pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
		require.NoError(t, err)
		pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

		s, err := jwtsigner.NewFromPEM("RS256", privPEM, pubPEM)
		require.NoError(t, err)

		raw, err := s.Build(map[string]any{}, now, exp)
		require.NoError(t, err)
		tok, err := s.Parse(raw)
		require.NoError(t, err)
		assert.NoError(t, s.Verify(tok))

		_, err = jwtsigner.NewFromPEM("RS256", []byte("garbage"), nil)
		assert.ErrorIs(t, err, jwtsigner.ErrInvalidKey)
	})
}

func TestSigner_ECDSA(t *testing.T) {
	t.Parallel()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})

	s, err := jwtsigner.NewFromPEM("ES256", privPEM, nil)
	require.NoError(t, err)

	raw, err := s.Build(map[string]any{"a": true}, now, exp)
	require.NoError(t, err)
	tok, err := s.Parse(raw)
	require.NoError(t, err)
	assert.NoError(t, s.Verify(tok))
	assert.Equal(t, true, tok.Claims()["a"])
}

func TestSigner_AlgorithmPinning(t *testing.T) {
	t.Parallel()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	rs, err := jwtsigner.New("RS256", key, nil)
	require.NoError(t, err)

	// HS256 token signed with bytes an attacker may know
	hs, err := jwtsigner.New("HS256", []byte("public-key-bytes"), nil)
	require.NoError(t, err)
	raw, err := hs.Build(map[string]any{}, now, exp)
	require.NoError(t, err)

	tok, err := rs.Parse(raw)
	require.NoError(t, err)
	assert.ErrorIs(t, rs.Verify(tok), jwtsigner.ErrUnexpectedSigningMethod)
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := jwtsigner.New("none", []byte("k"), nil)
	assert.ErrorIs(t, err, jwtsigner.ErrUnsupportedAlgorithm)

	_, err = jwtsigner.New("XX999", []byte("k"), nil)
	assert.ErrorIs(t, err, jwtsigner.ErrUnsupportedAlgorithm)

	_, err = jwtsigner.New("HS256", nil, nil)
	assert.ErrorIs(t, err, jwtsigner.ErrMissingKey)

	_, err = jwtsigner.New("HS256", 42, nil)
	assert.ErrorIs(t, err, jwtsigner.ErrInvalidKey)

	_, err = jwtsigner.New("RS256", "not-a-private-key", nil)
	assert.ErrorIs(t, err, jwtsigner.ErrInvalidKey)

	_, err = jwtsigner.NewFromPEM("HS256", nil, nil)
	assert.ErrorIs(t, err, jwtsigner.ErrUnsupportedAlgorithm)
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	s, err := jwtsigner.New("HS256", []byte("secret"), nil)
	require.NoError(t, err)

	for _, raw := range []string{"", "a.b", "a.b.c", "e30.e30.sig"} {
		_, err := s.Parse(raw)
		assert.ErrorIs(t, err, jwtsigner.ErrInvalidToken, raw)
	}
}

func TestSigner_KeySet(t *testing.T) {
	t.Parallel()

	current, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	previous, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	set, err := jwtsigner.ParseKeySet(fmt.Sprintf(`{"keys":[%s,%s]}`,
		rsaJWK("k2", &current.PublicKey), rsaJWK("k1", &previous.PublicKey)))
	require.NoError(t, err)

	verifier, err := jwtsigner.New("RS256", current, nil, jwtsigner.WithKeySet(set))
	require.NoError(t, err)

	for kid, key := range map[string]*rsa.PrivateKey{"k1": previous, "k2": current} {
		signer, err := jwtsigner.New("RS256", key, nil, jwtsigner.WithKeyID(kid))
		require.NoError(t, err)

		raw, err := signer.Build(map[string]any{}, now, exp)
		require.NoError(t, err)
		tok, err := verifier.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, kid, tok.KeyID())
		assert.NoError(t, verifier.Verify(tok), kid)
	}

	t.Run("unknown kid", func(t *testing.T) {
		signer, err := jwtsigner.New("RS256", current, nil, jwtsigner.WithKeyID("k9"))
		require.NoError(t, err)
		raw, err := signer.Build(map[string]any{}, now, exp)
		require.NoError(t, err)
		tok, err := verifier.Parse(raw)
		require.NoError(t, err)
		assert.ErrorIs(t, verifier.Verify(tok), jwtsigner.ErrUnknownKeyID)
	})

	t.Run("missing kid", func(t *testing.T) {
		signer, err := jwtsigner.New("RS256", current, nil)
		require.NoError(t, err)
		raw, err := signer.Build(map[string]any{}, now, exp)
		require.NoError(t, err)
		tok, err := verifier.Parse(raw)
		require.NoError(t, err)
		assert.ErrorIs(t, verifier.Verify(tok), jwtsigner.ErrUnknownKeyID)
	})

	_, err = jwtsigner.ParseKeySet("not json")
	assert.ErrorIs(t, err, jwtsigner.ErrInvalidKey)
}

func rsaJWK(kid string, pub *rsa.PublicKey) string {
	enc := base64.RawURLEncoding.EncodeToString
	return fmt.Sprintf(`{"kty":"RSA","kid":%q,"alg":"RS256","use":"sig","n":%q,"e":%q}`,
		kid, enc(pub.N.Bytes()), enc(big.NewInt(int64(pub.E)).Bytes()))
}
