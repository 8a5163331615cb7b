package fingerprint

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/sessionkit/pkg/clientip"
)

// ClaimName is the token claim carrying the fingerprint.
const ClaimName = "fp"

// Config lists source names in order. An empty list disables binding.
type Config struct {
	Sources []string `env:"SESSION_FINGERPRINT_SOURCES" envSeparator:","`
}

// Binder binds tokens to request metadata. The zero value and a Binder
// without sources are disabled and make Bind and Validate no-ops.
type Binder struct {
	sources []Source
}

// New creates a binder over the given sources. Order is significant.
func New(sources ...Source) *Binder {
	for _, s := range sources {
		if s == nil {
			panic("fingerprint: nil source")
		}
	}
	return &Binder{sources: sources}
}

// NewFromConfig resolves the configured source names. The resolver is used by
// the client_ip source and may be nil.
func NewFromConfig(cfg Config, res *clientip.Resolver) (*Binder, error) {
	sources := make([]Source, 0, len(cfg.Sources))
	for _, name := range cfg.Sources {
		if name == "" {
			continue
		}
		s, err := SourceByName(name, res)
		if err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}
	return New(sources...), nil
}

// Enabled reports whether any source is configured.
func (b *Binder) Enabled() bool {
	return b != nil && len(b.sources) > 0
}

// Compute hashes the source values in configured order. The values are
// encoded as a JSON array so that ["ab","c"] and ["a","bc"] differ.
// Returns an empty string when disabled.
func (b *Binder) Compute(r *http.Request) (string, error) {
	if !b.Enabled() {
		return "", nil
	}

	values := make([]string, 0, len(b.sources))
	for _, src := range b.sources {
		v, err := src(r)
		if err != nil {
			return "", err
		}
		if v == "" {
			return "", ErrSourceMissing
		}
		values = append(values, v)
	}

	payload, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("fingerprint: encode values: %w", err)
	}

	sum := sha256.Sum256(payload)
	return base64.RawURLEncoding.EncodeToString(sum[:]), nil
}

// Bind stores fp in claims under ClaimName when enabled.
func (b *Binder) Bind(claims map[string]any, fp string) {
	if !b.Enabled() {
		return
	}
	claims[ClaimName] = fp
}

// Validate requires the fingerprint claim to equal fp when enabled.
func (b *Binder) Validate(claims map[string]any, fp string) error {
	if !b.Enabled() {
		return nil
	}

	v, ok := claims[ClaimName]
	if !ok {
		return ErrMissingClaim
	}
	got, ok := v.(string)
	if !ok || got == "" {
		return ErrMismatch
	}

	if subtle.ConstantTimeCompare([]byte(got), []byte(fp)) != 1 {
		return ErrMismatch
	}
	return nil
}
