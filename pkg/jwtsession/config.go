package jwtsession

import (
	"fmt"
	"time"

	"gopkg.in/go-playground/validator.v9"

	"github.com/dmitrymomot/sessionkit/pkg/clientip"
	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/fingerprint"
	"github.com/dmitrymomot/sessionkit/pkg/jwt"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const (
	DefaultIdleTimeout = 30 * time.Minute
	DefaultRefreshTime = 5 * time.Minute
)

// HKDF info strings separating the keys derived from one secret.
var (
	tokenKeyInfo  = []byte("sessionkit/session-token")
	cookieKeyInfo = []byte("sessionkit/session-cookie")
)

var validate = validator.New()

// Config configures a Manager from the environment or a YAML file.
type Config struct {
	Secret          string        `env:"SESSION_SECRET" validate:"required,min=32" yaml:"secret"`
	PreviousSecrets []string      `env:"SESSION_PREVIOUS_SECRETS" envSeparator:"," validate:"dive,min=32" yaml:"previous_secrets"`
	IdleTimeout     time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m" validate:"gt=0" yaml:"idle_timeout"`
	RefreshTime     time.Duration `env:"SESSION_REFRESH_TIME" envDefault:"5m" validate:"gt=0,ltfield=IdleTimeout" yaml:"refresh_time"`
	AttributeName   string        `env:"SESSION_ATTRIBUTE" envDefault:"session" validate:"required" yaml:"attribute"`
	Encrypt         bool          `env:"SESSION_ENCRYPT" envDefault:"false" yaml:"encrypt"`

	Cookie      cookie.TemplateConfig `yaml:"cookie"`
	Fingerprint fingerprint.Config    `yaml:"fingerprint"`
	ClientIP    clientip.Config       `yaml:"client_ip"`
}

// DefaultConfig returns the defaults without a secret.
func DefaultConfig() Config {
	return Config{
		IdleTimeout:   DefaultIdleTimeout,
		RefreshTime:   DefaultRefreshTime,
		AttributeName: session.DefaultAttribute,
		Cookie:        cookie.DefaultTemplateConfig(),
	}
}

// Validate checks the configuration. A refresh time that is not shorter
// than the idle timeout is reported as ErrInvalidConfig.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// NewFromConfig builds an HS256 Manager whose signing keys are derived from
// the configured secrets. Extra options are applied after the config.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	signingKey, err := jwt.DeriveKey([]byte(cfg.Secret), tokenKeyInfo)
	if err != nil {
		return nil, err
	}
	previous := make([][]byte, 0, len(cfg.PreviousSecrets))
	for _, s := range cfg.PreviousSecrets {
		k, err := jwt.DeriveKey([]byte(s), tokenKeyInfo)
		if err != nil {
			return nil, err
		}
		previous = append(previous, k)
	}

	svc, err := jwt.New(signingKey, previous...)
	if err != nil {
		return nil, err
	}

	tmpl, err := cookie.NewTemplateFromConfig(cfg.Cookie)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	res, err := clientip.NewFromConfig(cfg.ClientIP)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	binder, err := fingerprint.NewFromConfig(cfg.Fingerprint, res)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	base := []Option{
		WithCookie(tmpl),
		WithIdleTimeout(cfg.IdleTimeout),
		WithRefreshTime(cfg.RefreshTime),
		WithAttributeName(cfg.AttributeName),
		WithFingerprint(binder),
	}

	if cfg.Encrypt {
		enc, err := encrypterFor(append([]string{cfg.Secret}, cfg.PreviousSecrets...))
		if err != nil {
			return nil, err
		}
		base = append(base, WithEncryption(enc))
	}

	return New(HS256(svc), append(base, opts...)...)
}

func encrypterFor(secrets []string) (*cookie.Encrypter, error) {
	keys := make([]string, 0, len(secrets))
	for _, s := range secrets {
		k, err := jwt.DeriveKey([]byte(s), cookieKeyInfo)
		if err != nil {
			return nil, err
		}
		keys = append(keys, string(k))
	}
	return cookie.NewEncrypter(keys...)
}

// settings is validated after options are applied.
type settings struct {
	IdleTimeout time.Duration `validate:"gt=0"`
	RefreshTime time.Duration `validate:"gt=0,ltfield=IdleTimeout"`
	Attribute   string        `validate:"required"`
}
