package demo

import (
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/jwtsession"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/redis"
)

// Config is the demo server configuration. Every field can be set from the
// environment and overridden by a YAML file.
type Config struct {
	Log     logger.Config     `yaml:"log"`
	HTTP    httpserver.Config `yaml:"http"`
	Session jwtsession.Config `yaml:"session"`
	Redis   redis.Config      `yaml:"redis"`
	CORS    CORSConfig        `yaml:"cors"`

	HijackGuard bool          `env:"SESSION_HIJACK_GUARD" envDefault:"false" yaml:"hijack_guard"`
	APITokenTTL time.Duration `env:"API_TOKEN_TTL" envDefault:"1h" yaml:"api_token_ttl"`
	ProfileTTL  time.Duration `env:"PROFILE_TTL" envDefault:"24h" yaml:"profile_ttl"`
}

// CORSConfig lists the browser origins allowed to send credentialed requests.
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000" yaml:"allowed_origins"`
}
