package clientip

// Config configures client IP resolution.
type Config struct {
	Headers        []string `env:"CLIENTIP_HEADERS" envSeparator:","`
	TrustedProxies []string `env:"CLIENTIP_TRUSTED_PROXIES" envSeparator:","`
}
