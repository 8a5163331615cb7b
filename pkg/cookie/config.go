package cookie

// TemplateConfig describes the session cookie policy.
type TemplateConfig struct {
	Name     string `env:"SESSION_COOKIE_NAME" envDefault:"__Secure-slsession" yaml:"name"`
	Path     string `env:"SESSION_COOKIE_PATH" envDefault:"/" yaml:"path"`
	Domain   string `env:"SESSION_COOKIE_DOMAIN" envDefault:"" yaml:"domain"`
	Secure   bool   `env:"SESSION_COOKIE_SECURE" envDefault:"true" yaml:"secure"`
	HttpOnly bool   `env:"SESSION_COOKIE_HTTP_ONLY" envDefault:"true" yaml:"http_only"`
	SameSite string `env:"SESSION_COOKIE_SAME_SITE" envDefault:"lax" yaml:"same_site"`
}

// DefaultTemplateConfig mirrors DefaultTemplate.
func DefaultTemplateConfig() TemplateConfig {
	return TemplateConfig{
		Name:     DefaultName,
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: "lax",
	}
}

// NewTemplateFromConfig builds and validates a Template.
func NewTemplateFromConfig(cfg TemplateConfig) (Template, error) {
	sameSite, err := ParseSameSite(cfg.SameSite)
	if err != nil {
		return Template{}, err
	}

	t := NewTemplate(cfg.Name,
		WithPath(cfg.Path),
		WithDomain(cfg.Domain),
		WithSecure(cfg.Secure),
		WithHTTPOnly(cfg.HttpOnly),
		WithSameSite(sameSite),
	)
	if err := t.Validate(); err != nil {
		return Template{}, err
	}
	return t, nil
}
