package cookie

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultName carries the __Secure- prefix, so browsers only accept the
// cookie over HTTPS.
const DefaultName = "__Secure-slsession"

// ExpireOffset is how far in the past clearing cookies expire. Large enough
// for browsers to discard the cookie regardless of client clock skew.
const ExpireOffset = 30 * 24 * time.Hour

// Template is an immutable cookie policy: a name plus attributes.
// With* methods return modified copies.
type Template struct {
	name  string
	attrs Options
}

// NewTemplate creates a template with the given name and attributes.
// Unset attributes keep Go's zero values.
func NewTemplate(name string, opts ...Option) Template {
	return Template{name: name, attrs: applyOptions(Options{}, opts)}
}

// DefaultTemplate returns the session cookie policy: __Secure-slsession,
// Path=/, Secure, HttpOnly, SameSite=Lax.
func DefaultTemplate() Template {
	return Template{
		name: DefaultName,
		attrs: Options{
			Path:     "/",
			Secure:   true,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

func (t Template) Name() string { return t.name }
func (t Template) Attributes() Options { return t.attrs }

func (t Template) WithName(name string) Template {
	t.name = name
	return t
}

// With applies options to a copy of the template.
func (t Template) With(opts ...Option) Template {
	t.attrs = applyOptions(t.attrs, opts)
	return t
}

// Validate checks the name and the constraints browsers enforce for the
// __Secure- and __Host- prefixes.
func (t Template) Validate() error {
	if t.name == "" || strings.ContainsAny(t.name, " \t\r\n;,=\"") {
		return fmt.Errorf("%w: %q", ErrInvalidName, t.name)
	}
	if strings.HasPrefix(t.name, "__Secure-") && !t.attrs.Secure {
		return fmt.Errorf("%w: %s requires Secure", ErrInsecurePrefix, t.name)
	}
	if strings.HasPrefix(t.name, "__Host-") {
		if !t.attrs.Secure || t.attrs.Path != "/" || t.attrs.Domain != "" {
			return fmt.Errorf("%w: %s requires Secure, Path=/ and no Domain", ErrInsecurePrefix, t.name)
		}
	}
	if t.attrs.SameSite == http.SameSiteNoneMode && !t.attrs.Secure {
		return fmt.Errorf("%w: SameSite=None requires Secure", ErrInvalidSameSite)
	}
	return nil
}

// Issue builds a cookie carrying value that expires ttl after now.
func (t Template) Issue(value string, now time.Time, ttl time.Duration) *http.Cookie {
	c := t.cookie(value)
	c.Expires = now.Add(ttl).UTC()
	c.MaxAge = int(ttl / time.Second)
	if c.MaxAge <= 0 {
		// Max-Age=0 means "no attribute" to net/http; keep Expires only.
		c.MaxAge = 0
	}
	return c
}

// Expire builds a clearing cookie: empty value, expired ExpireOffset before now.
func (t Template) Expire(now time.Time) *http.Cookie {
	c := t.cookie("")
	c.Expires = now.Add(-ExpireOffset).UTC()
	c.MaxAge = -1
	return c
}

func (t Template) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     t.name,
		Value:    value,
		Path:     t.attrs.Path,
		Domain:   t.attrs.Domain,
		Secure:   t.attrs.Secure,
		HttpOnly: t.attrs.HttpOnly,
		SameSite: t.attrs.SameSite,
	}
}

// Replace adds c to the Set-Cookie headers, dropping any earlier Set-Cookie
// line for the same name.
func Replace(h http.Header, c *http.Cookie) {
	line := c.String()
	if line == "" {
		return
	}

	existing := h.Values("Set-Cookie")
	kept := make([]string, 0, len(existing)+1)
	for _, v := range existing {
		if prev, err := http.ParseSetCookie(v); err == nil && prev.Name == c.Name {
			continue
		}
		kept = append(kept, v)
	}
	h["Set-Cookie"] = append(kept, line)
}

// ParseSameSite maps "lax", "strict", "none" and "default" to http.SameSite.
func ParseSameSite(s string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	case "default":
		return http.SameSiteDefaultMode, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSameSite, s)
}
