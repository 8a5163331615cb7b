// Package cookie implements the session cookie policy and a manager for
// auxiliary cookies.
//
// # Overview
//
// Template is an immutable cookie policy (name plus attributes). It issues
// cookies that expire after a TTL and clearing cookies that expire
// ExpireOffset (30 days) in the past, so browsers drop them even under
// client clock skew. DefaultTemplate is the session policy:
// __Secure-slsession, Path=/, Secure, HttpOnly, SameSite=Lax.
//
// Replace writes a Set-Cookie header, dropping an earlier one with the same
// name, so a response never carries two conflicting session cookies.
//
// Encrypter seals values with AES-256-GCM and supports key rotation: the first
// secret encrypts, all secrets decrypt.
//
// Manager covers the other cookies an application needs:
//
//   - Set(), Get(), Delete() – plain cookies
//   - SetSigned(), GetSigned() – signed cookies (integrity only)
//   - SetEncrypted(), GetEncrypted() – encrypted cookies (integrity + privacy)
//   - SetFlash(), GetFlash() – single-use JSON-encoded flash messages
//
// # Usage
//
//	import "github.com/dmitrymomot/sessionkit/pkg/cookie"
//
//	tmpl := cookie.DefaultTemplate().With(cookie.WithDomain("example.com"))
//	if err := tmpl.Validate(); err != nil {
//		log.Fatal(err)
//	}
//	cookie.Replace(w.Header(), tmpl.Issue(token, time.Now(), 30*time.Minute))
//
//	// secrets must be at least 32 bytes
//	man, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")})
//	if err != nil {
//		log.Fatal(err)
//	}
//	_ = man.SetFlash(w, "notice", "signed out")
//
// # Configuration
//
// TemplateConfig carries env and yaml tags for github.com/caarlos0/env and
// gopkg.in/yaml.v3.
//
//	var cfg cookie.TemplateConfig
//	_ = env.Parse(&cfg)
//	tmpl, err := cookie.NewTemplateFromConfig(cfg)
//
// # Error Handling
//
// Package-level sentinel errors such as ErrCookieNotFound, ErrInvalidSignature,
// ErrDecryptionFailed and ErrInsecurePrefix can be matched with errors.Is.
package cookie
