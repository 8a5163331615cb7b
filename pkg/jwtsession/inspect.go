package jwtsession

import "github.com/dmitrymomot/sessionkit/pkg/jwt"

// Inspect decodes a cookie value the way the middleware does and returns the
// token claims. A token that is authentic but outside its validity window is
// returned together with the time error.
func (m *Manager) Inspect(value string) (map[string]any, error) {
	raw := value
	if m.encrypter != nil {
		plain, err := m.encrypter.Decrypt(raw)
		if err != nil {
			return nil, err
		}
		raw = string(plain)
	}

	tok, err := m.codec.Parse(raw)
	if err != nil {
		return nil, err
	}
	if err := m.codec.Verify(tok); err != nil {
		return nil, err
	}

	claims := tok.Claims()
	return claims, jwt.CheckTime(claims, m.now())
}

