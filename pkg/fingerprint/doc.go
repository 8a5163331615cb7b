// Package fingerprint binds session tokens to request metadata so that a
// stolen cookie is useless from a different client.
//
// A Binder holds an ordered list of sources. Each source extracts one
// non-empty value from the request (peer address, User-Agent, a header, the
// proxy-aware client IP). The values are encoded as a JSON array in configured
// order, hashed with SHA-256 and base64url encoded. Reordering sources changes
// the fingerprint, and the result never contains the raw values.
//
// # Architecture
//
//   - Source – func(*http.Request) (string, error); built-ins RemoteAddr,
//     UserAgent, ClientIP, Header, HeaderSet; SourceByName for config.
//   - Binder – Compute the fingerprint, Bind it into a claim set, Validate a
//     claim set against it. A Binder without sources is disabled and every
//     operation is a no-op.
//   - Middleware – stores the computed fingerprint in the request context,
//     readable with FromContext. The jwtsession middleware does the same.
//
// # Usage
//
//	import "github.com/dmitrymomot/sessionkit/pkg/fingerprint"
//
//	b := fingerprint.New(fingerprint.RemoteAddr(), fingerprint.UserAgent())
//
//	fp, err := b.Compute(r)
//	if err != nil {
//		// the environment cannot provide a configured source
//	}
//	b.Bind(claims, fp)
//
//	// Later, on an incoming token
//	if err := b.Validate(tok.Claims(), fp); errors.Is(err, fingerprint.ErrInvalid) {
//		// token presented by a different client
//	}
//
// # Error Handling
//
// ErrSourceMissing means the request lacks metadata the operator configured
// as required; treat it as a server error. ErrMismatch and ErrMissingClaim
// both wrap ErrInvalid and mean the token must be rejected.
//
// Including the client IP causes false positives for mobile and VPN users.
// Prefer UserAgent and HeaderSet unless IP changes should end the session.
package fingerprint
