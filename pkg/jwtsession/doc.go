// Package jwtsession stores HTTP sessions in a signed token carried by a
// cookie. No server-side state is kept: the session values travel in the
// "session-data" claim and the token's exp claim is the idle deadline.
//
// A Manager wraps handlers with Middleware. For every request it attaches a
// lazily loaded session.Session to the context; the token is only verified
// when the handler actually reads or writes the session. Before the response
// header goes out the Manager picks one of four outcomes:
//
//   - clear   – the session was changed and is now empty; an expired cookie is written.
//   - issue   – the session was changed; a fresh token is written.
//   - refresh – the session is unchanged but the token is older than the
//     refresh time; the same data is re-signed with a new expiry.
//   - none    – nothing is written.
//
// Broken, forged, expired or foreign tokens are never an error for the
// client. They are logged, reported to the Observer and treated exactly as a
// missing cookie.
//
// Tokens may optionally be bound to a client fingerprint (see package
// fingerprint) and encrypted with AES-GCM on top of the signature.
//
// # Usage
//
//	cfg := jwtsession.DefaultConfig()
//	cfg.Secret = os.Getenv("SESSION_SECRET")
//
//	m, err := jwtsession.NewFromConfig(cfg, jwtsession.WithLogger(log))
//	if err != nil {
//		// handle error
//	}
//
//	mux.Handle("/", m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//		s := session.MustFromContext(r.Context())
//		_ = s.Set("user_id", "42")
//	})))
//
// Session changes made after the handler has started writing the response
// are not persisted.
//
// # Codecs
//
// HS256 adapts a *jwt.Service and is what NewFromConfig uses. Signer adapts
// a *jwtsigner.Signer for RSA, ECDSA and JWKS verified setups. Any type
// implementing Codec can be plugged into New.
package jwtsession
