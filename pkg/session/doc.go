// Package session provides the request-scoped session data container used by
// storage-less, token-backed sessions.
//
// Session data never lives on the server. It is decoded from a signed token on
// the way in, mutated by handlers and, only when something actually changed,
// encoded into a fresh token on the way out. The container therefore keeps a
// snapshot of the values it was built from and compares against it by value.
//
// # Architecture
//
// Data is the single concrete container. Every value written to it goes through
// a JSON round trip, so the container only ever holds strings, float64 numbers,
// bools, nil, []any and map[string]any. This keeps re-serialization into a token
// claim lossless and makes "set the same value again" a no-op for change
// tracking.
//
// Lazy wraps a loader function and builds the Data on first use. The token
// middleware hands a Lazy to handlers so that requests that never touch the
// session never pay for signature verification. HasChanged on an untouched
// Lazy returns false without loading.
//
//	┌──────────┐  first access  ┌────────┐
//	│   Lazy   │ ─────────────► │  Data  │
//	└──────────┘    (once)      └────────┘
//	      ▲
//	      │ context attribute
//	┌──────────┐
//	│ handler  │
//	└──────────┘
//
// # Usage
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    sess := session.MustFromContext(r.Context())
//
//	    visits, _ := session.GetInt(sess, "visits")
//	    if err := sess.Set("visits", visits+1); err != nil {
//	        http.Error(w, err.Error(), http.StatusInternalServerError)
//	        return
//	    }
//	}
//
// Structured values can be stored and decoded back:
//
//	_ = sess.Set("cart", Cart{Items: items})
//	var cart Cart
//	err := session.Decode(sess, "cart", &cart)
//
// # Error Handling
//
//   - ErrNotRepresentable – value cannot be encoded as JSON; returned by Set
//   - ErrNotFound         – key or session is missing
//   - ErrTypeMismatch     – stored value does not decode into the target
//
// # Concurrency
//
// Neither Data nor Lazy are safe for concurrent mutation. A request owns its
// session; handlers that fan out must synchronize access themselves.
package session
