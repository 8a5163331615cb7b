// Package clientip extracts the originating client's IP address from an
// *http.Request when the application is deployed behind reverse proxies.
//
// The resolution algorithm examines headers in descending priority until the
// first valid IP address is found, then falls back to the TCP peer address:
//
//  1. CF-Connecting-IP – Cloudflare
//  2. DO-Connecting-IP – DigitalOcean App Platform
//  3. X-Forwarded-For  – comma-separated list (the first valid IP is used)
//  4. X-Real-IP        – set by reverse proxies such as Nginx
//  5. RemoteAddr       – TCP peer address
//
// A Resolver narrows this down: the header list is configurable and, when
// trusted proxies are set, headers are ignored unless the peer is one of them.
// Session fingerprints built from the client IP should use a Resolver with
// trusted proxies, otherwise any client can choose the address it presents.
//
// # Usage
//
//	import "github.com/dmitrymomot/sessionkit/pkg/clientip"
//
//	res, err := clientip.New(nil, "10.0.0.0/8")
//	if err != nil {
//		// invalid CIDR
//	}
//	http.ListenAndServe(":8080", res.Middleware(mux))
//
//	// Inside a handler
//	ip := clientip.FromRequest(r)
//
// # Error Handling
//
// IP never returns an error. If no valid address is found an empty string is
// returned so callers can decide how to proceed.
package clientip
