// Package sessionguard mitigates session hijacking by remembering which
// client last used a session.
//
// A hash of the client IP and User-Agent is stored in the session under a
// reserved key. When a later request presents the same session from a
// different client, the session is cleared and the request continues
// anonymously. Unlike the fingerprint claim enforced by jwtsession, the
// guard never rejects a token outright and tolerates clients whose address
// changes only by logging them out.
//
//	guard := sessionguard.New(sessionguard.WithResolver(res), sessionguard.WithLogger(log))
//	handler := manager.Middleware(guard.Middleware(app))
package sessionguard
