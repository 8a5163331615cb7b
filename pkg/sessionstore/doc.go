// Package sessionstore keeps session values on the server under an opaque
// ID, for applications that outgrow what fits in a cookie.
//
// The stateless jwtsession middleware never uses a store. A typical hybrid
// setup keeps only the store ID in the cookie session and loads the rest
// on demand:
//
//	id := sessionstore.NewID()
//	_ = store.Save(ctx, id, map[string]any{"profile": p}, 24*time.Hour)
//	_ = sess.Set("sid", id)
//
// Stores return *session.Data, so values read back from a store follow the
// same JSON normalization as cookie sessions. MemoryStore suits tests and
// single-instance deployments; RedisStore shares sessions between replicas.
package sessionstore
