// Package redis connects to Redis for the optional server-side session
// store.
//
// Connect parses a redis:// URL, pings the server and retries according to
// Config, which is populated from REDIS_URL, REDIS_RETRY_ATTEMPTS,
// REDIS_RETRY_INTERVAL and REDIS_CONNECT_TIMEOUT. Healthcheck returns a
// probe suitable for readiness endpoints.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		// handle error
//	}
//	defer client.Close()
//
//	store := sessionstore.NewRedisStore(client)
//
// Errors are sentinel values joined with the underlying go-redis error, so
// errors.Is(err, redis.ErrRedisNotReady) works as expected.
package redis
