// Package httpserver runs an http.Handler with sane timeouts and graceful
// shutdown.
//
// Run opens the listener, logs the bound address and blocks until the
// context is cancelled, SIGINT/SIGTERM arrives or Shutdown is called. The
// server is then drained within the shutdown timeout. Start and stop hooks
// run around that life cycle. HealthCheckHandler serves liveness and
// readiness probes.
//
// # Usage
//
//	r := chi.NewRouter()
//	r.Get("/healthz", httpserver.HealthCheckHandler(log))
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// # Errors
//
// Listen and serve failures are wrapped with ErrStart, failed drains with
// ErrShutdown. Use errors.Is to tell them apart.
package httpserver
