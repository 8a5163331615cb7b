// Package logger builds *slog.Logger values with functional options and
// provides attribute constructors so that every package logs the same keys.
//
// New creates a text or JSON handler and wraps it with LogHandlerDecorator,
// which runs registered ContextExtractor callbacks on each record. This is
// how request-scoped values such as the request ID or the verified token ID
// end up on log lines without being passed around explicitly.
//
// # Usage
//
//	log := logger.New(
//		logger.WithDevelopment("sessionkit"),
//		logger.WithContextExtractors(jwt.LoggerExtractor()),
//	)
//
//	log.WarnContext(ctx, "session token ignored",
//		logger.Event("session.token_rejected"),
//		logger.Reason("fingerprint"),
//		logger.Error(err),
//	)
//
// # Configuration
//
//   - WithDevelopment / WithStaging / WithProduction / WithEnvironment – per-environment defaults.
//   - WithFormat / WithTextFormatter / WithJSONFormatter – output format.
//   - WithLevel, WithOutput, WithHandlerOptions, WithAttr.
//   - WithContextExtractors / WithContextValue – attributes from context.
//
// NewFromConfig reads the same settings from a Config populated from
// APP_NAME, APP_ENV, LOG_LEVEL and LOG_FORMAT. Discard returns a logger
// that drops everything; libraries use it as their default.
//
// Error and Errors return an empty attribute for nil errors, so
//
//	log.Info("done", logger.Error(err))
//
// needs no nil check.
package logger
