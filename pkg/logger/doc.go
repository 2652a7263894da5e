// Package logger builds log/slog loggers for the gateway.
//
// New applies functional options (format, level, output, static attributes,
// context extractors) and wraps the resulting handler in a
// LogHandlerDecorator that copies request-scoped values such as the request
// id out of the context on every record.
//
//	log := logger.New(
//		logger.WithEnvironment(os.Getenv("APP_ENV"), "packagepal-gateway"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//
// The attribute helpers (Error, Component, CacheKey, ...) keep key names
// consistent across packages. RequestLogger is an http middleware that emits
// one record per request.
package logger
