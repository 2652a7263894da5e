// Package requestid attaches a correlation ID to every request.
//
// Middleware accepts an incoming X-Request-ID of up to 128 characters from
// [a-zA-Z0-9_-] and otherwise generates a UUID. The ID is echoed in the
// response header and stored in the context, where LoggerExtractor picks it
// up for structured logs:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r.Use(requestid.Middleware)
package requestid
