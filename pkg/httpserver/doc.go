// Package httpserver runs an http.Handler with finite timeouts, signal
// handling and graceful shutdown.
//
// Run blocks until its context is cancelled, SIGINT or SIGTERM arrives, or
// the listener fails. On shutdown in-flight requests get ShutdownTimeout to
// finish. Listen failures are joined with ErrStart and shutdown failures
// with ErrShutdown.
//
// LivenessHandler and ReadinessHandler back the /healthz and /readyz probes.
//
//	srv := httpserver.New(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
package httpserver
