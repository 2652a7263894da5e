package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/packagepal/gateway/handler"
	"github.com/packagepal/gateway/pkg/clientip"
	"github.com/packagepal/gateway/pkg/cors"
	"github.com/packagepal/gateway/pkg/httpserver"
	"github.com/packagepal/gateway/pkg/logger"
	"github.com/packagepal/gateway/pkg/metrics"
	"github.com/packagepal/gateway/pkg/requestid"
	"github.com/packagepal/gateway/svc/finder"
)

type routerDeps struct {
	log      *slog.Logger
	service  *finder.Service
	resolver *clientip.Resolver
	metrics  *metrics.Metrics
	origins  []string
	corsOpts []cors.Option
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Use(
		requestid.Middleware,
		d.resolver.Middleware,
		logger.RequestLogger(d.log, "/healthz", "/readyz", "/metrics"),
		cors.Middleware(d.origins, d.corsOpts...),
	)

	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(d.log, func(ctx context.Context) error {
		return d.service.Ready(ctx)
	}))
	r.Method(http.MethodGet, "/metrics", d.metrics.Handler())

	r.Mount("/api", finder.NewHandler(d.service,
		finder.WithResolver(d.resolver),
		finder.WithHandlerLogger(d.log),
	).Routes())

	return r
}
