package finder

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/packagepal/gateway/handler"
	"github.com/packagepal/gateway/pkg/binder"
	"github.com/packagepal/gateway/pkg/clientip"
	"github.com/packagepal/gateway/pkg/llm"
	"github.com/packagepal/gateway/pkg/logger"
	"github.com/packagepal/gateway/pkg/ratelimit"
)

const (
	// HeaderAPIKey carries a caller-supplied upstream credential.
	HeaderAPIKey = "X-Upstream-Api-Key"
	// HeaderCache reports HIT, MISS or BYPASS.
	HeaderCache = "X-Cache"
)

// Client-facing messages.
const (
	msgMissingFields = "Missing required fields: sourcePackage, sourceLang, targetLang"
	msgFieldType     = "All fields must be strings."
	msgSameLanguage  = "Source and target languages must be different."
	msgInvalidBody   = "Invalid request body."
	msgRateLimited   = "Too many requests from this IP, please try again after a minute."
	msgUnconfigured  = "Service temporarily unavailable due to API key configuration issue."
	msgUpstream      = "Error communicating with the AI service. Please try again later."
)

// lookupPayload keeps raw JSON kinds so a missing field and a wrongly typed
// one produce different errors.
type lookupPayload struct {
	SourcePackage any `json:"sourcePackage"`
	SourceLang    any `json:"sourceLang"`
	TargetLang    any `json:"targetLang"`
}

// toRequest rejects absent or falsy fields first, then non-strings.
func (p lookupPayload) toRequest() (LookupRequest, error) {
	fields := []any{p.SourcePackage, p.SourceLang, p.TargetLang}
	for _, f := range fields {
		if isBlank(f) {
			return LookupRequest{}, ErrMissingFields
		}
	}
	values := make([]string, len(fields))
	for i, f := range fields {
		s, ok := f.(string)
		if !ok {
			return LookupRequest{}, ErrInvalidFieldType
		}
		values[i] = s
	}
	return LookupRequest{SourcePackage: values[0], SourceLang: values[1], TargetLang: values[2]}, nil
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case bool:
		return !t
	case float64:
		return t == 0
	}
	return false
}

// Handler exposes the Service over HTTP.
type Handler struct {
	svc      *Service
	resolver *clientip.Resolver
	log      *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithResolver sets how the caller identity is derived. Defaults to the
// TCP peer address.
func WithResolver(r *clientip.Resolver) HandlerOption {
	return func(h *Handler) {
		if r != nil {
			h.resolver = r
		}
	}
}

func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

func NewHandler(svc *Service, opts ...HandlerOption) *Handler {
	h := &Handler{
		svc:      svc,
		resolver: clientip.NewResolver(),
		log:      logger.Noop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the router to mount under /api.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Post("/find-packages", handler.Wrap(h.findPackages,
		handler.WithBinders[handler.Context, lookupPayload](bindPayload(binder.JSON())),
		handler.WithErrorHandler[handler.Context, lookupPayload](handler.NewErrorHandler(h.log)),
	))
	return r
}

func bindPayload(decode handler.Bind) handler.Bind {
	return func(r *http.Request, v any) error {
		if err := decode(r, v); err != nil {
			return handler.NewHTTPError(http.StatusBadRequest, msgInvalidBody, errors.Join(ErrInvalidBody, err))
		}
		return nil
	}
}

func (h *Handler) findPackages(ctx handler.Context, p lookupPayload) handler.Response {
	req, err := p.toRequest()
	if err != nil {
		return handler.Error(toHTTPError(err))
	}

	r := ctx.Request()
	w := ctx.ResponseWriter()

	var res *Result
	if key := strings.TrimSpace(r.Header.Get(HeaderAPIKey)); key != "" {
		res, err = h.svc.FindWithKey(ctx, key, req)
	} else {
		res, err = h.svc.Find(ctx, h.identity(r), req)
	}
	if err != nil {
		var le *LimitError
		if errors.As(err, &le) {
			ratelimit.SetHeaders(w.Header(), le.Result)
		}
		return handler.Error(toHTTPError(err))
	}

	ratelimit.SetHeaders(w.Header(), res.RateLimit)
	w.Header().Set(HeaderCache, string(res.Source))
	return handler.RawJSON(res.Body)
}

func (h *Handler) identity(r *http.Request) string {
	if ip := clientip.GetIPFromContext(r.Context()); ip != "" {
		return ip
	}
	return h.resolver.Resolve(r)
}

// toHTTPError maps pipeline errors to status codes and fixed messages.
// Causes stay attached for logging but are never rendered.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrMissingFields):
		return handler.NewHTTPError(http.StatusBadRequest, msgMissingFields, err)
	case errors.Is(err, ErrInvalidFieldType):
		return handler.NewHTTPError(http.StatusBadRequest, msgFieldType, err)
	case errors.Is(err, ErrSameLanguage):
		return handler.NewHTTPError(http.StatusBadRequest, msgSameLanguage, err)
	case errors.Is(err, ErrRateLimited):
		return handler.NewHTTPError(http.StatusTooManyRequests, msgRateLimited, err)
	case errors.Is(err, llm.ErrUnconfigured):
		return handler.NewHTTPError(http.StatusServiceUnavailable, msgUnconfigured, err)
	case errors.Is(err, llm.ErrTransport), errors.Is(err, llm.ErrEmptyResponse):
		return handler.NewHTTPError(http.StatusBadGateway, msgUpstream, err)
	case errors.Is(err, ErrMalformedOutput):
		return handler.NewHTTPError(http.StatusInternalServerError, handler.GenericMessage, err)
	}
	return err
}
