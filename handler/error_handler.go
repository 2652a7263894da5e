package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/packagepal/gateway/pkg/logger"
)

// ErrorInfo is the client-facing classification of an error.
type ErrorInfo struct {
	StatusCode int
	Message    string
	LogLevel   slog.Level
}

// classifyError maps err to a status and message. Only HTTPError messages
// reach the client; anything else becomes a generic 500.
func classifyError(err error) ErrorInfo {
	info := ErrorInfo{
		StatusCode: http.StatusInternalServerError,
		Message:    GenericMessage,
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		info.StatusCode = httpErr.Code
		if httpErr.Message != "" {
			info.Message = httpErr.Message
		}
	}

	info.LogLevel = slog.LevelError
	if info.StatusCode < http.StatusInternalServerError {
		info.LogLevel = slog.LevelWarn
	}
	return info
}

func writeError(w http.ResponseWriter, info ErrorInfo) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(info.StatusCode)
	_ = json.NewEncoder(w).Encode(ErrorBody{Message: info.Message})
}

// NewErrorHandler returns an ErrorHandler that logs the full error and
// writes {"message": ...} with the classified status.
func NewErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	if log == nil {
		log = logger.Noop()
	}

	return func(ctx Context, err error) {
		info := classifyError(err)
		req := ctx.Request()

		log.LogAttrs(ctx, info.LogLevel, "request error",
			logger.Component("http"),
			logger.Error(err),
			logger.Status(info.StatusCode),
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
		)

		writeError(ctx.ResponseWriter(), info)
	}
}

// NotFound and MethodNotAllowed render router fallbacks in the same JSON shape.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, classifyError(ErrNotFound))
}

func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, classifyError(ErrMethodNotAllowed))
}
