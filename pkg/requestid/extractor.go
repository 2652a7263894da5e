package requestid

import (
	"context"
	"log/slog"

	"github.com/packagepal/gateway/pkg/logger"
)

// LoggerExtractor adds request_id to log records when present.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := FromContext(ctx); id != "" {
			return logger.RequestID(id), true
		}
		return slog.Attr{}, false
	}
}
