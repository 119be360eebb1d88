package observability

import (
	"log/slog"

	"github.com/couchcryptid/flood-monitor/internal/config"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// ServiceName is attached to every log line.
const ServiceName = "flood-monitor"

// NewLogger builds the service logger from LOG_LEVEL and LOG_FORMAT and
// installs it as the slog default.
func NewLogger(cfg *config.Config) *slog.Logger {
	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat).With("service", ServiceName)
	slog.SetDefault(logger)
	return logger
}
