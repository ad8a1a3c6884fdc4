package observability

import (
	"log/slog"

	"github.com/couchcryptid/cwa-weather-report/internal/config"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// NewLogger creates a structured logger from config, tagged with the run and
// dataset so every line of one invocation can be correlated.
func NewLogger(cfg *config.Config, runID, dataset string) *slog.Logger {
	return sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat).With(
		"run_id", runID,
		"dataset", dataset,
	)
}
