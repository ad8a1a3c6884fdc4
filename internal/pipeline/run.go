package pipeline

import (
	"log/slog"

	"github.com/couchcryptid/cwa-weather-report/internal/config"
	"github.com/couchcryptid/cwa-weather-report/internal/observability"
	"github.com/jonboulle/clockwork"
)

// RunContext carries the per-invocation collaborators every stage needs.
// Nothing in the report path reads package-level state.
type RunContext struct {
	Logger  *slog.Logger
	Config  *config.Config
	Clock   clockwork.Clock
	Metrics *observability.Metrics
	RunID   string
}
