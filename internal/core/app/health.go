package app

import (
	"context"
	"fmt"
	"time"

	"skiplint/internal/shared/observability"
)

// Health reports the watch session state for the /health endpoint.
func (a *App) Health(ctx context.Context) observability.HealthStatus {
	status := observability.HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	if a.Parser != nil {
		active, created := a.Parser.Stats()
		status.Components["parser"] = fmt.Sprintf("ok (%d active, %d created)", active, created)
	} else {
		status.Status = "degraded"
		status.Components["parser"] = "missing"
	}

	switch {
	case a.history != nil:
		status.Components["history"] = "ok"
	case a.Config.History.Enabled:
		status.Status = "degraded"
		status.Components["history"] = "missing but enabled in config"
	default:
		status.Components["history"] = "disabled"
	}

	if last, ok := a.LastRun(); ok {
		status.Components["last_run"] = fmt.Sprintf("%s (%d files, %d findings, %d errors)",
			last.StartedAt.Format(time.RFC3339), last.FilesCount, len(last.Findings), len(last.Errors))
	} else {
		status.Components["last_run"] = "pending"
	}
	return status
}
