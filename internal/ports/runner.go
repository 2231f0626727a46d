package ports

import (
	"context"

	"github.com/mikey/recruitflow-ingest/internal/core"
)

// Runner is a long-running service of the daemon
type Runner interface {
	// Start starts the service in the background
	Start() error

	// Stop stops the service and waits for work in progress
	Stop() error
}

// Job is one batch of work a Runner repeats
type Job interface {
	Run(ctx context.Context) (*core.RunReport, error)
}
