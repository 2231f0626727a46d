package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mikey/recruitflow-ingest/internal/core"
	"github.com/mikey/recruitflow-ingest/internal/ports"
	"go.uber.org/zap"
)

// ErrRunInProgress is returned by RunOnce while another run is active
var ErrRunInProgress = errors.New("a run is already in progress")

// Periodic repeats a job on a fixed interval. Runs never overlap: a tick
// that fires while the previous run is active is skipped.
type Periodic struct {
	job        ports.Job
	interval   time.Duration
	runOnStart bool
	logger     *zap.Logger

	running sync.Mutex

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	wg     sync.WaitGroup
}

var _ ports.Runner = (*Periodic)(nil)

// NewPeriodic creates a scheduler for job
func NewPeriodic(job ports.Job, interval time.Duration, runOnStart bool, logger *zap.Logger) *Periodic {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Periodic{
		job:        job,
		interval:   interval,
		runOnStart: runOnStart,
		logger:     logger,
	}
}

// Start launches the scheduling loop
func (p *Periodic) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return errors.New("scheduler already started")
	}
	if p.interval <= 0 {
		return errors.New("scheduler interval must be positive")
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.loop(ctx)

	p.logger.Info("Scheduler started",
		zap.Duration("interval", p.interval),
		zap.Bool("run_on_start", p.runOnStart))
	return nil
}

// Stop cancels the loop and any run in progress, then waits for both
func (p *Periodic) Stop() error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	p.wg.Wait()

	p.logger.Info("Scheduler stopped")
	return nil
}

// RunOnce runs the job now unless a run is already active
func (p *Periodic) RunOnce(ctx context.Context) (*core.RunReport, error) {
	if !p.running.TryLock() {
		return nil, ErrRunInProgress
	}
	defer p.running.Unlock()
	return p.job.Run(ctx)
}

func (p *Periodic) loop(ctx context.Context) {
	defer close(p.done)

	if p.runOnStart {
		p.tick(ctx)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Periodic) tick(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		report, err := p.RunOnce(ctx)
		switch {
		case errors.Is(err, ErrRunInProgress):
			p.logger.Warn("Skipping scheduled run, previous run still in progress")
		case err != nil && ctx.Err() == nil:
			p.logger.Error("Scheduled run failed", zap.Error(err))
		case report != nil:
			p.logger.Debug("Scheduled run complete", zap.String("run_id", report.RunID))
		}
	}()
}
