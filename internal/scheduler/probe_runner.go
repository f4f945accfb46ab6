package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrSnakeDoc/apimap/internal/harness"
	"github.com/MrSnakeDoc/apimap/internal/logger"
)

// ErrBusy is returned when a run is requested while one is in progress.
var ErrBusy = errors.New("probe run already in progress")

// Runner executes one full probe run.
type Runner interface {
	RunAll(ctx context.Context) *harness.Report
}

// ProbeRunner serialises probe runs: periodic ones when an interval is set,
// and manual ones requested through Trigger. The last report is kept.
type ProbeRunner struct {
	runner        Runner
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}
	running       atomic.Bool

	mu   sync.RWMutex
	last *harness.Report
}

// NewProbeRunner creates a probe runner. interval <= 0 disables periodic runs.
func NewProbeRunner(runner Runner, log logger.Logger, interval time.Duration) *ProbeRunner {
	return &ProbeRunner{
		runner:        runner,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: make(chan struct{}, 1),
	}
}

// Start launches the run loop. With an interval, a first run starts
// immediately.
func (pr *ProbeRunner) Start(ctx context.Context) {
	go func() {
		var tick <-chan time.Time
		if pr.interval > 0 {
			ticker := time.NewTicker(pr.interval)
			defer ticker.Stop()
			tick = ticker.C
			pr.runLogged(ctx, "startup")
		}

		for {
			select {
			case <-tick:
				pr.runLogged(ctx, "scheduled")
			case <-pr.manualTrigger:
				pr.runLogged(ctx, "manual")
			case <-pr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the run loop. It is safe to call more than once.
func (pr *ProbeRunner) Stop() {
	pr.stopOnce.Do(func() { close(pr.stopCh) })
}

// Trigger asks the loop for a run without waiting for it. It fails with
// ErrBusy when a run is in progress or already queued.
func (pr *ProbeRunner) Trigger() error {
	if pr.running.Load() {
		return ErrBusy
	}
	select {
	case pr.manualTrigger <- struct{}{}:
		return nil
	default:
		return ErrBusy
	}
}

// RunNow runs the probes synchronously and stores the report.
func (pr *ProbeRunner) RunNow(ctx context.Context) (*harness.Report, error) {
	if !pr.running.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer pr.running.Store(false)

	report := pr.runner.RunAll(ctx)

	pr.mu.Lock()
	pr.last = report
	pr.mu.Unlock()
	return report, nil
}

func (pr *ProbeRunner) runLogged(ctx context.Context, reason string) {
	pr.logger.Info("probe run triggered", logger.String("reason", reason))
	if _, err := pr.RunNow(ctx); err != nil {
		pr.logger.Warn("probe run skipped", logger.String("reason", reason), logger.Error(err))
	}
}

// Running reports whether a run is in progress.
func (pr *ProbeRunner) Running() bool {
	return pr.running.Load()
}

// Last returns the most recent report, if any run finished.
func (pr *ProbeRunner) Last() (*harness.Report, bool) {
	pr.mu.RLock()
	defer pr.mu.RUnlock()

	return pr.last, pr.last != nil
}
