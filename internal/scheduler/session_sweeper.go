package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/apimap/internal/logger"
)

// DefaultSweepInterval is used when no interval is configured.
const DefaultSweepInterval = 10 * time.Minute

// Sweeper drops expired sessions and returns how many were removed.
type Sweeper interface {
	Sweep() int
}

// SessionSweeper periodically removes expired in-memory sessions. Redis
// sessions expire on their own and need no sweeper.
type SessionSweeper struct {
	store    Sweeper
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewSessionSweeper creates a new session sweeper
func NewSessionSweeper(store Sweeper, log logger.Logger, interval time.Duration) *SessionSweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	return &SessionSweeper{
		store:    store,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep
func (ss *SessionSweeper) Start(ctx context.Context) {
	// Run immediately on start
	ss.Collect()

	ticker := time.NewTicker(ss.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ss.Collect()
			case <-ss.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the sweeper
func (ss *SessionSweeper) Stop() {
	ss.stopOnce.Do(func() { close(ss.stopCh) })
}

// Collect removes expired sessions once
func (ss *SessionSweeper) Collect() int {
	removed := ss.store.Sweep()
	if removed > 0 {
		ss.logger.Info("expired sessions removed", logger.Int("count", removed))
	} else {
		ss.logger.Debug("no expired sessions")
	}
	return removed
}
