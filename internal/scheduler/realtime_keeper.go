package scheduler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/MrSnakeDoc/apimap/internal/logger"
)

// Connector (re)dials realtime channels that are not connected.
type Connector interface {
	Configured() bool
	Connect(ctx context.Context, header http.Header) error
}

// RealtimeKeeper connects the realtime channels on start and redials
// dropped ones on every tick.
type RealtimeKeeper struct {
	hub      Connector
	logger   logger.Logger
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRealtimeKeeper creates a keeper. interval <= 0 connects once only.
func NewRealtimeKeeper(hub Connector, log logger.Logger, interval, timeout time.Duration) *RealtimeKeeper {
	return &RealtimeKeeper{
		hub:      hub,
		logger:   log,
		interval: interval,
		timeout:  timeout,
		stopCh:   make(chan struct{}),
	}
}

// Start connects immediately, then keeps reconnecting in the background.
func (rk *RealtimeKeeper) Start(ctx context.Context) {
	if !rk.hub.Configured() {
		rk.logger.Info("realtime channels not configured")
		return
	}

	rk.Connect(ctx)
	if rk.interval <= 0 {
		return
	}

	ticker := time.NewTicker(rk.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rk.Connect(ctx)
			case <-rk.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops reconnecting. Open connections are left to the hub.
func (rk *RealtimeKeeper) Stop() {
	rk.stopOnce.Do(func() { close(rk.stopCh) })
}

// Connect dials every disconnected channel once.
func (rk *RealtimeKeeper) Connect(ctx context.Context) {
	if rk.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rk.timeout)
		defer cancel()
	}
	if err := rk.hub.Connect(ctx, nil); err != nil {
		rk.logger.Debug("some realtime channels are still down", logger.Error(err))
	}
}
