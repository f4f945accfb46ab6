package scheduler

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrSnakeDoc/apimap/internal/logger"
)

type countingSweeper struct {
	calls   atomic.Int32
	removed int
}

func (c *countingSweeper) Sweep() int {
	c.calls.Add(1)
	return c.removed
}

func TestSessionSweeperCollect(t *testing.T) {
	store := &countingSweeper{removed: 2}
	ss := NewSessionSweeper(store, logger.Nop(), time.Hour)

	assert.Equal(t, 2, ss.Collect())
	assert.Equal(t, int32(1), store.calls.Load())
}

func TestSessionSweeperStartRunsImmediatelyAndPeriodically(t *testing.T) {
	store := &countingSweeper{}
	ss := NewSessionSweeper(store, logger.Nop(), 20*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ss.Start(ctx)
	defer ss.Stop()

	assert.GreaterOrEqual(t, store.calls.Load(), int32(1))
	assert.Eventually(t, func() bool { return store.calls.Load() >= 3 },
		2*time.Second, 10*time.Millisecond)
}

func TestSessionSweeperDefaultInterval(t *testing.T) {
	ss := NewSessionSweeper(&countingSweeper{}, logger.Nop(), 0)
	assert.Equal(t, DefaultSweepInterval, ss.interval)
}

type fakeConnector struct {
	configured bool
	calls      atomic.Int32
}

func (f *fakeConnector) Configured() bool { return f.configured }

func (f *fakeConnector) Connect(ctx context.Context, _ http.Header) error {
	f.calls.Add(1)
	return ctx.Err()
}

func TestRealtimeKeeperSkipsUnconfiguredHub(t *testing.T) {
	hub := &fakeConnector{}
	rk := NewRealtimeKeeper(hub, logger.Nop(), 10*time.Millisecond, time.Second)
	rk.Start(context.Background())
	defer rk.Stop()

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), hub.calls.Load())
}

func TestRealtimeKeeperRedials(t *testing.T) {
	hub := &fakeConnector{configured: true}
	rk := NewRealtimeKeeper(hub, logger.Nop(), 10*time.Millisecond, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rk.Start(ctx)
	defer rk.Stop()

	assert.Equal(t, int32(1), hub.calls.Load(), "first dial is synchronous")
	assert.Eventually(t, func() bool { return hub.calls.Load() >= 3 },
		2*time.Second, 5*time.Millisecond)
}

func TestRealtimeKeeperConnectOnce(t *testing.T) {
	hub := &fakeConnector{configured: true}
	rk := NewRealtimeKeeper(hub, logger.Nop(), 0, 0)
	rk.Start(context.Background())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), hub.calls.Load())
}
