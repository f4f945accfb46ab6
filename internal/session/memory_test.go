package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/apimap/internal/logger"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(ttl time.Duration) (*MemoryStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(ttl)
	s.now = clock.now
	return s, clock
}

func TestMemoryStoreSetGet(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(time.Hour)

	require.NoError(t, s.Set(ctx, "admin", KeyToken, "abc123"))
	require.NoError(t, s.Set(ctx, "admin", KeyUserRole, "admin"))

	v, ok, err := s.Get(ctx, "admin", KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc123", v)

	_, ok, err = s.Get(ctx, "admin", KeyUser)
	require.NoError(t, err)
	assert.False(t, ok)

	all, err := s.All(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, map[Key]string{KeyToken: "abc123", KeyUserRole: "admin"}, all)
}

func TestMemoryStoreRejectsUnknownKeys(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(time.Hour)

	err := s.Set(ctx, "admin", Key("password"), "x")
	assert.True(t, errors.Is(err, ErrUnknownKey))

	_, _, err = s.Get(ctx, "", KeyToken)
	assert.True(t, errors.Is(err, ErrInvalidID))
}

func TestMemoryStoreClearIsLogout(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(time.Hour)

	for _, k := range Keys {
		require.NoError(t, s.Set(ctx, "customer-1", k, "v"))
	}
	require.NoError(t, s.Clear(ctx, "customer-1"))

	all, err := s.All(ctx, "customer-1")
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, 0, s.Count())
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(time.Hour)

	require.NoError(t, s.Set(ctx, "admin", KeyToken, "abc"))
	require.NoError(t, s.Delete(ctx, "admin", KeyToken))

	_, ok, err := s.Get(ctx, "admin", KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(time.Hour)

	require.NoError(t, s.Set(ctx, "old", KeyToken, "t1"))
	clock.advance(30 * time.Minute)
	require.NoError(t, s.Set(ctx, "fresh", KeyToken, "t2"))
	clock.advance(45 * time.Minute)

	_, ok, _ := s.Get(ctx, "old", KeyToken)
	assert.False(t, ok, "expired session must be hidden")

	v, ok, _ := s.Get(ctx, "fresh", KeyToken)
	assert.True(t, ok)
	assert.Equal(t, "t2", v)

	assert.Equal(t, 2, s.Count())
	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Count())
}

func TestMemoryStoreWriteRefreshesExpiry(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(time.Hour)

	require.NoError(t, s.Set(ctx, "admin", KeyToken, "t1"))
	clock.advance(50 * time.Minute)
	require.NoError(t, s.Set(ctx, "admin", KeyUser, `{"id":1}`))
	clock.advance(50 * time.Minute)

	v, ok, _ := s.Get(ctx, "admin", KeyToken)
	assert.True(t, ok)
	assert.Equal(t, "t1", v)
}

func TestParseKey(t *testing.T) {
	for _, k := range Keys {
		got, err := ParseKey(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKey("Token")
	assert.Error(t, err, "keys are case sensitive")
}

func TestTokenFunc(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(time.Hour)
	token := TokenFunc(s, "admin", logger.Nop())

	assert.Equal(t, "", token(ctx))
	require.NoError(t, s.Set(ctx, "admin", KeyToken, "abc"))
	assert.Equal(t, "abc", token(ctx))

	assert.Equal(t, "", TokenFunc(nil, "admin", logger.Nop())(ctx))
}

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "apimap:session:admin", RedisKey("admin"))
}
