package redis

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/apimap/internal/config"
	"github.com/MrSnakeDoc/apimap/internal/logger"
)

func validOptions(addr string) Options {
	return Options{
		Addr:           addr,
		DialTimeout:    50 * time.Millisecond,
		ReadTimeout:    50 * time.Millisecond,
		WriteTimeout:   50 * time.Millisecond,
		PoolSize:       1,
		ConnectTimeout: 300 * time.Millisecond,
		RetryInterval:  20 * time.Millisecond,
		MaxWait:        50 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, validOptions("localhost:6379").Validate())

	bad := validOptions("")
	bad.RetryInterval = 0
	bad.WarnThreshold = -1
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address is empty")
	assert.Contains(t, err.Error(), "RetryInterval")
	assert.Contains(t, err.Error(), "WarnThreshold")
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{
		RedisAddr:           "redis:6379",
		RedisDB:             2,
		RedisPoolSize:       5,
		RedisConnectTimeout: time.Second,
		RedisRetryInterval:  100 * time.Millisecond,
		RedisMaxWait:        time.Second,
		RedisPingTimeout:    time.Second,
	}
	opts := OptionsFromConfig(cfg)
	assert.Equal(t, "redis:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 5, opts.PoolSize)
	assert.NoError(t, opts.Validate())
}

func TestBackoffIsCapped(t *testing.T) {
	b := &backoff{wait: 10 * time.Millisecond, max: 35 * time.Millisecond}
	got := []time.Duration{b.next(), b.next(), b.next(), b.next()}
	assert.Equal(t, []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		35 * time.Millisecond,
		35 * time.Millisecond,
	}, got)
}

func TestConnectGivesUpWhenUnreachable(t *testing.T) {
	// Reserve a port and close it so nothing listens there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	start := time.Now()
	client, err := Connect(context.Background(), validOptions(addr), logger.Nop())
	assert.Nil(t, client)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis unavailable")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestConnectRejectsInvalidOptions(t *testing.T) {
	_, err := Connect(context.Background(), Options{}, logger.Nop())
	assert.Error(t, err)
}
