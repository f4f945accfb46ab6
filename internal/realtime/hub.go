package realtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MrSnakeDoc/apimap/internal/logger"
)

const defaultHandshakeTimeout = 5 * time.Second

type channel struct {
	name      string
	url       string
	conn      *websocket.Conn
	connected atomic.Bool
}

// Hub keeps one websocket connection per channel and tracks whether each is
// still open. Message payloads are read and discarded.
type Hub struct {
	base   string
	names  []string
	dialer *websocket.Dialer
	log    logger.Logger

	mu       sync.Mutex
	channels map[string]*channel
	wg       sync.WaitGroup
	closed   bool
}

// NewHub prepares a hub for the given channels. base is the websocket root
// (ex: "ws://localhost:8000/"); an empty base leaves the hub unconfigured.
func NewHub(base string, channels []string, log logger.Logger) *Hub {
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	names := make([]string, 0, len(channels))
	seen := make(map[string]bool, len(channels))
	for _, c := range channels {
		c = strings.Trim(strings.TrimSpace(c), "/")
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		names = append(names, c)
	}

	h := &Hub{
		base:  base,
		names: names,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: defaultHandshakeTimeout,
		},
		log:      log.Named("realtime"),
		channels: make(map[string]*channel, len(names)),
	}
	for _, name := range names {
		h.channels[name] = &channel{name: name, url: h.ChannelURL(name)}
	}
	return h
}

// Configured reports whether there is a base URL and at least one channel.
func (h *Hub) Configured() bool {
	return h != nil && h.base != "" && len(h.names) > 0
}

// Channels returns the channel names in configuration order.
func (h *Hub) Channels() []string {
	return append([]string(nil), h.names...)
}

// ChannelURL returns the endpoint of one channel: <base>ws/<name>/.
func (h *Hub) ChannelURL(name string) string {
	return h.base + "ws/" + name + "/"
}

// Connect dials every channel that is not connected yet. Failures are logged
// and joined into the returned error; the other channels are still dialled.
func (h *Hub) Connect(ctx context.Context, header http.Header) error {
	if !h.Configured() {
		return nil
	}

	var errs []error
	for _, name := range h.names {
		if err := h.dial(ctx, h.channels[name], header); err != nil {
			h.log.Warn("websocket dial failed",
				logger.String("channel", name),
				logger.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *Hub) dial(ctx context.Context, ch *channel, header http.Header) error {
	if ch.connected.Load() {
		return nil
	}

	conn, resp, err := h.dialer.DialContext(ctx, ch.url, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("channel %s: %w", ch.name, err)
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return fmt.Errorf("channel %s: hub closed", ch.name)
	}
	ch.conn = conn
	ch.connected.Store(true)
	h.wg.Add(1)
	h.mu.Unlock()

	h.log.Info("websocket connected", logger.String("channel", ch.name))
	go h.readLoop(ch, conn)
	return nil
}

// readLoop drains conn until it fails, then releases the socket before the
// flag drops so a redial never leaves the old connection open.
func (h *Hub) readLoop(ch *channel, conn *websocket.Conn) {
	defer h.wg.Done()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.mu.Lock()
			if ch.conn == conn {
				ch.conn = nil
			}
			h.mu.Unlock()
			_ = conn.Close()
			ch.connected.Store(false)
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("websocket read stopped",
					logger.String("channel", ch.name),
					logger.Error(err))
			}
			return
		}
	}
}

// IsConnected reports the status of one channel. Unknown channels are false.
func (h *Hub) IsConnected(name string) bool {
	ch, ok := h.channels[name]
	return ok && ch.connected.Load()
}

// Status returns the connected flag of every configured channel.
func (h *Hub) Status() map[string]bool {
	out := make(map[string]bool, len(h.names))
	for _, name := range h.names {
		out[name] = h.channels[name].connected.Load()
	}
	return out
}

// Close closes every connection and waits for the read loops to exit.
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	var errs []error
	for _, ch := range h.channels {
		if ch.conn == nil {
			continue
		}
		deadline := time.Now().Add(time.Second)
		_ = ch.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		if err := ch.conn.Close(); err != nil {
			errs = append(errs, err)
		}
		ch.conn = nil
		ch.connected.Store(false)
	}
	h.mu.Unlock()

	h.wg.Wait()
	return errors.Join(errs...)
}
