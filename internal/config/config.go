package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// API base URL variables, in lookup order. VITE_API_URL is shared with the
// dashboard builds so one .env file configures both.
const (
	EnvViteAPIURL = "VITE_API_URL"
	EnvAPIURL     = "APIMAP_API_URL"
)

// DefaultChannels are the websocket topics the dashboards subscribe to.
var DefaultChannels = []string{"smart-bins", "dashboard", "notifications"}

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request handler timeout

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	APIURL       string // backend base URL, empty when unset (reported by the probe harness)
	APIURLSource string // env var the base URL was read from
	EndpointFile string // optional YAML file with endpoint overrides

	WebSocketURL      string        // ex: "ws://localhost:8000/" (derived from APIURL when empty)
	WebSocketChannels []string      // topics to connect to
	WebSocketRetry    time.Duration // redial interval for dropped channels, 0 = connect once

	ProbeTimeout    time.Duration // per-probe deadline
	ProbeRate       float64       // probes per second, 0 = unpaced
	ProbeInterval   time.Duration // periodic probe runs, 0 = manual only
	UpstreamTimeout time.Duration // gateway calls to the backend

	SessionID            string        // session whose token is used by probes
	SessionTTL           time.Duration // session expiry, refreshed on write
	SessionSweepInterval time.Duration // memory store cleanup interval

	// Redis (optional, empty address => in-memory sessions)
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration // timeout for each ping attempt
	RedisPoolSize       int
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries, grows exponentially
	RedisWarnThreshold  int           // warn after this many attempts

	AllowedHosts     []string // optional, restrict access to specific Host headers
	AllowedCIDRS     []string // optional, restrict probe triggers to specific IPs
	TrustProxy       bool     // true => trust X-Forwarded-For headers
	RateLimitBurst   int      // proxy burst per client IP
	RateLimitPerMin  int      // proxy refill per client IP per minute
	CORSAllowOrigins []string // dashboard origins, empty => "*"
}

func Load() *Config {
	apiURL, apiSource := lookupAPIURL()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("APIMAP_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("APIMAP_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("APIMAP_REQUEST_TIMEOUT", 30*time.Second),

		// Logging
		LogLevel:  getenv("APIMAP_LOG_LEVEL", "info"),
		PrettyLog: mustBool("APIMAP_PRETTY_LOG", true),

		// Backend
		APIURL:       apiURL,
		APIURLSource: apiSource,
		EndpointFile: getenv("APIMAP_ENDPOINT_FILE", ""),

		// Realtime
		WebSocketURL:      getenv("APIMAP_WS_URL", ""),
		WebSocketChannels: splitAndTrim(getenv("APIMAP_WS_CHANNELS", strings.Join(DefaultChannels, ","))),
		WebSocketRetry:    mustDuration("APIMAP_WS_RETRY_INTERVAL", 30*time.Second),

		// Probes & gateway
		ProbeTimeout:    mustDuration("APIMAP_PROBE_TIMEOUT", 10*time.Second),
		ProbeRate:       getenvFloat("APIMAP_PROBE_RATE", 0),
		ProbeInterval:   mustDuration("APIMAP_PROBE_INTERVAL", 0),
		UpstreamTimeout: mustDuration("APIMAP_UPSTREAM_TIMEOUT", 15*time.Second),

		// Sessions
		SessionID:            getenv("APIMAP_SESSION_ID", "admin"),
		SessionTTL:           mustDuration("APIMAP_SESSION_TTL", 24*time.Hour),
		SessionSweepInterval: mustDuration("APIMAP_SESSION_SWEEP_INTERVAL", 10*time.Minute),

		// Redis settings
		RedisAddr:           getenv("APIMAP_REDIS_ADDR", ""),
		RedisUser:           getenv("APIMAP_REDIS_USERNAME", ""),
		RedisPassword:       getenv("APIMAP_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("APIMAP_REDIS_DB", 0),
		RedisDT:             mustDuration("APIMAP_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("APIMAP_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("APIMAP_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("APIMAP_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("APIMAP_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("APIMAP_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("APIMAP_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("APIMAP_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("APIMAP_REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts:     splitAndTrim(getenv("APIMAP_ALLOWED_HOSTS", "")),
		AllowedCIDRS:     parseAllowedIPs(getenv("APIMAP_ALLOWED_CIDRS", "")),
		TrustProxy:       mustBool("APIMAP_TRUST_PROXY", false),
		RateLimitBurst:   getenvInt("APIMAP_RATE_LIMIT_BURST", 30),
		RateLimitPerMin:  getenvInt("APIMAP_RATE_LIMIT_PER_MIN", 120),
		CORSAllowOrigins: splitAndTrim(getenv("APIMAP_CORS_ORIGINS", "")),
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// Validate reports values that make the server unusable. A missing API URL
// is deliberately not an error here: the probe harness reports it.
func (c *Config) Validate() error {
	var errs []error
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("APIMAP_SHUTDOWN_TIMEOUT must be > 0, got %v", c.ShutdownTimeout))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("APIMAP_REQUEST_TIMEOUT must be > 0, got %v", c.RequestTimeout))
	}
	if c.ProbeTimeout <= 0 {
		errs = append(errs, fmt.Errorf("APIMAP_PROBE_TIMEOUT must be > 0, got %v", c.ProbeTimeout))
	}
	if c.ProbeRate < 0 {
		errs = append(errs, fmt.Errorf("APIMAP_PROBE_RATE must be >= 0, got %v", c.ProbeRate))
	}
	if c.ProbeInterval < 0 {
		errs = append(errs, fmt.Errorf("APIMAP_PROBE_INTERVAL must be >= 0, got %v", c.ProbeInterval))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("APIMAP_SESSION_TTL must be > 0, got %v", c.SessionTTL))
	}
	if c.SessionID == "" {
		errs = append(errs, errors.New("APIMAP_SESSION_ID must not be empty"))
	}
	if c.WebSocketURL != "" {
		if u, err := url.Parse(c.WebSocketURL); err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
			errs = append(errs, fmt.Errorf("APIMAP_WS_URL must be a ws:// or wss:// URL, got %q", c.WebSocketURL))
		}
	}
	return errors.Join(errs...)
}

// RedisEnabled reports whether sessions should be kept in Redis.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// RealtimeURL returns the websocket base, deriving it from the API URL
// (http -> ws, https -> wss, host root) when not set explicitly.
func (c *Config) RealtimeURL() string {
	if c.WebSocketURL != "" {
		return ensureTrailingSlash(c.WebSocketURL)
	}
	if c.APIURL == "" {
		return ""
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Host == "" {
		return ""
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/"
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// helpers
func lookupAPIURL() (string, string) {
	for _, key := range []string{EnvViteAPIURL, EnvAPIURL} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v, key
		}
	}
	return "", ""
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

func ensureTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}
