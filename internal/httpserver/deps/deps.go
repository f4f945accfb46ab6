package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/apimap/internal/endpoint"
	"github.com/MrSnakeDoc/apimap/internal/gateway"
	"github.com/MrSnakeDoc/apimap/internal/harness"
	"github.com/MrSnakeDoc/apimap/internal/logger"
	"github.com/MrSnakeDoc/apimap/internal/session"
	"github.com/MrSnakeDoc/apimap/internal/transform"
)

// Prober is the probe scheduler as seen by handlers.
type Prober interface {
	Trigger() error
	Running() bool
	Last() (*harness.Report, bool)
}

// Proxy forwards a logical call to the backend.
type Proxy interface {
	Do(ctx context.Context, call gateway.Call) (*gateway.Response, error)
}

// Realtime exposes websocket channel flags.
type Realtime interface {
	Configured() bool
	Status() map[string]bool
}

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	AllowedHosts     []string // Host headers allowed to access the server
	AllowedCIDRS     []string // IPs allowed to trigger probe runs
	TrustProxy       bool     // true if running behind a trusted reverse proxy
	RateLimitBurst   int      // proxy burst per client IP
	RateLimitPerMin  int      // proxy refill per client IP per minute
	CORSAllowOrigins []string // dashboard origins, empty => any

	APIURL         string              // backend base URL, empty when unset
	Resolver       *endpoint.Resolver  // logical path -> backend URL
	Registry       *transform.Registry // backend JSON -> view models
	Sessions       session.Store       // dashboard session values
	SessionBackend string              // "redis" | "memory"
	Realtime       Realtime            // nil when realtime is disabled
	Probes         Prober              // probe scheduler
	Gateway        Proxy               // backend proxy
}
