package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/apimap/internal/config"
	"github.com/MrSnakeDoc/apimap/internal/endpoint"
	"github.com/MrSnakeDoc/apimap/internal/gateway"
	"github.com/MrSnakeDoc/apimap/internal/harness"
	"github.com/MrSnakeDoc/apimap/internal/httpserver"
	"github.com/MrSnakeDoc/apimap/internal/httpserver/deps"
	"github.com/MrSnakeDoc/apimap/internal/logger"
	"github.com/MrSnakeDoc/apimap/internal/realtime"
	"github.com/MrSnakeDoc/apimap/internal/redis"
	"github.com/MrSnakeDoc/apimap/internal/scheduler"
	"github.com/MrSnakeDoc/apimap/internal/session"
	"github.com/MrSnakeDoc/apimap/internal/sources/endpoints"
	"github.com/MrSnakeDoc/apimap/internal/transform"
	"github.com/MrSnakeDoc/apimap/internal/utils"
	"github.com/MrSnakeDoc/apimap/internal/version"
)

// Mapping bundles the endpoint table, its resolver and the transformer
// registry. It is all the offline CLI commands need.
type Mapping struct {
	Table    *endpoint.Table
	Resolver *endpoint.Resolver
	Registry *transform.Registry
}

// LoadMapping builds the endpoint table from the defaults plus the optional
// overrides file. Unusable override entries are logged and skipped; an
// unreadable file is an error.
func LoadMapping(cfg *config.Config, log logger.Logger) (*Mapping, error) {
	var overrides map[endpoint.Key]string
	if cfg.EndpointFile != "" {
		file, err := endpoints.NewLoader(cfg.EndpointFile).Load()
		if err != nil {
			return nil, err
		}
		var skipped []endpoints.Skipped
		overrides, skipped = endpoints.NewMapper().MapOverrides(file)
		for _, s := range skipped {
			log.Warn("endpoint override skipped",
				logger.String("key", s.Key),
				logger.String("reason", s.Reason))
		}
		log.Info("endpoint overrides loaded",
			logger.String("file", cfg.EndpointFile),
			logger.Int("count", len(overrides)))
	}

	table := endpoint.NewTable(cfg.APIURL, overrides)
	return &Mapping{
		Table:    table,
		Resolver: endpoint.NewResolver(table),
		Registry: transform.NewRegistry(),
	}, nil
}

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	mapping     *Mapping
	redisClient *goredis.Client
	sessions    session.Store
	backend     string
	hub         *realtime.Hub
	harness     *harness.Harness
	gateway     *gateway.Client
	probes      *scheduler.ProbeRunner
	keeper      *scheduler.RealtimeKeeper
	sweeper     *scheduler.SessionSweeper
	server      *httpserver.Server
}

// New wires every collaborator. Nothing runs in the background until Run.
// With Redis configured, New blocks until Redis answers or the connect
// timeout elapses.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.APIURL == "" {
		log.Warn("backend base URL is not set, probes will fail and the proxy is disabled")
	} else {
		log.Info("backend configured",
			logger.String("url", cfg.APIURL),
			logger.String("source", cfg.APIURLSource))
	}

	mapping, err := LoadMapping(cfg, log)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, logger: log, mapping: mapping}

	if cfg.RedisEnabled() {
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.Connect(ctx, redis.OptionsFromConfig(cfg), log)
		if err != nil {
			return nil, err
		}
		a.redisClient = client
		a.sessions = session.NewRedisStore(client, cfg.SessionTTL)
		a.backend = "redis"
	} else {
		mem := session.NewMemoryStore(cfg.SessionTTL)
		a.sessions = mem
		a.backend = "memory"
		a.sweeper = scheduler.NewSessionSweeper(mem, log, cfg.SessionSweepInterval)
	}
	log.Info("session store ready", logger.String("backend", a.backend))

	token := session.TokenFunc(a.sessions, cfg.SessionID, log)

	a.hub = realtime.NewHub(cfg.RealtimeURL(), cfg.WebSocketChannels, log)
	a.keeper = scheduler.NewRealtimeKeeper(a.hub, log, cfg.WebSocketRetry, cfg.ProbeTimeout)

	a.harness = harness.New(harness.Options{
		BaseURL:       cfg.APIURL,
		BaseURLSource: cfg.APIURLSource,
		Resolver:      mapping.Resolver,
		Registry:      mapping.Registry,
		Realtime:      a.hub,
		Token:         token,
		Timeout:       cfg.ProbeTimeout,
		Rate:          cfg.ProbeRate,
		Logger:        log,
	})
	a.probes = scheduler.NewProbeRunner(a.harness, log, cfg.ProbeInterval)

	a.gateway = gateway.New(mapping.Resolver, mapping.Registry, gateway.Options{
		Token:   token,
		Timeout: cfg.UpstreamTimeout,
		Logger:  log,
	})

	d := deps.Deps{
		Logger:           log,
		StartTime:        time.Now(),
		Version:          version.Version,
		Commit:           version.Commit,
		BuildDate:        version.BuildDate,
		GoVersion:        version.GoVersion,
		AllowedHosts:     cfg.AllowedHosts,
		AllowedCIDRS:     cfg.AllowedCIDRS,
		TrustProxy:       cfg.TrustProxy,
		RateLimitBurst:   cfg.RateLimitBurst,
		RateLimitPerMin:  cfg.RateLimitPerMin,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		APIURL:           cfg.APIURL,
		Resolver:         mapping.Resolver,
		Registry:         mapping.Registry,
		Sessions:         a.sessions,
		SessionBackend:   a.backend,
		Realtime:         a.hub,
		Probes:           a.probes,
		Gateway:          a.gateway,
	}
	a.server = httpserver.New(cfg, log, d)

	return a, nil
}

// Probe connects the realtime channels once, runs every probe and returns
// the report. It is the one-shot path used by the CLI.
func (a *App) Probe(ctx context.Context) (*harness.Report, error) {
	a.keeper.Connect(ctx)
	return a.probes.RunNow(ctx)
}

// SetToken stores the auth token of the configured session, as the admin
// dashboard does after login.
func (a *App) SetToken(ctx context.Context, token string) error {
	return a.sessions.Set(ctx, a.cfg.SessionID, session.KeyToken, token)
}

// Run starts the background loops and the HTTP server, then blocks until ctx
// is cancelled or the server fails. Shutdown is graceful.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting apimap v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	if a.sweeper != nil {
		a.sweeper.Start(ctx)
		a.logger.Info("session sweeper started",
			logger.Duration("interval", a.cfg.SessionSweepInterval))
	}

	a.keeper.Start(ctx)

	a.probes.Start(ctx)
	a.logger.Info("probe runner started",
		logger.Duration("interval", a.cfg.ProbeInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	a.probes.Stop()
	a.keeper.Stop()
	if a.sweeper != nil {
		a.sweeper.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	a.Close()
	if runErr == nil {
		a.logger.Info("✅ apimap stopped cleanly")
	}
	return runErr
}

// Close releases the websocket connections and the Redis client.
func (a *App) Close() {
	utils.CloseLogged(a.hub, "realtime", a.logger)
	if a.redisClient != nil {
		utils.CloseLogged(a.redisClient, "redis", a.logger)
	}
}
