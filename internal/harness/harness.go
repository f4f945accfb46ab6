package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/MrSnakeDoc/apimap/internal/endpoint"
	"github.com/MrSnakeDoc/apimap/internal/logger"
	"github.com/MrSnakeDoc/apimap/internal/transform"
)

const defaultProbeTimeout = 10 * time.Second

// CoreEndpoints are probed in this order by RunAll.
var CoreEndpoints = []endpoint.Key{
	"admin/users",
	"admin/providers",
	"admin/drivers",
	"admin/jobs",
	"admin/requests",
	"admin/payments",
	"admin/vehicles",
	"admin/smart-bins",
	"admin/analytics",
}

// Channels exposes the websocket connection flags to the harness.
type Channels interface {
	Configured() bool
	Channels() []string
	Status() map[string]bool
}

// Probe is one named check. Check may return an error or panic; both are
// recorded as a failed result. Network probes get a deadline and are paced.
type Probe struct {
	Name    string
	Network bool
	Check   func(ctx context.Context) (Result, error)
}

type Options struct {
	BaseURL       string // backend API root, may be empty
	BaseURLSource string // env var BaseURL came from, for messages
	Resolver      *endpoint.Resolver
	Registry      *transform.Registry
	Realtime      Channels                     // nil => not configured
	Token         func(context.Context) string // session token, may be nil
	Client        Doer                         // defaults to NewHTTPClient(Timeout)
	Timeout       time.Duration                // per network probe
	Rate          float64                      // network probes per second, 0 => unpaced
	Endpoints     []endpoint.Key               // defaults to CoreEndpoints
	Logger        logger.Logger
}

// Harness runs probes strictly one after the other against a live backend.
type Harness struct {
	opts    Options
	limiter *rate.Limiter
	log     logger.Logger
	now     func() time.Time
	probes  []Probe
}

// New builds a harness with the default probe list.
func New(opts Options) *Harness {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultProbeTimeout
	}
	if opts.Client == nil {
		opts.Client = NewHTTPClient(opts.Timeout)
	}
	if opts.Registry == nil {
		opts.Registry = transform.NewRegistry()
	}
	if opts.Resolver == nil {
		opts.Resolver = endpoint.NewResolver(endpoint.NewTable(opts.BaseURL, nil))
	}
	if len(opts.Endpoints) == 0 {
		opts.Endpoints = CoreEndpoints
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	h := &Harness{
		opts: opts,
		log:  opts.Logger.Named("harness"),
		now:  time.Now,
	}
	if opts.Rate > 0 {
		h.limiter = rate.NewLimiter(rate.Limit(opts.Rate), 1)
	}
	h.probes = h.defaultProbes()
	return h
}

// Probes returns a copy of the default probe list.
func (h *Harness) Probes() []Probe {
	return append([]Probe(nil), h.probes...)
}

// RunAll runs the default probes.
func (h *Harness) RunAll(ctx context.Context) *Report {
	return h.Run(ctx, h.probes)
}

// Run executes probes in order and aggregates their results. A failing or
// panicking probe never stops the ones after it.
func (h *Harness) Run(ctx context.Context, probes []Probe) *Report {
	report := &Report{
		RunID:     uuid.New(),
		StartedAt: h.now(),
		Results:   make([]Result, 0, len(probes)),
	}
	log := h.log.With(logger.String("run_id", report.RunID.String()))
	log.Info("probe run started", logger.Int("probes", len(probes)))

	start := time.Now()
	for _, p := range probes {
		res := h.runProbe(ctx, p)
		fields := []logger.Field{
			logger.String("test", res.Test),
			logger.String("status", string(res.Status)),
			logger.String("message", res.Message),
			logger.Duration("duration", res.Duration),
		}
		if res.Status == StatusPass {
			log.Info("probe finished", fields...)
		} else {
			log.Warn("probe finished", fields...)
		}
		report.Results = append(report.Results, res)
	}

	report.Duration = time.Since(start)
	report.Summary, report.Overall = Aggregate(report.Results)
	log.Info("probe run finished",
		logger.String("overall", string(report.Overall)),
		logger.Int("passed", report.Summary.Passed),
		logger.Int("warnings", report.Summary.Warnings),
		logger.Int("failed", report.Summary.Failed),
		logger.Duration("duration", report.Duration))
	return report
}

func (h *Harness) runProbe(ctx context.Context, p Probe) (res Result) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			res = fail(fmt.Sprintf("probe panicked: %v", rec), nil)
		}
		res.Test = p.Name
		res.Duration = time.Since(start)
	}()

	if p.Network {
		if h.limiter != nil {
			if err := h.limiter.Wait(ctx); err != nil {
				return fail("probe not started: "+err.Error(), nil)
			}
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.Timeout)
		defer cancel()
	}

	r, err := p.Check(ctx)
	if err != nil {
		return fail(err.Error(), r.Details)
	}
	if r.Status.rank() == 0 {
		return fail("probe returned no status", r.Details)
	}
	return r
}
