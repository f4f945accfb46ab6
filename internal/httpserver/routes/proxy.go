package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/apimap/internal/httpserver/deps"
	"github.com/MrSnakeDoc/apimap/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/apimap/internal/httpserver/mw"
)

func init() { Register(registerProxy) }

func registerProxy(r chi.Router, d deps.Deps) {
	r.With(
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		mw.RateLimit(mw.RateLimitConfig{
			Burst:             d.RateLimitBurst,
			RefillPerIPPerMin: d.RateLimitPerMin,
			MaxEntries:        10000,
			TrustProxy:        d.TrustProxy,
			Logger:            d.Logger,
		}),
	).HandleFunc("/api/proxy/*", handlers.Proxy(d))
}
