package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/apimap/internal/httpserver/deps"
	"github.com/MrSnakeDoc/apimap/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/apimap/internal/httpserver/mw"
)

func init() { Register(registerProbes) }

func registerProbes(r chi.Router, d deps.Deps) {
	guard := r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	)
	guard.Post("/api/probes/run", handlers.RunProbes(d))
	guard.Get("/api/probes/last", handlers.LastProbes(d))
}
