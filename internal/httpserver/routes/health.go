package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/apimap/internal/httpserver/deps"
	"github.com/MrSnakeDoc/apimap/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/apimap/internal/httpserver/mw"
)

func init() { Register(registerHealth) }

// registerHealth mounts liveness, readiness and the infra overview.
// Only infra is restricted; orchestrators must reach the other two.
func registerHealth(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
	r.Get("/readyz", handlers.Readyz(d))
	r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)).Get("/infra", handlers.Infra(d))
}
