package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/apimap/internal/httpserver/deps"
	"github.com/MrSnakeDoc/apimap/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/apimap/internal/httpserver/mw"
)

func init() { Register(registerEndpoints) }

func registerEndpoints(r chi.Router, d deps.Deps) {
	api := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
	api.Get("/api/endpoints", handlers.Endpoints(d))
	api.Get("/api/resolve", handlers.Resolve(d))
	api.Post("/api/transform", handlers.Transform(d))
}
