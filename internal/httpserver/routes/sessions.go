package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/apimap/internal/httpserver/deps"
	"github.com/MrSnakeDoc/apimap/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/apimap/internal/httpserver/mw"
)

func init() { Register(registerSessions) }

func registerSessions(r chi.Router, d deps.Deps) {
	s := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
	s.Get("/api/sessions/{sid}", handlers.GetSession(d))
	s.Delete("/api/sessions/{sid}", handlers.ClearSession(d))
	s.Get("/api/sessions/{sid}/{key}", handlers.GetSessionValue(d))
	s.Put("/api/sessions/{sid}/{key}", handlers.PutSessionValue(d))
	s.Delete("/api/sessions/{sid}/{key}", handlers.DeleteSessionValue(d))
}
