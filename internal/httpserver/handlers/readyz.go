package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/apimap/internal/httpserver/deps"
	"github.com/MrSnakeDoc/apimap/internal/httpserver/respond"
	"github.com/MrSnakeDoc/apimap/internal/logger"
)

type readyzResponse struct {
	Ready  bool     `json:"ready"`
	Issues []string `json:"issues,omitempty"`
}

// Readyz reports whether the server can serve dashboard traffic: a backend
// base URL is configured and the session store answers.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var issues []string
		if d.APIURL == "" {
			issues = append(issues, "API base URL is not configured")
		}
		if d.Sessions != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			err := d.Sessions.Ping(ctx)
			cancel()
			if err != nil {
				d.Logger.Warn("session store not ready", logger.Error(err))
				issues = append(issues, "session store unavailable")
			}
		}

		status := http.StatusOK
		if len(issues) > 0 {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(w, status, readyzResponse{Ready: len(issues) == 0, Issues: issues})
	}
}
