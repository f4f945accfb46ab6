package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/apimap/internal/harness"
	"github.com/MrSnakeDoc/apimap/internal/httpserver/deps"
	"github.com/MrSnakeDoc/apimap/internal/httpserver/respond"
)

type componentStatus struct {
	OK      bool            `json:"ok"`
	Mode    string          `json:"mode,omitempty"`
	Detail  string          `json:"detail,omitempty"`
	Entries *int            `json:"entries,omitempty"`
	Status  map[string]bool `json:"status,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of every collaborator: backend configuration,
// endpoint table, session store, realtime channels and the last probe run.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"backend":  backendStatus(d),
			"table":    tableStatus(d),
			"sessions": sessionStatus(r.Context(), d),
			"realtime": realtimeStatus(d),
			"probes":   probeStatus(d),
		}
		respond.JSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

// determineMode is "critical" without a backend, "degraded" when an
// optional collaborator is down and "operational" otherwise.
func determineMode(components map[string]componentStatus) string {
	if !components["backend"].OK {
		return "critical"
	}
	for _, name := range []string{"sessions", "realtime", "probes"} {
		if c, ok := components[name]; ok && !c.OK {
			return "degraded"
		}
	}
	return "operational"
}

func backendStatus(d deps.Deps) componentStatus {
	if d.APIURL == "" {
		return componentStatus{OK: false, Error: "VITE_API_URL is not set"}
	}
	return componentStatus{OK: true, Detail: d.APIURL}
}

func tableStatus(d deps.Deps) componentStatus {
	if d.Resolver == nil {
		return componentStatus{OK: false, Error: "not initialized"}
	}
	n := d.Resolver.Table().Len()
	return componentStatus{OK: n > 0, Entries: &n}
}

func sessionStatus(ctx context.Context, d deps.Deps) componentStatus {
	if d.Sessions == nil {
		return componentStatus{OK: false, Error: "not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.Sessions.Ping(ctx); err != nil {
		return componentStatus{OK: false, Mode: d.SessionBackend, Error: "unreachable"}
	}
	return componentStatus{OK: true, Mode: d.SessionBackend}
}

func realtimeStatus(d deps.Deps) componentStatus {
	if d.Realtime == nil || !d.Realtime.Configured() {
		return componentStatus{OK: true, Mode: "disabled"}
	}
	status := d.Realtime.Status()
	for _, connected := range status {
		if !connected {
			return componentStatus{OK: false, Mode: "partial", Status: status}
		}
	}
	return componentStatus{OK: true, Mode: "connected", Status: status}
}

func probeStatus(d deps.Deps) componentStatus {
	if d.Probes == nil {
		return componentStatus{OK: true, Mode: "disabled"}
	}
	report, ok := d.Probes.Last()
	if !ok {
		mode := "idle"
		if d.Probes.Running() {
			mode = "running"
		}
		return componentStatus{OK: true, Mode: mode, Detail: "no run finished yet"}
	}
	return componentStatus{
		OK:     report.Overall != harness.StatusFail,
		Mode:   string(report.Overall),
		Detail: report.StartedAt.Format(time.RFC3339),
	}
}
