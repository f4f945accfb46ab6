package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/apimap/internal/errs"
	"github.com/MrSnakeDoc/apimap/internal/httpserver/deps"
	"github.com/MrSnakeDoc/apimap/internal/httpserver/respond"
	"github.com/MrSnakeDoc/apimap/internal/logger"
)

type triggerResponse struct {
	Status string `json:"status"`
}

// RunProbes queues a manual probe run.
func RunProbes(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Probes.Trigger(); err != nil {
			d.Logger.Warn("probe run rejected",
				logger.String("remote_ip", r.RemoteAddr),
				logger.Error(err))
			w.Header().Set("Retry-After", "5")
			respond.Error(w, d.Logger, errs.NewTooManyRequests(err, "probe run already in progress"))
			return
		}

		d.Logger.Info("manual probe run triggered via endpoint",
			logger.String("remote_ip", r.RemoteAddr))
		respond.JSON(w, http.StatusAccepted, triggerResponse{Status: "accepted"})
	}
}

// LastProbes returns the last finished report.
func LastProbes(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, ok := d.Probes.Last()
		if !ok {
			respond.Error(w, d.Logger, errs.NewNotFound(errors.New("no report"), "no probe run has finished yet"))
			return
		}
		respond.JSON(w, http.StatusOK, report)
	}
}
