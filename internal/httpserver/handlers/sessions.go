package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/apimap/internal/errs"
	"github.com/MrSnakeDoc/apimap/internal/httpserver/deps"
	"github.com/MrSnakeDoc/apimap/internal/httpserver/respond"
	"github.com/MrSnakeDoc/apimap/internal/session"
)

const maxSessionValue = 64 << 10

type sessionValue struct {
	Key   session.Key `json:"key"`
	Value string      `json:"value"`
}

func sessionError(err error) error {
	switch {
	case errors.Is(err, session.ErrUnknownKey):
		return errs.NewBadRequest(err, err.Error())
	case errors.Is(err, session.ErrInvalidID):
		return errs.NewBadRequest(err, "invalid session id")
	default:
		return errs.NewInternalError(err)
	}
}

// GetSessionValue returns one value of a session.
func GetSessionValue(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := chi.URLParam(r, "sid")
		key, err := session.ParseKey(chi.URLParam(r, "key"))
		if err != nil {
			respond.Error(w, d.Logger, sessionError(err))
			return
		}

		v, ok, err := d.Sessions.Get(r.Context(), sid, key)
		if err != nil {
			respond.Error(w, d.Logger, sessionError(err))
			return
		}
		if !ok {
			respond.Error(w, d.Logger, errs.NewNotFound(errors.New("no value"), "session value not found"))
			return
		}
		respond.JSON(w, http.StatusOK, sessionValue{Key: key, Value: v})
	}
}

// PutSessionValue stores the raw request body as the value.
func PutSessionValue(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := chi.URLParam(r, "sid")
		key, err := session.ParseKey(chi.URLParam(r, "key"))
		if err != nil {
			respond.Error(w, d.Logger, sessionError(err))
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxSessionValue+1))
		if err != nil {
			respond.Error(w, d.Logger, errs.NewBadRequest(err, "failed to read body"))
			return
		}
		if len(body) > maxSessionValue {
			respond.Error(w, d.Logger, errs.NewBadRequest(errors.New("value too large"), "session value too large"))
			return
		}

		if err := d.Sessions.Set(r.Context(), sid, key, string(body)); err != nil {
			respond.Error(w, d.Logger, sessionError(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteSessionValue removes one value.
func DeleteSessionValue(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := chi.URLParam(r, "sid")
		key, err := session.ParseKey(chi.URLParam(r, "key"))
		if err != nil {
			respond.Error(w, d.Logger, sessionError(err))
			return
		}
		if err := d.Sessions.Delete(r.Context(), sid, key); err != nil {
			respond.Error(w, d.Logger, sessionError(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GetSession returns every value of a session.
func GetSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values, err := d.Sessions.All(r.Context(), chi.URLParam(r, "sid"))
		if err != nil {
			respond.Error(w, d.Logger, sessionError(err))
			return
		}
		respond.JSON(w, http.StatusOK, values)
	}
}

// ClearSession drops the whole session (logout).
func ClearSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Sessions.Clear(r.Context(), chi.URLParam(r, "sid")); err != nil {
			respond.Error(w, d.Logger, sessionError(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
