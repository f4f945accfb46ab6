package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/apimap/internal/gateway"
	"github.com/MrSnakeDoc/apimap/internal/httpserver/deps"
	"github.com/MrSnakeDoc/apimap/internal/httpserver/respond"
)

// Proxy forwards /api/proxy/<logical path> to the backend and answers with
// the transformed payload. The resolution and resource are reported in
// X-Apimap-Resolution and X-Apimap-Resource.
func Proxy(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := chi.URLParam(r, "*")
		if r.URL.RawQuery != "" {
			path += "?" + r.URL.RawQuery
		}

		call := gateway.Call{
			Method:      r.Method,
			Path:        path,
			ContentType: r.Header.Get("Content-Type"),
			Token:       bearerToken(r.Header.Get("Authorization")),
		}
		if r.ContentLength != 0 && r.Body != nil && r.Body != http.NoBody {
			call.Body = r.Body
		}

		resp, err := d.Gateway.Do(r.Context(), call)
		if err != nil {
			respond.Error(w, d.Logger, err)
			return
		}

		w.Header().Set("X-Apimap-Resolution", resp.Resolution.Kind.String())
		w.Header().Set("X-Apimap-Resource", resp.Resource.String())

		switch {
		case resp.Raw != nil:
			if resp.ContentType != "" {
				w.Header().Set("Content-Type", resp.ContentType)
			}
			w.WriteHeader(resp.Status)
			_, _ = w.Write(resp.Raw)
		case resp.Data == nil:
			w.WriteHeader(resp.Status)
		default:
			respond.JSON(w, resp.Status, resp.Data)
		}
	}
}

// bearerToken extracts the token from "Token <t>" or "Bearer <t>".
func bearerToken(header string) string {
	for _, scheme := range []string{"Token ", "Bearer "} {
		if strings.HasPrefix(header, scheme) {
			return strings.TrimSpace(header[len(scheme):])
		}
	}
	return ""
}
