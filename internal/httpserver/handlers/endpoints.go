package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/apimap/internal/endpoint"
	"github.com/MrSnakeDoc/apimap/internal/errs"
	"github.com/MrSnakeDoc/apimap/internal/httpserver/deps"
	"github.com/MrSnakeDoc/apimap/internal/httpserver/respond"
	"github.com/MrSnakeDoc/apimap/internal/transform"
)

const maxTransformBody = 8 << 20

type endpointsResponse struct {
	Base     string           `json:"base"`
	Families []endpoint.Key   `json:"families"`
	Entries  []endpoint.Entry `json:"entries"`
}

// Endpoints lists the endpoint table.
func Endpoints(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table := d.Resolver.Table()
		respond.JSON(w, http.StatusOK, endpointsResponse{
			Base:     table.Base(),
			Families: endpoint.Families,
			Entries:  table.Entries(),
		})
	}
}

type resolveResponse struct {
	endpoint.Resolution
	Resource transform.Resource `json:"resource"`
}

// Resolve maps ?path= to a backend URL.
func Resolve(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimSpace(r.URL.Query().Get("path"))
		if path == "" {
			respond.Error(w, d.Logger, errs.NewBadRequest(errors.New("missing path"), "query parameter 'path' is required"))
			return
		}
		res := d.Resolver.Resolve(path)
		respond.JSON(w, http.StatusOK, resolveResponse{
			Resolution: res,
			Resource:   transform.ResourceFromHint(string(res.Key)),
		})
	}
}

type transformResponse struct {
	Resource transform.Resource `json:"resource"`
	Data     any                `json:"data"`
}

// Transform reshapes the JSON body for ?hint= or ?resource=. An unknown hint
// returns the body unchanged; an unknown resource name is rejected.
func Transform(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, appErr := transformTarget(r)
		if appErr != nil {
			respond.Error(w, d.Logger, appErr)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxTransformBody))
		if err != nil {
			respond.Error(w, d.Logger, errs.NewBadRequest(err, "failed to read body"))
			return
		}
		raw, err := transform.Decode(body)
		if err != nil {
			respond.Error(w, d.Logger, errs.NewBadRequest(err, "body must be a single JSON document"))
			return
		}

		respond.JSON(w, http.StatusOK, transformResponse{
			Resource: target,
			Data:     d.Registry.Transform(raw, target),
		})
	}
}

func transformTarget(r *http.Request) (transform.Resource, *errs.AppError) {
	q := r.URL.Query()
	hint := strings.TrimSpace(q.Get("hint"))
	name := strings.TrimSpace(q.Get("resource"))
	switch {
	case hint == "" && name == "":
		return transform.Unknown, errs.NewBadRequest(errors.New("missing hint"), "query parameter 'hint' or 'resource' is required")
	case hint != "" && name != "":
		return transform.Unknown, errs.NewBadRequest(errors.New("ambiguous target"), "use either 'hint' or 'resource', not both")
	case name != "":
		res, ok := transform.ParseResource(name)
		if !ok {
			return transform.Unknown, errs.NewBadRequest(fmt.Errorf("unknown resource %q", name), "unknown resource")
		}
		return res, nil
	default:
		return transform.ResourceFromHint(hint), nil
	}
}
