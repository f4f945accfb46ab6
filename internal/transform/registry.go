package transform

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Transformer maps one backend record to its view model. Implementations
// must be pure and must not fail on missing fields.
type Transformer func(Record) any

// Page is a transformed Django REST pagination envelope.
type Page struct {
	Count    int64 `json:"count" yaml:"count"`
	Next     any   `json:"next" yaml:"next"`
	Previous any   `json:"previous" yaml:"previous"`
	Results  []any `json:"results" yaml:"results"`
}

// Registry is the lookup table from resource to transformer.
type Registry struct {
	transformers map[Resource]Transformer
}

// NewRegistry returns a registry with every built-in transformer.
func NewRegistry() *Registry {
	g := &Registry{transformers: make(map[Resource]Transformer)}
	g.Register(SmartBins, smartBin)
	g.Register(Users, user)
	g.Register(Providers, provider)
	g.Register(Drivers, driver)
	g.Register(Jobs, job)
	g.Register(Requests, job)
	g.Register(Payments, payment)
	g.Register(Vehicles, vehicle)
	g.Register(Notifications, notification)
	g.Register(Analytics, analytics)
	return g
}

// Register installs or replaces the transformer for a resource.
func (g *Registry) Register(r Resource, fn Transformer) {
	g.transformers[r] = fn
}

// Has reports whether a transformer exists for r.
func (g *Registry) Has(r Resource) bool {
	_, ok := g.transformers[r]
	return ok
}

// TransformHint resolves the resource from an endpoint hint, then transforms.
func (g *Registry) TransformHint(raw any, hint string) any {
	return g.Transform(raw, ResourceFromHint(hint))
}

// Transform reshapes raw for resource r. Unknown resources and payloads that
// are neither objects nor arrays are returned unchanged. Array order is kept.
func (g *Registry) Transform(raw any, r Resource) any {
	fn, ok := g.transformers[r]
	if !ok {
		return raw
	}

	switch v := raw.(type) {
	case []any:
		return mapAll(v, fn)
	case map[string]any:
		if results, ok := v["results"].([]any); ok {
			return page(Record(v), results, fn)
		}
		return fn(Record(v))
	case Record:
		return g.Transform(map[string]any(v), r)
	default:
		return raw
	}
}

// Decode parses a single JSON document keeping numbers as float64 values.
// Anything but whitespace after the document is an error.
func Decode(data []byte) (any, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode json: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("failed to decode json: unexpected data after document")
	}
	return raw, nil
}

func mapAll(items []any, fn Transformer) []any {
	out := make([]any, len(items))
	for i, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out[i] = fn(Record(obj))
			continue
		}
		out[i] = item
	}
	return out
}

func page(envelope Record, results []any, fn Transformer) Page {
	return Page{
		Count:    envelope.Int(int64(len(results)), "count"),
		Next:     envelope.Raw("next"),
		Previous: envelope.Raw("previous"),
		Results:  mapAll(results, fn),
	}
}
