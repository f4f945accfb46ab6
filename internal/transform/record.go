package transform

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is one backend JSON object as decoded by encoding/json.
// Accessors never fail: a missing, null or mistyped field yields the
// supplied default.
type Record map[string]any

// first returns the first non-nil value among keys.
func (r Record) first(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Raw returns the value as-is (ids may be numbers or strings).
func (r Record) Raw(keys ...string) any {
	v, _ := r.first(keys...)
	return v
}

// String reads a string field. Numbers and booleans are formatted.
func (r Record) String(def string, keys ...string) string {
	v, ok := r.first(keys...)
	if !ok {
		return def
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return def
	}
}

// Float reads a numeric field; numeric strings are accepted.
func (r Record) Float(def float64, keys ...string) float64 {
	v, ok := r.first(keys...)
	if !ok {
		return def
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return def
}

// Int reads a numeric field and truncates it.
func (r Record) Int(def int64, keys ...string) int64 {
	v, ok := r.first(keys...)
	if !ok {
		return def
	}
	if f, ok := toFloat(v); ok {
		return int64(f)
	}
	return def
}

// Bool reads a boolean field; "true"/"1" style strings are accepted.
func (r Record) Bool(def bool, keys ...string) bool {
	v, ok := r.first(keys...)
	if !ok {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return b
		}
	case float64:
		return t != 0
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f != 0
		}
	}
	return def
}

// Strings reads a list of scalars. A comma separated string is split.
// The result is never nil.
func (r Record) Strings(keys ...string) []string {
	v, ok := r.first(keys...)
	if !ok {
		return []string{}
	}
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			switch s := item.(type) {
			case string:
				out = append(out, s)
			case nil:
			default:
				out = append(out, fmt.Sprint(s))
			}
		}
		return out
	case []string:
		return append([]string{}, t...)
	case string:
		out := []string{}
		for _, part := range strings.Split(t, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return []string{}
}

// List reads an array field as a shallow copy. The result is never nil.
func (r Record) List(keys ...string) []any {
	v, ok := r.first(keys...)
	if !ok {
		return []any{}
	}
	if list, ok := v.([]any); ok {
		return append([]any{}, list...)
	}
	return []any{}
}

// Object reads a nested object as a shallow copy. The result is never nil.
func (r Record) Object(keys ...string) map[string]any {
	v, ok := r.first(keys...)
	if !ok {
		return map[string]any{}
	}
	out := map[string]any{}
	if obj, ok := v.(map[string]any); ok {
		for k, item := range obj {
			out[k] = item
		}
	}
	return out
}

// Nested returns a nested object as a Record, or nil.
func (r Record) Nested(key string) Record {
	if obj, ok := r[key].(map[string]any); ok {
		return Record(obj)
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}
