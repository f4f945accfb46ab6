package endpoint

import (
	"strings"
)

// Kind tells how a logical path was turned into a URL.
type Kind int

const (
	// Mapped is an exact table hit.
	Mapped Kind = iota
	// Rewritten applied a family rule, e.g. "users/42" -> "auth/users/42/".
	Rewritten
	// Fallback is the best-effort base + path concatenation.
	Fallback
)

func (k Kind) String() string {
	switch k {
	case Mapped:
		return "mapped"
	case Rewritten:
		return "rewritten"
	default:
		return "fallback"
	}
}

// MarshalText lets Kind render as its name in JSON and YAML.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Resolution is the outcome of resolving a logical path.
type Resolution struct {
	// Key is the cleaned logical path (no leading slash, no query).
	Key  Key    `json:"key" yaml:"key"`
	URL  string `json:"url" yaml:"url"`
	Kind Kind   `json:"kind" yaml:"kind"`
}

// IsFallback reports whether the URL came from plain concatenation.
func (r Resolution) IsFallback() bool {
	return r.Kind == Fallback
}

// Resolver turns logical paths into backend URLs. It never fails: unknown
// paths degrade to base + path.
type Resolver struct {
	table *Table
}

// NewResolver creates a resolver over a prebuilt table.
func NewResolver(table *Table) *Resolver {
	return &Resolver{table: table}
}

// Table exposes the underlying table.
func (r *Resolver) Table() *Table {
	return r.table
}

// URL is a shortcut for Resolve(path).URL.
func (r *Resolver) URL(logicalPath string) string {
	return r.Resolve(logicalPath).URL
}

// Resolve maps a logical path to a URL.
func (r *Resolver) Resolve(logicalPath string) Resolution {
	path := strings.TrimPrefix(logicalPath, "/")

	path, query := splitQuery(path)
	key := Key(path)

	res := r.resolvePath(key)
	if query != "" {
		res.URL += "?" + query
	}
	return res
}

func (r *Resolver) resolvePath(key Key) Resolution {
	if u, ok := r.table.Lookup(key); ok {
		return Resolution{Key: key, URL: u, Kind: Mapped}
	}
	// "admin/users/" is the same route as "admin/users".
	if trimmed := Key(strings.TrimSuffix(string(key), "/")); trimmed != key {
		if u, ok := r.table.Lookup(trimmed); ok {
			return Resolution{Key: trimmed, URL: u, Kind: Mapped}
		}
	}

	if strings.Contains(string(key), "/") {
		if u, ok := r.rewrite(key); ok {
			return Resolution{Key: key, URL: u, Kind: Rewritten}
		}
	}

	return Resolution{Key: key, URL: r.table.Base() + string(key), Kind: Fallback}
}

// rewrite applies the family rule to "family/rest..." and
// "admin/family/rest...".
func (r *Resolver) rewrite(key Key) (string, bool) {
	parts := strings.Split(string(key), "/")
	family, rest := Key(parts[0]), parts[1:]

	if family == AdminPrefix && len(rest) > 1 {
		family, rest = Key(rest[0]), rest[1:]
	}
	if !IsFamily(family) {
		return "", false
	}

	tail := strings.Trim(strings.Join(rest, "/"), "/")
	if tail == "" {
		return "", false
	}

	collection, ok := r.table.Lookup(family)
	if !ok {
		return "", false
	}
	return ensureSlash(collection) + tail + "/", true
}

func splitQuery(path string) (string, string) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, ""
}

func ensureSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}
