package endpoint

import (
	"sort"
	"strings"
)

// Key is a logical resource path used by the dashboards, e.g. "admin/smart-bins".
type Key string

// Families are the resource collections that accept "family/{id}" rewrites.
var Families = []Key{
	"users",
	"providers",
	"drivers",
	"jobs",
	"requests",
	"payments",
	"vehicles",
	"smart-bins",
}

// AdminPrefix namespaces the dashboard's own route names.
const AdminPrefix = "admin"

// DefaultPaths maps logical keys to backend paths relative to the base URL.
// The backend follows Django conventions, hence the trailing slashes.
var DefaultPaths = map[Key]string{
	// Authentication
	"auth/login":   "auth/login/",
	"auth/logout":  "auth/logout/",
	"auth/profile": "auth/profile/",

	// Resource collections
	"users":         "auth/users/",
	"providers":     "providers/",
	"drivers":       "drivers/",
	"jobs":          "jobs/",
	"requests":      "requests/",
	"payments":      "payments/",
	"vehicles":      "vehicles/",
	"smart-bins":    "smart-bins/",
	"notifications": "notifications/",
	"analytics":     "analytics/overview/",

	// Admin dashboard
	"admin/dashboard":     "analytics/dashboard/",
	"admin/analytics":     "analytics/overview/",
	"admin/users":         "auth/users/",
	"admin/providers":     "providers/",
	"admin/drivers":       "drivers/",
	"admin/jobs":          "jobs/",
	"admin/requests":      "requests/",
	"admin/payments":      "payments/",
	"admin/vehicles":      "vehicles/",
	"admin/smart-bins":    "smart-bins/",
	"admin/notifications": "notifications/",
	"admin/settings":      "settings/",
}

// Table is the immutable key -> absolute URL mapping. It is built once at
// startup and shared by reference.
type Table struct {
	base    string
	entries map[Key]string
}

// NewTable builds a table from the default paths plus overrides. Override
// values may be relative paths (joined to base) or absolute http(s) URLs.
// A repeated key silently replaces the earlier value.
func NewTable(baseURL string, overrides map[Key]string) *Table {
	base := NormalizeBase(baseURL)
	entries := make(map[Key]string, len(DefaultPaths)+len(overrides))

	for k, p := range DefaultPaths {
		entries[k] = join(base, p)
	}
	for k, p := range overrides {
		entries[cleanKey(k)] = join(base, p)
	}

	return &Table{base: base, entries: entries}
}

// Base returns the normalized base URL ("" when unconfigured).
func (t *Table) Base() string {
	return t.base
}

// Lookup returns the mapped URL for an exact key.
func (t *Table) Lookup(k Key) (string, bool) {
	u, ok := t.entries[k]
	return u, ok
}

// Len returns the number of mapped keys.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entry is one row of the table.
type Entry struct {
	Key Key    `json:"key" yaml:"key"`
	URL string `json:"url" yaml:"url"`
}

// Entries returns all rows sorted by key.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for k, u := range t.entries {
		out = append(out, Entry{Key: k, URL: u})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// NormalizeBase trims whitespace and guarantees exactly one trailing slash.
// An empty input stays empty.
func NormalizeBase(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/"
}

// IsFamily reports whether k is a known resource family.
func IsFamily(k Key) bool {
	for _, f := range Families {
		if f == k {
			return true
		}
	}
	return false
}

func cleanKey(k Key) Key {
	return Key(strings.TrimPrefix(strings.TrimSpace(string(k)), "/"))
}

func join(base, path string) string {
	if isAbsolute(path) {
		return path
	}
	return base + strings.TrimPrefix(path, "/")
}

func isAbsolute(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
