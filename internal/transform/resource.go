package transform

import (
	"strings"
)

// Resource identifies which transformer applies to a payload.
type Resource int

const (
	Unknown Resource = iota
	SmartBins
	Users
	Providers
	Drivers
	Jobs
	Requests
	Payments
	Vehicles
	Notifications
	Analytics
)

var resourceNames = map[Resource]string{
	Unknown:       "unknown",
	SmartBins:     "smart-bins",
	Users:         "users",
	Providers:     "providers",
	Drivers:       "drivers",
	Jobs:          "jobs",
	Requests:      "requests",
	Payments:      "payments",
	Vehicles:      "vehicles",
	Notifications: "notifications",
	Analytics:     "analytics",
}

// segmentResources maps a URL segment to its resource. Aliases live here too.
var segmentResources = map[string]Resource{
	"smart-bins":    SmartBins,
	"bins":          SmartBins,
	"users":         Users,
	"providers":     Providers,
	"drivers":       Drivers,
	"jobs":          Jobs,
	"requests":      Requests,
	"payments":      Payments,
	"vehicles":      Vehicles,
	"notifications": Notifications,
	"analytics":     Analytics,
	"dashboard":     Analytics,
	"stats":         Analytics,
}

func (r Resource) String() string {
	if name, ok := resourceNames[r]; ok {
		return name
	}
	return resourceNames[Unknown]
}

// MarshalText renders the resource by name.
func (r Resource) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// ParseResource returns the resource with the given name (or alias).
func ParseResource(name string) (Resource, bool) {
	r, ok := segmentResources[strings.ToLower(strings.TrimSpace(name))]
	return r, ok
}

// ResourceFromHint derives the resource from an endpoint hint such as
// "admin/smart-bins" or a full backend URL.
//
// Segments are scanned right to left, skipping identifiers, and the first
// known segment wins: "users/42/payments" is Payments, not Users.
func ResourceFromHint(hint string) Resource {
	if i := strings.IndexAny(hint, "?#"); i >= 0 {
		hint = hint[:i]
	}
	if i := strings.Index(hint, "://"); i >= 0 {
		hint = hint[i+3:]
	}

	segments := strings.Split(strings.ToLower(hint), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		seg := strings.TrimSpace(segments[i])
		if seg == "" || isIdentifier(seg) {
			continue
		}
		if r, ok := segmentResources[seg]; ok {
			return r
		}
	}
	return Unknown
}

// isIdentifier matches numeric ids and UUIDs.
func isIdentifier(seg string) bool {
	digits, hexOrDash := true, true
	for _, c := range seg {
		isDigit := c >= '0' && c <= '9'
		if !isDigit {
			digits = false
		}
		if !isDigit && !(c >= 'a' && c <= 'f') && c != '-' {
			hexOrDash = false
		}
	}
	return digits || (hexOrDash && len(seg) == 36)
}
