package endpoints

// File is the root structure of the endpoint overrides file.
//
//	endpoints:
//	  admin/reports: analytics/reports/
//	  admin/smart-bins: "{{IOT_HOST}}/bins/"
type File struct {
	// Endpoints maps logical keys to backend paths (relative to the base
	// URL) or absolute URLs.
	Endpoints map[string]string `yaml:"endpoints"`

	// Replaced lists keys that appeared more than once; the last value wins.
	Replaced []string `yaml:"-"`
}
