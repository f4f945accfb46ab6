package endpoints

import (
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/apimap/internal/endpoint"
)

// Skipped describes an override entry that was ignored.
type Skipped struct {
	Key    string
	Reason string
}

// Mapper converts the overrides file into table overrides.
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapOverrides returns the usable entries and the ones it had to skip.
// Bad entries never fail the whole file.
func (m *Mapper) MapOverrides(file *File) (map[endpoint.Key]string, []Skipped) {
	overrides := make(map[endpoint.Key]string)
	var skipped []Skipped

	if file == nil {
		return overrides, nil
	}

	for _, key := range file.Replaced {
		skipped = append(skipped, Skipped{Key: key, Reason: "duplicate key, earlier value replaced"})
	}

	for rawKey, rawPath := range file.Endpoints {
		key := strings.TrimPrefix(strings.TrimSpace(rawKey), "/")
		path := strings.TrimSpace(rawPath)

		if key == "" {
			skipped = append(skipped, Skipped{Key: rawKey, Reason: "empty key"})
			continue
		}
		if path == "" {
			skipped = append(skipped, Skipped{Key: rawKey, Reason: "empty path"})
			continue
		}
		if strings.Contains(path, "://") {
			u, err := url.Parse(path)
			if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
				skipped = append(skipped, Skipped{Key: rawKey, Reason: "invalid absolute url"})
				continue
			}
		}

		overrides[endpoint.Key(key)] = path
	}

	return overrides, skipped
}
