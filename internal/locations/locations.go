// Package locations loads the static, configured set of monitored
// geographic points (§6). The set never changes at runtime — no dynamic
// topology (§1 non-goals).
package locations

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Location is one monitored geographic point.
type Location struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// Set is the immutable configured list of locations.
type Set struct {
	locations []Location
}

type fileFormat struct {
	Locations []Location `yaml:"locations"`
}

// Load reads and validates the location set from a YAML file shaped as:
//
//	locations:
//	  - name: Sudirman
//	    latitude: -6.2214
//	    longitude: 106.8236
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("locations: read %s: %w", path, err)
	}
	var doc fileFormat
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("locations: parse %s: %w", path, err)
	}
	return NewSet(doc.Locations)
}

// NewSet validates and wraps a slice of locations.
func NewSet(locs []Location) (*Set, error) {
	if len(locs) == 0 {
		return nil, fmt.Errorf("locations: set must not be empty")
	}
	seen := make(map[string]struct{}, len(locs))
	for _, l := range locs {
		if l.Name == "" {
			return nil, fmt.Errorf("locations: entry with empty name")
		}
		if _, dup := seen[l.Name]; dup {
			return nil, fmt.Errorf("locations: duplicate name %q", l.Name)
		}
		seen[l.Name] = struct{}{}
		if l.Latitude < -90 || l.Latitude > 90 {
			return nil, fmt.Errorf("locations: %s latitude %f out of range", l.Name, l.Latitude)
		}
		if l.Longitude < -180 || l.Longitude > 180 {
			return nil, fmt.Errorf("locations: %s longitude %f out of range", l.Name, l.Longitude)
		}
	}
	out := make([]Location, len(locs))
	copy(out, locs)
	return &Set{locations: out}, nil
}

// All returns the configured locations in their configured order.
func (s *Set) All() []Location {
	out := make([]Location, len(s.locations))
	copy(out, s.locations)
	return out
}

// Names returns just the location names, in configured order.
func (s *Set) Names() []string {
	out := make([]string, len(s.locations))
	for i, l := range s.locations {
		out[i] = l.Name
	}
	return out
}
