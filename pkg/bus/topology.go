package bus

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed routes.yaml
var defaultRoutesYAML []byte

// Stop is a physical stop. Directional stop ids are the code plus "U" or "D".
type Stop struct {
	Code   string `yaml:"code"`
	NameZH string `yaml:"name_zh"`
	NameEN string `yaml:"name_en"`
}

// Route is a shuttle route and the ordered list of directional stops it visits.
type Route struct {
	Code    string   `yaml:"code"`
	TitleZH string   `yaml:"title_zh"`
	TitleEN string   `yaml:"title_en"`
	Path    []string `yaml:"path"`
}

// Line is the colored line a route belongs to, taken from the code prefix.
func (r Route) Line() string {
	switch {
	case strings.HasPrefix(r.Code, "G"):
		return "green"
	case strings.HasPrefix(r.Code, "R"):
		return "red"
	default:
		return ""
	}
}

// Topology is the static, read-only route table.
type Topology struct {
	Stops  []Stop  `yaml:"stops"`
	Routes []Route `yaml:"routes"`
}

// RouteStop is a route that passes a stop, with the stop's position in the
// route path. The position is the column to read in that route's schedule rows.
type RouteStop struct {
	Route     Route
	StopIndex int
}

// DefaultTopology returns the built-in route table.
func DefaultTopology() (*Topology, error) {
	return LoadTopology(bytes.NewReader(defaultRoutesYAML))
}

// LoadTopologyFile reads a route table from a YAML file.
func LoadTopologyFile(path string) (*Topology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open topology file: %w", err)
	}
	defer f.Close()

	return LoadTopology(f)
}

// LoadTopology decodes and checks a YAML route table.
func LoadTopology(r io.Reader) (*Topology, error) {
	var t Topology
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to decode topology YAML: %w", err)
	}

	seen := make(map[string]bool)
	for _, route := range t.Routes {
		if route.Code == "" {
			return nil, fmt.Errorf("route without code in topology")
		}
		if seen[route.Code] {
			return nil, fmt.Errorf("duplicate route code %q in topology", route.Code)
		}
		seen[route.Code] = true
		if len(route.Path) == 0 {
			return nil, fmt.Errorf("route %q has an empty path", route.Code)
		}
	}

	return &t, nil
}

// RoutesThrough returns every route whose path contains stopID, in table order.
func (t *Topology) RoutesThrough(stopID string) []RouteStop {
	var out []RouteStop
	for _, route := range t.Routes {
		for i, s := range route.Path {
			if s == stopID {
				out = append(out, RouteStop{Route: route, StopIndex: i})
				break
			}
		}
	}
	return out
}

// RouteCodes returns the codes of the given route stops.
func RouteCodes(rs []RouteStop) []string {
	codes := make([]string, 0, len(rs))
	for _, r := range rs {
		codes = append(codes, r.Route.Code)
	}
	return codes
}

// Route looks a route up by code.
func (t *Topology) Route(code string) (Route, bool) {
	for _, r := range t.Routes {
		if r.Code == code {
			return r, true
		}
	}
	return Route{}, false
}

// StopFor resolves a directional stop id such as "A3U" to its physical stop.
func (t *Topology) StopFor(stopID string) (Stop, bool) {
	for _, s := range t.Stops {
		if strings.HasPrefix(stopID, s.Code) {
			return s, true
		}
	}
	return Stop{}, false
}

// StopIDs returns every directional stop id used by any route, in first-seen order.
func (t *Topology) StopIDs() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range t.Routes {
		for _, s := range r.Path {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// Uphill reports whether a directional stop id is on the uphill side.
func Uphill(stopID string) bool {
	return strings.HasSuffix(stopID, "U")
}
