// Package export turns a final selection into geometric routes with evenly
// spaced waypoints and writes the tabular outputs consumed by the external
// visualization collaborators.
package export

import (
	"log/slog"

	"corridor/internal/candidate"
	"corridor/internal/coverage"
	"corridor/internal/network"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// DefaultWaypoints is the default number of interior waypoints per route.
const DefaultWaypoints = 8

// ErrDegenerateGeometry is returned when a route's merged line has zero or
// non-finite arc length.
var ErrDegenerateGeometry = errors.New("merged route geometry is degenerate")

// ErrShortResample is returned when waypoint resampling yields fewer points
// than requested.
var ErrShortResample = errors.New("waypoint resampling returned too few points")

// Route is one exported route: the merged line geometry of a selected
// candidate plus start, interior and end waypoints in lon/lat.
type Route struct {
	ID        int
	Candidate int // candidate pool index
	Length    float64
	Weight    float64
	Line      orb.LineString
	Waypoints []orb.Point // len = interior waypoints + 2
}

// Exporter converts selections into routes. Per-route geometry failures are
// logged and skipped; they never abort the batch.
type Exporter struct {
	waypoints int // interior waypoint count
	logger    *slog.Logger
}

// NewExporter creates an exporter producing nWaypoints interior waypoints
// per route, DefaultWaypoints when <= 0.
func NewExporter(nWaypoints int, logger *slog.Logger) *Exporter {
	if nWaypoints <= 0 {
		nWaypoints = DefaultWaypoints
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Exporter{waypoints: nWaypoints, logger: logger}
}

// BuildRoutes converts each selected candidate into a Route. The second
// return value lists the candidate indexes that were skipped, so failed
// routes stay enumerable post-hoc.
func (e *Exporter) BuildRoutes(g *network.Graph, paths []candidate.Path, selection coverage.Selection) ([]Route, []int) {
	routes := make([]Route, 0, len(selection.Candidates))
	var skipped []int

	for _, candidateIdx := range selection.Candidates {
		route, err := e.buildRoute(g, paths[candidateIdx], candidateIdx)
		if err != nil {
			e.logger.Warn("skipping route with unusable geometry",
				"candidate", candidateIdx,
				"error", err,
			)
			skipped = append(skipped, candidateIdx)

			continue
		}
		route.ID = len(routes)
		routes = append(routes, route)
	}

	return routes, skipped
}

func (e *Exporter) buildRoute(g *network.Graph, path candidate.Path, candidateIdx int) (Route, error) {
	lines := make([]orb.LineString, 0, len(path.Edges))
	for _, edge := range path.Edges {
		lines = append(lines, g.Edge(edge).Geometry)
	}

	fragments := mergeFragments(lines)
	if len(fragments) == 0 {
		return Route{}, errors.Wrapf(ErrDegenerateGeometry, "candidate %d has no line geometry", candidateIdx)
	}
	if len(fragments) > 1 {
		// Topological gap in the source geometry: keep the longest chain.
		e.logger.Warn("route geometry has gaps, keeping longest fragment",
			"candidate", candidateIdx,
			"fragments", len(fragments),
		)
	}

	line := longestFragment(fragments)
	length := lineLength(line)
	if length <= 0 {
		return Route{}, errors.Wrapf(ErrDegenerateGeometry, "candidate %d arc length %f", candidateIdx, length)
	}

	wantPoints := e.waypoints + 2
	waypoints := resample(line, wantPoints)
	if len(waypoints) < wantPoints {
		return Route{}, errors.Wrapf(ErrShortResample, "candidate %d got %d of %d points", candidateIdx, len(waypoints), wantPoints)
	}

	return Route{
		Candidate: candidateIdx,
		Length:    length,
		Weight:    path.Weight,
		Line:      line,
		Waypoints: waypoints,
	}, nil
}
