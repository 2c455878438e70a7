package export

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"
	"strings"

	"corridor/internal/sweep"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
)

// WriteRoutesCSV writes one row per exported route: id, length, covered
// weight, start/end coordinates, waypoints and the full WKT line geometry.
func WriteRoutesCSV(path string, routes []Route) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create routes file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"route_id", "length_m", "weight",
		"start_lon", "start_lat", "end_lon", "end_lat",
		"waypoints", "geometry",
	}
	if err := writer.Write(header); err != nil {
		return errors.WithStack(err)
	}

	for _, route := range routes {
		start := route.Waypoints[0]
		end := route.Waypoints[len(route.Waypoints)-1]

		record := []string{
			strconv.Itoa(route.ID),
			formatFloat(route.Length),
			formatFloat(route.Weight),
			formatCoord(start[0]), formatCoord(start[1]),
			formatCoord(end[0]), formatCoord(end[1]),
			formatWaypoints(route.Waypoints),
			wkt.MarshalString(route.Line),
		}
		if err := writer.Write(record); err != nil {
			return errors.WithStack(err)
		}
	}

	writer.Flush()

	return errors.WithStack(writer.Error())
}

// WriteSweepCSV writes the sweep results table, one row per (cell, metric).
// Infeasible cells keep their rows with an empty coverage value so missing
// results stay enumerable.
func WriteSweepCSV(path string, cells []sweep.Cell) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create sweep file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"max_length_m", "route_count", "metric", "coverage_pct", "timed_out"}
	if err := writer.Write(header); err != nil {
		return errors.WithStack(err)
	}

	for _, cell := range cells {
		rows := []struct {
			metric   string
			coverage float64
		}{
			{"population", cell.PopulationCoverage},
			{"length", cell.LengthCoverage},
		}

		for _, row := range rows {
			record := []string{
				formatFloat(cell.MaxLength),
				strconv.Itoa(cell.Budget),
				row.metric,
				formatCoverage(row.coverage),
				strconv.FormatBool(cell.TimedOut),
			}
			if err := writer.Write(record); err != nil {
				return errors.WithStack(err)
			}
		}
	}

	writer.Flush()

	return errors.WithStack(writer.Error())
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func formatCoverage(v float64) string {
	if math.IsNaN(v) {
		return ""
	}

	return strconv.FormatFloat(v*100, 'f', 3, 64)
}

func formatWaypoints(points []orb.Point) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = formatCoord(p[0]) + " " + formatCoord(p[1])
	}

	return strings.Join(parts, ";")
}
