package network

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/project"
	"github.com/pkg/errors"
)

// Projection identifiers accepted for segment geometry.
const (
	ProjectionWGS84       = "wgs84"
	ProjectionWebMercator = "webmercator"
)

// Segment is one raw road segment as produced by the upstream spatial ETL.
// Geometry is stored in geographic lon/lat regardless of the input projection.
type Segment struct {
	ID       int64          // Stable segment ID from the source data
	From     int64          // Endpoint node ID
	To       int64          // Endpoint node ID
	Lanes    int            // Lane count
	Class    string         // Road classification (primary, trunk, ...)
	Length   float64        // Segment length in meters
	Weight   float64        // Population sum attributed to the segment
	Geometry orb.LineString // Source geometry, lon/lat
}

// CSVLoader handles loading of road segments from CSV files
type CSVLoader struct {
	dataDir    string
	projection string
}

// NewCSVLoader creates a new CSV loader for the given data directory.
// projection selects how input geometry is interpreted; Web Mercator input
// is reprojected to WGS84 at load time.
func NewCSVLoader(dataDir, projection string) *CSVLoader {
	if projection == "" {
		projection = ProjectionWGS84
	}

	return &CSVLoader{dataDir: dataDir, projection: projection}
}

// Load loads all segments from segments.csv
// Expected CSV format: id,from,to,lanes,class,length_m,population,geometry
func (l *CSVLoader) Load() ([]Segment, error) {
	path := filepath.Join(l.dataDir, "segments.csv")
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// Skip header row
	if _, err := reader.Read(); err != nil {
		return nil, errors.WithStack(err)
	}

	var segments []Segment
	lineNum := 1 // Start at 1 because we skipped header

	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, errors.WithStack(readErr)
		}
		lineNum++

		if len(record) < 8 {
			return nil, errors.Errorf("invalid segments.csv format at line %d: expected 8 columns, got %d", lineNum, len(record))
		}

		segment, parseErr := l.parseSegment(record, lineNum)
		if parseErr != nil {
			return nil, parseErr
		}

		segments = append(segments, segment)
	}

	return segments, nil
}

func (l *CSVLoader) parseSegment(record []string, lineNum int) (Segment, error) {
	segmentID, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return Segment{}, errors.Wrapf(err, "segments.csv line %d: id", lineNum)
	}

	from, err := strconv.ParseInt(record[1], 10, 64)
	if err != nil {
		return Segment{}, errors.Wrapf(err, "segments.csv line %d: from", lineNum)
	}

	toNode, err := strconv.ParseInt(record[2], 10, 64)
	if err != nil {
		return Segment{}, errors.Wrapf(err, "segments.csv line %d: to", lineNum)
	}

	lanes, err := strconv.Atoi(record[3])
	if err != nil {
		return Segment{}, errors.Wrapf(err, "segments.csv line %d: lanes", lineNum)
	}

	length, err := strconv.ParseFloat(record[5], 64)
	if err != nil {
		return Segment{}, errors.Wrapf(err, "segments.csv line %d: length_m", lineNum)
	}
	if length < 0 {
		return Segment{}, errors.Errorf("segments.csv line %d: negative length %f", lineNum, length)
	}

	weight, err := strconv.ParseFloat(record[6], 64)
	if err != nil {
		return Segment{}, errors.Wrapf(err, "segments.csv line %d: population", lineNum)
	}

	geometry, err := l.parseGeometry(record[7])
	if err != nil {
		return Segment{}, errors.Wrapf(err, "segments.csv line %d: geometry", lineNum)
	}

	return Segment{
		ID:       segmentID,
		From:     from,
		To:       toNode,
		Lanes:    lanes,
		Class:    strings.ToLower(strings.TrimSpace(record[4])),
		Length:   length,
		Weight:   weight,
		Geometry: geometry,
	}, nil
}

func (l *CSVLoader) parseGeometry(raw string) (orb.LineString, error) {
	line, err := wkt.UnmarshalLineString(raw)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse WKT linestring")
	}

	if l.projection == ProjectionWebMercator {
		line = project.LineString(line, project.Mercator.ToWGS84)
	}

	return line, nil
}
