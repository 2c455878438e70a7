package export

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Coordinate tolerance for snapping fragment endpoints, roughly 1 cm.
const mergeEps = 1e-7

func samePoint(a, b orb.Point) bool {
	return math.Abs(a[0]-b[0]) < mergeEps && math.Abs(a[1]-b[1]) < mergeEps
}

func reversed(line orb.LineString) orb.LineString {
	out := make(orb.LineString, len(line))
	for i, p := range line {
		out[len(line)-1-i] = p
	}

	return out
}

// mergeFragments chains edge geometries end-to-end, reversing pieces as
// needed. The result is one fragment per connected chain; topological gaps
// in the source data produce multiple fragments.
func mergeFragments(lines []orb.LineString) []orb.LineString {
	fragments := make([]orb.LineString, 0, len(lines))
	for _, line := range lines {
		if len(line) >= 2 {
			fragments = append(fragments, append(orb.LineString(nil), line...))
		}
	}

	for {
		joined := false
		for i := 0; i < len(fragments) && !joined; i++ {
			for j := i + 1; j < len(fragments); j++ {
				if merged, ok := joinPair(fragments[i], fragments[j]); ok {
					fragments[i] = merged
					fragments = append(fragments[:j], fragments[j+1:]...)
					joined = true

					break
				}
			}
		}
		if !joined {
			return fragments
		}
	}
}

// joinPair tries the four endpoint orientations of two fragments.
func joinPair(a, b orb.LineString) (orb.LineString, bool) {
	aStart, aEnd := a[0], a[len(a)-1]
	bStart, bEnd := b[0], b[len(b)-1]

	switch {
	case samePoint(aEnd, bStart):
		return append(a, b[1:]...), true
	case samePoint(aEnd, bEnd):
		return append(a, reversed(b)[1:]...), true
	case samePoint(aStart, bEnd):
		return append(b, a[1:]...), true
	case samePoint(aStart, bStart):
		return append(reversed(b), a[1:]...), true
	default:
		return nil, false
	}
}

// lineLength returns the arc length of a geographic line in meters.
func lineLength(line orb.LineString) float64 {
	var total float64
	for i := 1; i < len(line); i++ {
		total += geo.Distance(line[i-1], line[i])
	}

	return total
}

// longestFragment picks the fragment with the greatest arc length.
func longestFragment(fragments []orb.LineString) orb.LineString {
	var best orb.LineString
	bestLength := -1.0
	for _, fragment := range fragments {
		if length := lineLength(fragment); length > bestLength {
			best = fragment
			bestLength = length
		}
	}

	return best
}

// resample returns count points spaced at equal arc-length intervals along
// the line, including both endpoints. Interior points are interpolated
// linearly within their segment.
func resample(line orb.LineString, count int) []orb.Point {
	if len(line) < 2 || count < 2 {
		return nil
	}

	total := lineLength(line)
	if total <= 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		return nil
	}

	points := make([]orb.Point, 0, count)
	points = append(points, line[0])

	segment := 1
	walked := 0.0
	segmentLength := geo.Distance(line[0], line[1])

	for k := 1; k < count-1; k++ {
		target := total * float64(k) / float64(count-1)

		for walked+segmentLength < target && segment < len(line)-1 {
			walked += segmentLength
			segment++
			segmentLength = geo.Distance(line[segment-1], line[segment])
		}

		frac := 0.0
		if segmentLength > 0 {
			frac = (target - walked) / segmentLength
		}
		if frac > 1 {
			frac = 1
		}

		from, to := line[segment-1], line[segment]
		points = append(points, orb.Point{
			from[0] + (to[0]-from[0])*frac,
			from[1] + (to[1]-from[1])*frac,
		})
	}

	points = append(points, line[len(line)-1])

	return points
}
