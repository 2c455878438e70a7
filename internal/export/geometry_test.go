package export

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pt is shorthand for a lon/lat point near the service area.
func pt(lon, lat float64) orb.Point {
	return orb.Point{lon, lat}
}

func TestMergeFragments_ChainsContiguousLines(t *testing.T) {
	merged := mergeFragments([]orb.LineString{
		{pt(44.500, 40.180), pt(44.501, 40.180)},
		{pt(44.501, 40.180), pt(44.502, 40.180)},
		{pt(44.502, 40.180), pt(44.503, 40.180)},
	})

	require.Len(t, merged, 1)
	assert.Len(t, merged[0], 4)
	assert.Equal(t, pt(44.500, 40.180), merged[0][0])
	assert.Equal(t, pt(44.503, 40.180), merged[0][3])
}

func TestMergeFragments_ReversesToJoin(t *testing.T) {
	// Second piece is digitized in the opposite direction.
	merged := mergeFragments([]orb.LineString{
		{pt(44.500, 40.180), pt(44.501, 40.180)},
		{pt(44.502, 40.180), pt(44.501, 40.180)},
	})

	require.Len(t, merged, 1)
	assert.Len(t, merged[0], 3)
	assert.Equal(t, pt(44.500, 40.180), merged[0][0])
	assert.Equal(t, pt(44.502, 40.180), merged[0][2])
}

func TestMergeFragments_GapLeavesTwoFragments(t *testing.T) {
	merged := mergeFragments([]orb.LineString{
		{pt(44.500, 40.180), pt(44.501, 40.180)},
		{pt(44.510, 40.180), pt(44.511, 40.180)},
	})

	assert.Len(t, merged, 2)
}

func TestMergeFragments_DropsDegenerateInput(t *testing.T) {
	merged := mergeFragments([]orb.LineString{
		{pt(44.500, 40.180)},
		nil,
	})

	assert.Empty(t, merged)
}

func TestLongestFragment(t *testing.T) {
	short := orb.LineString{pt(44.500, 40.180), pt(44.500, 40.181)}
	long := orb.LineString{pt(44.510, 40.180), pt(44.510, 40.185)}

	best := longestFragment([]orb.LineString{short, long})
	assert.Equal(t, long, best)
}

func TestResample_EqualArcSpacing(t *testing.T) {
	// A straight meridian run; arc length is effectively linear in latitude.
	line := orb.LineString{pt(44.500, 40.180), pt(44.500, 40.190)}

	points := resample(line, 5)
	require.Len(t, points, 5)

	assert.Equal(t, line[0], points[0])
	assert.Equal(t, line[1], points[4])
	for i, wantLat := range []float64{40.180, 40.1825, 40.185, 40.1875, 40.190} {
		assert.InDelta(t, 44.500, points[i][0], 1e-9)
		assert.InDelta(t, wantLat, points[i][1], 1e-5)
	}
}

func TestResample_MultiSegmentLine(t *testing.T) {
	line := orb.LineString{
		pt(44.500, 40.180),
		pt(44.500, 40.182),
		pt(44.500, 40.188),
		pt(44.500, 40.190),
	}

	points := resample(line, 6)
	require.Len(t, points, 6)
	assert.Equal(t, line[0], points[0])
	assert.Equal(t, line[len(line)-1], points[5])

	// Interior points land every 2 mdeg of latitude regardless of how the
	// source vertices are spaced.
	for i := 1; i < 5; i++ {
		assert.InDelta(t, 40.180+0.002*float64(i), points[i][1], 1e-5)
	}
}

func TestResample_DegenerateLines(t *testing.T) {
	assert.Nil(t, resample(orb.LineString{pt(44.5, 40.18)}, 5))
	assert.Nil(t, resample(orb.LineString{pt(44.5, 40.18), pt(44.501, 40.18)}, 1))

	// Zero arc length cannot be resampled.
	assert.Nil(t, resample(orb.LineString{pt(44.5, 40.18), pt(44.5, 40.18)}, 5))
}

func TestLineLength_MeridianDegree(t *testing.T) {
	// One millidegree of latitude is about 111.2 m.
	line := orb.LineString{pt(44.500, 40.180), pt(44.500, 40.181)}
	assert.InDelta(t, 111.2, lineLength(line), 1.5)
}
