package estimator

import (
	"math"
	"testing"

	"github.com/chrisdamba/traveltime/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var routeTypes = append([]models.RouteType{models.RouteTypeUnset, "Industrial"}, models.RouteTypes...)

func TestHaversine(t *testing.T) {
	assert.InDelta(t, 111.19, Haversine(models.Location{}, models.Location{Lon: 1}), 0.01)
	assert.InDelta(t, 4.95, Haversine(*loc(12.97, 77.59), *loc(12.93, 77.61)), 0.005)
	assert.Zero(t, Haversine(*loc(12.97, 77.59), *loc(12.97, 77.59)))
}

func TestRoadComplexity(t *testing.T) {
	e := NewEstimator(midSource{}, clockAt(12), nil)
	tests := []struct {
		distance  float64
		routeType models.RouteType
		want      float64
	}{
		{2, models.RouteTypeUnset, 1.5},
		{7, models.RouteTypeUnset, 1.45},
		{12, models.RouteTypeUnset, 1.4},
		{30, models.RouteTypeUnset, 1.35},
		{4.95, models.RouteTypeCommercial, 1.8},
		{4.95, models.RouteTypeITHub, 1.65},
		{8, models.RouteTypeResidential, 1.45 * 1.25},
		{20, models.RouteTypeMixed, 1.35 * 1.15},
		{20, "Industrial", 1.35},
	}
	for _, tt := range tests {
		got := e.RoadComplexity(tt.distance, tt.routeType)
		assert.False(t, got.UsedFallback())
		assert.InDelta(t, tt.want, got.Value, 1e-9, "%v km %q", tt.distance, tt.routeType)
	}
}

func TestRoadComplexityBonusShrinksWithDistance(t *testing.T) {
	e := NewEstimator(midSource{}, clockAt(12), nil)
	for _, rt := range routeTypes {
		prev := math.Inf(1)
		for _, d := range []float64{0, 4.99, 5, 9.99, 10, 14.99, 15, 100} {
			got := e.RoadComplexity(d, rt).Value
			assert.LessOrEqual(t, got, prev, "%q at %v km", rt, d)
			assert.GreaterOrEqual(t, got, 1.0)
			prev = got
		}
	}
}

func TestRoadComplexityFallback(t *testing.T) {
	e := NewEstimator(midSource{}, clockAt(12), nil)
	for _, d := range []float64{-1, math.NaN(), math.Inf(1)} {
		got := e.RoadComplexity(d, models.RouteTypeMixed)
		assert.True(t, got.UsedFallback())
		assert.ErrorIs(t, got.Fallback, ErrInvalidDistance)
		assert.Equal(t, 1.2, got.Value)
	}
}

func TestEstimateDistanceOffPeak(t *testing.T) {
	e := NewEstimator(fracSource{0.99}, clockAt(12), nil)
	got := e.EstimateDistance(loc(12.97, 77.59), loc(12.93, 77.61), models.RouteTypeCommercial)
	require.False(t, got.UsedFallback())
	assert.Equal(t, 8.91, got.Value)
}

func TestEstimateDistanceNeverBelowStraightLine(t *testing.T) {
	pairs := [][2]*models.Location{
		{loc(12.97, 77.59), loc(12.93, 77.61)},
		{loc(12.97, 77.59), loc(13.2, 77.7)},
		{loc(0, 0), loc(0, 1)},
		{loc(51.5, -0.12), loc(48.85, 2.35)},
		{loc(12.97, 77.59), loc(12.97, 77.59)},
	}
	for _, hour := range []int{3, 8, 12, 17} {
		for _, frac := range []float64{0, 0.5, 0.999} {
			e := NewEstimator(fracSource{frac}, clockAt(hour), nil)
			for _, p := range pairs {
				straight := math.Round(Haversine(*p[0], *p[1])*100) / 100
				for _, rt := range routeTypes {
					got := e.EstimateDistance(p[0], p[1], rt)
					require.False(t, got.UsedFallback())
					assert.GreaterOrEqual(t, got.Value, straight)
				}
			}
		}
	}
}

func TestEstimateDistanceDeterministicOffPeak(t *testing.T) {
	a := NewEstimator(fracSource{0}, clockAt(13), nil).EstimateDistance(loc(12.97, 77.59), loc(13.2, 77.7), models.RouteTypeMixed)
	b := NewEstimator(fracSource{0.9}, clockAt(13), nil).EstimateDistance(loc(12.97, 77.59), loc(13.2, 77.7), models.RouteTypeMixed)
	assert.Equal(t, a, b)
}

func TestEstimateDistancePeakJitterBounds(t *testing.T) {
	fixed := NewEstimator(fracSource{0}, clockAt(8), nil).EstimateDistance(loc(12.97, 77.59), loc(12.93, 77.61), models.RouteTypeCommercial)
	assert.Equal(t, 8.91, fixed.Value)

	free := NewEstimator(NewRandSource(), clockAt(8), nil)
	for i := 0; i < 200; i++ {
		got := free.EstimateDistance(loc(12.97, 77.59), loc(12.93, 77.61), models.RouteTypeCommercial)
		assert.GreaterOrEqual(t, got.Value, fixed.Value)
		assert.LessOrEqual(t, got.Value, fixed.Value*1.15+0.01)
	}
}

func TestEstimateDistanceMalformedInput(t *testing.T) {
	e := NewEstimator(midSource{}, clockAt(12), nil)
	tests := []struct {
		name        string
		start, dest *models.Location
	}{
		{"missing start", nil, loc(12.93, 77.61)},
		{"missing destination", loc(12.97, 77.59), nil},
		{"non-numeric", loc(math.NaN(), 77.59), loc(12.93, 77.61)},
		{"latitude out of range", loc(97, 77.59), loc(12.93, 77.61)},
		{"longitude out of range", loc(12.97, 77.59), loc(12.93, 277.61)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.EstimateDistance(tt.start, tt.dest, models.RouteTypeCommercial)
			assert.Equal(t, FallbackDistanceKm, got.Value)
			assert.ErrorIs(t, got.Fallback, ErrInvalidCoordinates)
		})
	}
}

func TestEstimateDistanceRecoversFromPanic(t *testing.T) {
	e := NewEstimator(panicSource{}, clockAt(8), nil)
	got := e.EstimateDistance(loc(12.97, 77.59), loc(12.93, 77.61), models.RouteTypeCommercial)
	assert.Equal(t, FallbackDistanceKm, got.Value)
	assert.ErrorIs(t, got.Fallback, ErrHeuristicPanic)
}
