package factories

import (
	"math"
	"testing"

	"github.com/chrisdamba/traveltime/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *models.Config {
	return &models.Config{Seed: 7, CityLat: 12.9716, CityLon: 77.5946, UrbanRadius: 15}
}

func TestCreateRequestWithinCity(t *testing.T) {
	rf := NewRouteFactory(testConfig(), nil)
	latRange := 15 / kmPerDegree
	lonRange := latRange / math.Cos(12.9716*math.Pi/180.0)

	for i := 0; i < 200; i++ {
		req := rf.CreateRequest()
		require.NotNil(t, req.StartLocation)
		require.NotNil(t, req.DestLocation)
		for _, loc := range []*models.Location{req.StartLocation, req.DestLocation} {
			assert.True(t, loc.Valid())
			assert.LessOrEqual(t, math.Abs(loc.Lat-12.9716), latRange)
			assert.LessOrEqual(t, math.Abs(loc.Lon-77.5946), lonRange)
		}

		assert.Contains(t, models.Weekdays, req.DayOfWeek)
		assert.Len(t, req.DepartureTime, 5)
		_, err := models.RouteContext{DepartureTime: req.DepartureTime}.DepartureHour()
		assert.NoError(t, err)
		assert.NotEmpty(t, req.UserID)
	}
}

func TestCreateRequestSpreadsAroundCenter(t *testing.T) {
	rf := NewRouteFactory(testConfig(), nil)
	latRange := 15 / kmPerDegree

	const n = 1000
	var north, east, sumLat float64
	for i := 0; i < n; i++ {
		loc := rf.randomLocation()
		offset := loc.Lat - 12.9716
		sumLat += offset
		if offset > 0 {
			north++
		}
		if loc.Lon > 77.5946 {
			east++
		}
	}

	assert.InDelta(t, 0.5, north/n, 0.08)
	assert.InDelta(t, 0.5, east/n, 0.08)
	// a uniform offset in [-r, r] averages close to zero
	assert.InDelta(t, 0, sumLat/n, latRange*0.1)
}

func TestCreateRequestUsesNamedPlaces(t *testing.T) {
	rf := NewRouteFactory(testConfig(), []string{"mg road", "koramangala"})

	const n = 1000
	named, unset := 0, 0
	for i := 0; i < n; i++ {
		req := rf.CreateRequest()
		if req.StartLocation == nil {
			named++
			assert.NotEqual(t, req.StartPoint, req.Destination)
			assert.Contains(t, []string{"mg road", "koramangala"}, req.StartPoint)
		}
		if req.RouteType == models.RouteTypeUnset {
			unset++
		}
	}
	assert.InDelta(t, 500, named, 80)
	assert.InDelta(t, 100, unset, 50)
}

func TestCreateRequestSeeded(t *testing.T) {
	a := NewRouteFactory(testConfig(), []string{"mg road", "koramangala"})
	b := NewRouteFactory(testConfig(), []string{"mg road", "koramangala"})

	for i := 0; i < 20; i++ {
		ra, rb := a.CreateRequest(), b.CreateRequest()
		assert.Equal(t, ra.StartPoint, rb.StartPoint)
		assert.Equal(t, ra.Destination, rb.Destination)
		assert.Equal(t, ra.RouteType, rb.RouteType)
	}
}
