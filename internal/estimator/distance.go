package estimator

import (
	"fmt"
	"math"

	"github.com/chrisdamba/traveltime/internal/models"
)

const (
	earthRadiusKm      = 6371.0
	FallbackDistanceKm = 10.0
	baseComplexity     = 1.2
	maxRerouteFactor   = 0.15
)

var areaComplexity = map[models.RouteType]float64{
	models.RouteTypeITHub:       1.1,  // more direct routes
	models.RouteTypeCommercial:  1.2,  // more intersections
	models.RouteTypeResidential: 1.25, // more turns and small roads
	models.RouteTypeMixed:       1.15,
}

// Haversine returns the great-circle distance between two points in km.
func Haversine(loc1, loc2 models.Location) float64 {
	lat1 := degreesToRadians(loc1.Lat)
	lon1 := degreesToRadians(loc1.Lon)
	lat2 := degreesToRadians(loc2.Lat)
	lon2 := degreesToRadians(loc2.Lon)

	dlat := lat2 - lat1
	dlon := lon2 - lon1
	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RoadComplexity converts straight-line distance into road distance. Short
// routes get a larger bonus because they have proportionally more turns.
func (e *Estimator) RoadComplexity(distanceKm float64, routeType models.RouteType) (res Result) {
	defer recoverTo(&res, baseComplexity, "road complexity")

	if !finite(distanceKm) || distanceKm < 0 {
		return fallback(baseComplexity, fmt.Errorf("%w: %v", ErrInvalidDistance, distanceKm))
	}

	complexity := baseComplexity + complexityBonus(distanceKm)
	if factor, ok := areaComplexity[routeType]; ok {
		complexity *= factor
	}
	return computed(complexity)
}

func complexityBonus(distanceKm float64) float64 {
	switch {
	case distanceKm < 5:
		return 0.3
	case distanceKm < 10:
		return 0.25
	case distanceKm < 15:
		return 0.2
	default:
		return 0.15
	}
}

// EstimateDistance approximates the road distance in km between two points.
// Missing or malformed coordinates yield FallbackDistanceKm.
func (e *Estimator) EstimateDistance(start, destination *models.Location, routeType models.RouteType) (res Result) {
	defer recoverTo(&res, FallbackDistanceKm, "distance")

	if start == nil || destination == nil {
		return fallback(FallbackDistanceKm, fmt.Errorf("%w: missing coordinate", ErrInvalidCoordinates))
	}
	if !start.Valid() || !destination.Valid() {
		return fallback(FallbackDistanceKm, fmt.Errorf("%w: %v -> %v", ErrInvalidCoordinates, *start, *destination))
	}

	straight := round2(Haversine(*start, *destination))

	complexity := e.RoadComplexity(straight, routeType)
	e.logFallback("road complexity", complexity)

	distance := straight * complexity.Value
	if isRerouteHour(e.clock().Hour()) {
		distance *= 1 + e.rng.Uniform(0, maxRerouteFactor)
	}

	return computed(round2(distance))
}
