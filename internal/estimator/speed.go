package estimator

import (
	"fmt"
	"math"

	"github.com/chrisdamba/traveltime/internal/models"
)

const (
	FallbackSpeedKmh = 25.0
	defaultBaseSpeed = 30.0
	maxWeatherEffect = 0.05
)

type speedRange struct {
	Min float64
	Max float64
}

type distanceTier int

const (
	tierShort distanceTier = iota
	tierMedium
	tierLong
)

var (
	baseSpeeds = map[distanceTier]map[models.RouteType]float64{
		tierShort: {
			models.RouteTypeITHub:       22,
			models.RouteTypeCommercial:  25,
			models.RouteTypeMixed:       23,
			models.RouteTypeResidential: 30,
		},
		tierMedium: {
			models.RouteTypeITHub:       28,
			models.RouteTypeCommercial:  32,
			models.RouteTypeMixed:       30,
			models.RouteTypeResidential: 35,
		},
		tierLong: {
			models.RouteTypeITHub:       35,
			models.RouteTypeCommercial:  40,
			models.RouteTypeMixed:       38,
			models.RouteTypeResidential: 45,
		},
	}

	speedEnvelopes = map[distanceTier]speedRange{
		tierShort:  {10, 40},
		tierMedium: {15, 50},
		tierLong:   {20, 60},
	}
)

func speedTier(distanceKm *float64) distanceTier {
	switch {
	case distanceKm == nil:
		return tierMedium
	case *distanceKm < 5:
		return tierShort
	case *distanceKm < 15:
		return tierMedium
	default:
		return tierLong
	}
}

// SpeedEnvelope returns the [min, max] speed in km/h allowed at the given
// wall-clock hour for a distance. A nil distance uses the medium tier.
func SpeedEnvelope(distanceKm *float64, hour int) (float64, float64) {
	env := speedEnvelopes[speedTier(distanceKm)]
	switch {
	case isNight(hour):
		env.Max *= 1.2
	case isSlowSpeedHour(hour):
		env.Max *= 0.8
	}
	return env.Min, env.Max
}

// AverageSpeed estimates the achievable speed in km/h for a route under the
// given traffic multiplier. distanceKm may be nil when unknown.
func (e *Estimator) AverageSpeed(trafficMultiplier float64, routeType models.RouteType, distanceKm *float64) (res Result) {
	defer recoverTo(&res, FallbackSpeedKmh, "average speed")

	if !finite(trafficMultiplier) || trafficMultiplier <= 0 {
		return fallback(FallbackSpeedKmh, fmt.Errorf("%w: %v", ErrInvalidMultiplier, trafficMultiplier))
	}
	if distanceKm != nil && !finite(*distanceKm) {
		return fallback(FallbackSpeedKmh, fmt.Errorf("%w: %v", ErrInvalidDistance, *distanceKm))
	}

	base, ok := baseSpeeds[speedTier(distanceKm)][routeType]
	if !ok {
		base = defaultBaseSpeed
	}
	speed := base / trafficMultiplier

	hour := e.clock().Hour()
	switch {
	case isNight(hour):
		speed *= 1.3
	case isSlowSpeedHour(hour):
		speed *= 0.7
	}

	// weather, until a real feed is wired in
	speed *= 1 + e.rng.Uniform(-maxWeatherEffect, maxWeatherEffect)

	minSpeed, maxSpeed := SpeedEnvelope(distanceKm, hour)
	return computed(round2(math.Max(minSpeed, math.Min(speed, maxSpeed))))
}
