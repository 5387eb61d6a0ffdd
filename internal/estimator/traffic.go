package estimator

import (
	"fmt"

	"github.com/chrisdamba/traveltime/internal/models"
)

const (
	neutralMultiplier   = 1.0
	defaultRouteFactor  = 1.2
	maxTrafficVariation = 0.1
)

var routeCongestion = map[models.RouteType]float64{
	models.RouteTypeITHub:       1.3,
	models.RouteTypeCommercial:  1.2,
	models.RouteTypeMixed:       1.25,
	models.RouteTypeResidential: 1.1,
}

// TrafficMultiplier derives the congestion factor for a trip. Values above
// 1 mean slower than free flow. The result is not clamped.
func (e *Estimator) TrafficMultiplier(hour int, dayOfWeek string, routeType models.RouteType, distanceKm float64) (res Result) {
	defer recoverTo(&res, neutralMultiplier, "traffic multiplier")

	if hour < 0 || hour > 23 {
		return fallback(neutralMultiplier, fmt.Errorf("%w: %d", ErrInvalidHour, hour))
	}
	if !finite(distanceKm) || distanceKm < 0 {
		return fallback(neutralMultiplier, fmt.Errorf("%w: %v", ErrInvalidDistance, distanceKm))
	}

	multiplier := trafficBase(hour, dayOfWeek, routeType, distanceKm)
	multiplier *= 1 + e.rng.Uniform(-maxTrafficVariation, maxTrafficVariation)
	return computed(multiplier)
}

// trafficBase is the deterministic part of the multiplier.
func trafficBase(hour int, dayOfWeek string, routeType models.RouteType, distanceKm float64) float64 {
	multiplier := 1.0

	// short routes have more stops and turns, long ones use highways
	switch {
	case distanceKm < 5:
		multiplier *= 1.3
	case distanceKm < 10:
		multiplier *= 1.2
	case distanceKm < 15:
		multiplier *= 1.1
	}

	morningPeak := isMorningPeak(hour)
	eveningPeak := isEveningPeak(hour)
	peak := morningPeak || eveningPeak
	weekend := models.IsWeekendDay(dayOfWeek)
	short := distanceKm < 10

	switch {
	case peak && weekend:
		if short {
			multiplier += 0.4
		} else {
			multiplier += 0.3
		}
	case peak:
		if short {
			multiplier += 0.9
		} else {
			multiplier += 0.7
		}
	case isNight(hour):
		multiplier -= 0.4
	case weekend:
		if short {
			multiplier += 0.3
		} else {
			multiplier += 0.2
		}
	}

	if factor, ok := routeCongestion[routeType]; ok {
		multiplier *= factor
	} else {
		multiplier *= defaultRouteFactor
	}

	switch {
	case morningPeak:
		multiplier *= 1.2
	case eveningPeak:
		multiplier *= 1.3
	}

	return multiplier
}
