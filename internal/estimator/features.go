package estimator

import (
	"fmt"
	"time"

	"github.com/chrisdamba/traveltime/internal/models"
)

const maxFeatureNoise = 0.05

// BuildFeatures assembles the model input for one trip. Calendar fields come
// from the wall clock, not from the requested day.
func (e *Estimator) BuildFeatures(route models.RouteContext, hour int, distanceKm, multiplier, speed float64) models.Features {
	now := e.clock()
	_, week := now.ISOWeek()

	weekend := boolToInt(models.IsWeekendDay(route.DayOfWeek))
	peak := boolToInt(isPeakHour(hour))

	return models.Features{
		DayOfWeek:         route.DayOfWeek,
		Month:             now.Month().String(),
		HourOfDay:         hour,
		IsWeekend:         weekend,
		IsPeakHour:        peak,
		TrafficMultiplier: multiplier,
		DistanceKm:        distanceKm,
		BaseSpeed:         speed,
		NoiseMultiplier:   1 + e.rng.Uniform(-maxFeatureNoise, maxFeatureNoise),
		IsMorning:         boolToInt(hour >= 6 && hour <= 12),
		IsEvening:         boolToInt(hour >= 16 && hour <= 20),
		IsNight:           boolToInt(isNight(hour)),
		TrafficDistance:   distanceKm * multiplier,
		SpeedKmh:          speed,
		// redundant with base_speed, kept for parity with the trained model
		TrafficSpeed:   speed / multiplier,
		WeekendTraffic: float64(weekend) * multiplier,
		PeakTraffic:    float64(peak) * multiplier,
		Quarter:        quarter(now),
		WeekOfYear:     week,
	}
}

func quarter(t time.Time) string {
	return fmt.Sprintf("Q%d", (int(t.Month())-1)/3+1)
}
