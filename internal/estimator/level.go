package estimator

import (
	"time"

	"github.com/chrisdamba/traveltime/internal/models"
)

// LevelFor labels a prediction by how it compares with the typical time for
// the trip.
func LevelFor(predictedMinutes, typicalMinutes float64) models.TrafficLevel {
	if typicalMinutes <= 0 {
		return models.TrafficLight
	}
	ratio := predictedMinutes / typicalMinutes
	switch {
	case ratio > 1.5:
		return models.TrafficHeavy
	case ratio > 1.2:
		return models.TrafficMedium
	default:
		return models.TrafficLight
	}
}

// CongestionAt labels live traffic on a route at time now: peak when a peak
// hour trip runs 30% over typical, normal when a weekend trip runs 20% over.
func CongestionAt(predictedMinutes, typicalMinutes float64, now time.Time) models.TrafficLevel {
	if typicalMinutes <= 0 {
		typicalMinutes = models.DefaultTypicalMinutes
	}
	hour := now.Hour()
	weekend := now.Weekday() == time.Saturday || now.Weekday() == time.Sunday
	switch {
	case isPeakHour(hour) && predictedMinutes > typicalMinutes*1.3:
		return models.TrafficPeak
	case weekend && predictedMinutes > typicalMinutes*1.2:
		return models.TrafficNormal
	default:
		return models.TrafficLight
	}
}
