package estimator

import (
	"testing"
	"time"

	"github.com/chrisdamba/traveltime/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		predicted, typical float64
		want               models.TrafficLevel
	}{
		{20, 30, models.TrafficLight},
		{36, 30, models.TrafficLight},
		{37, 30, models.TrafficMedium},
		{45, 30, models.TrafficMedium},
		{46, 30, models.TrafficHeavy},
		{10, 0, models.TrafficLight},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.predicted, tt.typical), "%v/%v", tt.predicted, tt.typical)
	}
}

func TestCongestionAt(t *testing.T) {
	weekdayPeak := time.Date(2026, 10, 14, 8, 30, 0, 0, time.UTC)
	weekdayNoon := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	saturdayNoon := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, models.TrafficPeak, CongestionAt(40, 30, weekdayPeak))
	assert.Equal(t, models.TrafficLight, CongestionAt(39, 30, weekdayPeak))
	assert.Equal(t, models.TrafficLight, CongestionAt(60, 30, weekdayNoon))
	assert.Equal(t, models.TrafficNormal, CongestionAt(37, 30, saturdayNoon))
	assert.Equal(t, models.TrafficLight, CongestionAt(36, 30, saturdayNoon))

	// no baseline falls back to the default typical trip
	assert.Equal(t, models.TrafficPeak, CongestionAt(40, 0, weekdayPeak))
	assert.Equal(t, models.TrafficLight, CongestionAt(39, 0, weekdayPeak))
}
