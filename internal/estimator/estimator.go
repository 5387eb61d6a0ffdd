// Package estimator turns a route, a day and a departure time into a travel
// time. The heuristics in this package never fail: on bad input they return
// a documented default and report it through Result.Fallback. Only the
// Predictor, which needs the trained model, returns errors.
package estimator

import (
	"time"

	"go.uber.org/zap"
)

// Estimator holds the random source, wall clock and logger shared by the
// heuristics.
type Estimator struct {
	rng    Source
	clock  func() time.Time
	logger *zap.Logger
}

func NewEstimator(rng Source, clock func() time.Time, logger *zap.Logger) *Estimator {
	if rng == nil {
		rng = NewRandSource()
	}
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Estimator{rng: rng, clock: clock, logger: logger}
}

// hour windows, all bounds inclusive

func isMorningPeak(hour int) bool { return hour >= 7 && hour <= 10 }

func isEveningPeak(hour int) bool { return hour >= 17 && hour <= 20 }

func isPeakHour(hour int) bool { return isMorningPeak(hour) || isEveningPeak(hour) }

func isNight(hour int) bool { return hour <= 5 || hour >= 22 }

// drivers reroute around congestion in these windows
func isRerouteHour(hour int) bool {
	return (hour >= 7 && hour <= 10) || (hour >= 16 && hour <= 19)
}

// the speed tables slow down on a narrower set of hours
func isSlowSpeedHour(hour int) bool {
	switch hour {
	case 7, 8, 9, 17, 18, 19:
		return true
	}
	return false
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
