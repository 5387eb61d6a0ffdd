package estimator

import (
	"time"

	"github.com/chrisdamba/traveltime/internal/models"
)

// midSource returns the midpoint of every range, so every symmetric jitter
// factor is exactly 1.0.
type midSource struct{}

func (midSource) Uniform(lo, hi float64) float64 { return (lo + hi) / 2 }

// fracSource returns the point frac of the way through every range.
type fracSource struct{ frac float64 }

func (s fracSource) Uniform(lo, hi float64) float64 { return lo + s.frac*(hi-lo) }

type panicSource struct{}

func (panicSource) Uniform(lo, hi float64) float64 { panic("entropy exhausted") }

// Wednesday 14 October 2026
func clockAt(hour int) func() time.Time {
	t := time.Date(2026, 10, 14, hour, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func loc(lat, lon float64) *models.Location {
	return &models.Location{Lat: lat, Lon: lon}
}

func ptr(f float64) *float64 { return &f }
