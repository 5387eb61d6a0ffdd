package estimator

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
)

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidDistance    = errors.New("invalid distance")
	ErrInvalidHour        = errors.New("invalid hour of day")
	ErrInvalidMultiplier  = errors.New("invalid traffic multiplier")
	ErrHeuristicPanic     = errors.New("heuristic panicked")
)

// Result is the outcome of a heuristic. When Fallback is non-nil, Value holds
// the documented default rather than a computed figure.
type Result struct {
	Value    float64
	Fallback error
}

func (r Result) UsedFallback() bool {
	return r.Fallback != nil
}

func computed(v float64) Result {
	return Result{Value: v}
}

func fallback(v float64, err error) Result {
	return Result{Value: v, Fallback: err}
}

// recoverTo turns a panic inside a heuristic into a fallback result.
func recoverTo(res *Result, def float64, name string) {
	if r := recover(); r != nil {
		*res = fallback(def, fmt.Errorf("%w: %s: %v", ErrHeuristicPanic, name, r))
	}
}

func (e *Estimator) logFallback(name string, r Result) {
	if r.UsedFallback() {
		e.logger.Warn("heuristic fell back to default",
			zap.String("heuristic", name),
			zap.Float64("value", r.Value),
			zap.Error(r.Fallback),
		)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
