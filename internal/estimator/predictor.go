package estimator

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/chrisdamba/traveltime/internal/models"
	"github.com/chrisdamba/traveltime/internal/modelstore"
	"go.uber.org/zap"
)

var ErrPrediction = errors.New("prediction failed")

const (
	intersectionSpacingKm = 0.5
	intersectionDelayMin  = 0.5
)

// ModelProvider hands out the current trained model.
type ModelProvider interface {
	Get(ctx context.Context, forceRefresh bool) (*modelstore.Handle, error)
}

type Predictor struct {
	*Estimator
	provider       ModelProvider
	typicalMinutes float64
}

func NewPredictor(provider ModelProvider, est *Estimator, typicalMinutes float64) *Predictor {
	if est == nil {
		est = NewEstimator(nil, nil, nil)
	}
	if typicalMinutes <= 0 {
		typicalMinutes = models.DefaultTypicalMinutes
	}
	return &Predictor{Estimator: est, provider: provider, typicalMinutes: typicalMinutes}
}

// Predict estimates the travel time for a route in whole minutes. Unlike the
// heuristics it calls, it does not degrade: any failure is returned wrapped in
// ErrPrediction.
func (p *Predictor) Predict(ctx context.Context, route models.RouteContext) (models.Prediction, error) {
	prediction, err := p.predict(ctx, route)
	if err != nil {
		p.logger.Error("prediction failed", zap.Error(err))
		return models.Prediction{}, fmt.Errorf("%w: %w", ErrPrediction, err)
	}
	return prediction, nil
}

func (p *Predictor) predict(ctx context.Context, route models.RouteContext) (models.Prediction, error) {
	handle, err := p.provider.Get(ctx, false)
	if err != nil {
		return models.Prediction{}, err
	}

	hour, err := route.DepartureHour()
	if err != nil {
		return models.Prediction{}, err
	}

	distance := p.EstimateDistance(route.Start, route.Destination, route.RouteType)
	p.logFallback("distance", distance)

	multiplier := p.TrafficMultiplier(hour, route.DayOfWeek, route.RouteType, distance.Value)
	p.logFallback("traffic multiplier", multiplier)

	speed := p.AverageSpeed(multiplier.Value, route.RouteType, &distance.Value)
	p.logFallback("average speed", speed)

	features := p.BuildFeatures(route, hour, distance.Value, multiplier.Value, speed.Value)

	base, err := handle.Model.Predict(ctx, features)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("model %s: %w", handle.Model.Version(), err)
	}
	if !finite(base) {
		return models.Prediction{}, fmt.Errorf("model %s returned %v", handle.Model.Version(), base)
	}

	minutes := p.adjust(base, distance.Value)
	p.logger.Info("final prediction",
		zap.Int("minutes", minutes),
		zap.Float64("distance_km", distance.Value),
		zap.String("model_version", handle.Model.Version()),
	)

	return models.Prediction{
		Minutes:           minutes,
		DistanceKm:        distance.Value,
		TrafficMultiplier: multiplier.Value,
		BaseSpeed:         speed.Value,
		Level:             LevelFor(float64(minutes), p.typicalMinutes),
		TypicalMinutes:    p.typicalMinutes,
		ModelVersion:      handle.Model.Version(),
		Route:             route,
	}, nil
}

// adjust turns the model's baseline into the final whole-minute figure:
// jitter, realistic bounds, then intersection delays.
func (p *Predictor) adjust(base, distanceKm float64) int {
	w := Variability(distanceKm)
	prediction := base * (1 + p.rng.Uniform(-w, w))

	minTime, maxTime := TimeBounds(distanceKm)
	prediction = math.Max(minTime, math.Min(prediction, maxTime))
	prediction += IntersectionDelay(distanceKm)

	minutes := int(math.RoundToEven(prediction))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// Variability is the half-width of the jitter applied to the model output.
// Short trips vary more.
func Variability(distanceKm float64) float64 {
	switch {
	case distanceKm < 5:
		return 0.20
	case distanceKm < 10:
		return 0.15
	default:
		return 0.10
	}
}

// TimeBounds returns the shortest and longest plausible trip in minutes.
func TimeBounds(distanceKm float64) (float64, float64) {
	var minSpeed, maxSpeed float64
	switch {
	case distanceKm < 5:
		minSpeed, maxSpeed = 8, 35
	case distanceKm < 15:
		minSpeed, maxSpeed = 12, 45
	default:
		minSpeed, maxSpeed = 15, 55
	}
	return distanceKm / maxSpeed * 60, distanceKm / minSpeed * 60
}

// IntersectionDelay assumes one intersection every 500m, at least one.
func IntersectionDelay(distanceKm float64) float64 {
	n := int(distanceKm / intersectionSpacingKm)
	if n < 1 {
		n = 1
	}
	return float64(n) * intersectionDelayMin
}
