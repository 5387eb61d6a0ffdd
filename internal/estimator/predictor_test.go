package estimator

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/chrisdamba/traveltime/internal/models"
	"github.com/chrisdamba/traveltime/internal/modelstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubModel struct {
	out  float64
	err  error
	seen []models.Features
}

func (m *stubModel) Predict(ctx context.Context, features models.Features) (float64, error) {
	m.seen = append(m.seen, features)
	return m.out, m.err
}

func (m *stubModel) Version() string { return "stub" }

type stubProvider struct {
	model modelstore.Model
	err   error
	calls int
}

func (p *stubProvider) Get(ctx context.Context, forceRefresh bool) (*modelstore.Handle, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &modelstore.Handle{Model: p.model, LoadedAt: time.Now(), Generation: 1}, nil
}

func mondayCommute() models.RouteContext {
	return models.RouteContext{
		Start:         loc(12.97, 77.59),
		Destination:   loc(12.93, 77.61),
		DayOfWeek:     "Monday",
		DepartureTime: "08:00",
		RouteType:     models.RouteTypeCommercial,
	}
}

func newTestPredictor(model modelstore.Model, src Source, hour int) *Predictor {
	return NewPredictor(&stubProvider{model: model}, NewEstimator(src, clockAt(hour), nil), 30)
}

func TestPredictMondayMorningCommute(t *testing.T) {
	model := &stubModel{out: 40.3}
	p := newTestPredictor(model, midSource{}, 12)

	got, err := p.Predict(context.Background(), mondayCommute())
	require.NoError(t, err)

	// straight 4.95 km * complexity 1.8
	assert.Equal(t, 8.91, got.DistanceKm)
	// (1.2 + 0.9) * 1.2 * 1.2
	assert.InDelta(t, 3.024, got.TrafficMultiplier, 1e-9)
	// 32 / 3.024 clamped to 15
	assert.Equal(t, 15.0, got.BaseSpeed)

	minTime, maxTime := TimeBounds(got.DistanceKm)
	assert.InDelta(t, 11.88, minTime, 1e-9)
	assert.InDelta(t, 44.55, maxTime, 1e-9)
	assert.Equal(t, 8.5, IntersectionDelay(got.DistanceKm))

	// 40.3 is inside the bounds, plus 17 intersections
	assert.Equal(t, 49, got.Minutes)
	// 49 / 30 > 1.5
	assert.GreaterOrEqual(t, float64(got.Minutes), math.Round(minTime+8.5))
	assert.LessOrEqual(t, float64(got.Minutes), math.Round(maxTime+8.5))
	assert.Equal(t, models.TrafficHeavy, got.Level)
	assert.Equal(t, 30.0, got.TypicalMinutes)
	assert.Equal(t, "stub", got.ModelVersion)
	assert.Equal(t, mondayCommute(), got.Route)
}

func TestPredictBuildsFeatures(t *testing.T) {
	model := &stubModel{out: 30}
	_, err := newTestPredictor(model, midSource{}, 12).Predict(context.Background(), mondayCommute())
	require.NoError(t, err)
	require.Len(t, model.seen, 1)

	f := model.seen[0]
	assert.Equal(t, "Monday", f.DayOfWeek)
	assert.Equal(t, "October", f.Month)
	assert.Equal(t, "Q4", f.Quarter)
	assert.Equal(t, 42, f.WeekOfYear)
	assert.Equal(t, 8, f.HourOfDay)
	assert.Equal(t, 0, f.IsWeekend)
	assert.Equal(t, 1, f.IsPeakHour)
	assert.Equal(t, 1, f.IsMorning)
	assert.Equal(t, 0, f.IsEvening)
	assert.Equal(t, 0, f.IsNight)
	assert.Equal(t, 1.0, f.NoiseMultiplier)
	assert.InDelta(t, 8.91*3.024, f.TrafficDistance, 1e-9)
	assert.Equal(t, f.BaseSpeed, f.SpeedKmh)
	assert.InDelta(t, 15/3.024, f.TrafficSpeed, 1e-9)
	assert.Equal(t, 0.0, f.WeekendTraffic)
	assert.InDelta(t, 3.024, f.PeakTraffic, 1e-9)
}

func TestPredictClampsToRealisticBounds(t *testing.T) {
	tests := []struct {
		name     string
		modelOut float64
		want     int
	}{
		// 44.55 + 8.5
		{"too slow", 1000, 53},
		// 11.88 + 8.5
		{"too fast", 1, 20},
		{"negative", -15, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestPredictor(&stubModel{out: tt.modelOut}, midSource{}, 12).Predict(context.Background(), mondayCommute())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Minutes)
		})
	}
}

func TestPredictVariabilityWidth(t *testing.T) {
	// lowest jitter on a 8.91 km trip is 1 - 0.15
	got, err := newTestPredictor(&stubModel{out: 41}, fracSource{0}, 12).Predict(context.Background(), mondayCommute())
	require.NoError(t, err)
	// no reroute off peak
	assert.Equal(t, 8.91, got.DistanceKm)
	// 41 * 0.85 + 8.5 = 43.35
	assert.Equal(t, 43, got.Minutes)
}

func TestPredictIdempotentWithFixedRandomness(t *testing.T) {
	p := newTestPredictor(&stubModel{out: 33.3}, midSource{}, 8)
	first, err := p.Predict(context.Background(), mondayCommute())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := p.Predict(context.Background(), mondayCommute())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestPredictFreeRandomnessStaysInBounds(t *testing.T) {
	fixed, err := newTestPredictor(&stubModel{out: 30}, fracSource{0}, 8).Predict(context.Background(), mondayCommute())
	require.NoError(t, err)

	p := newTestPredictor(&stubModel{out: 30}, NewRandSource(), 8)
	for i := 0; i < 100; i++ {
		got, err := p.Predict(context.Background(), mondayCommute())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.DistanceKm, fixed.DistanceKm)
		assert.LessOrEqual(t, got.DistanceKm, fixed.DistanceKm*1.15+0.01)

		minTime, maxTime := TimeBounds(got.DistanceKm)
		delay := IntersectionDelay(got.DistanceKm)
		assert.GreaterOrEqual(t, float64(got.Minutes), math.Floor(minTime+delay))
		assert.LessOrEqual(t, float64(got.Minutes), math.Ceil(maxTime+delay))
	}
}

func TestPredictMissingCoordinatesUsesFallbackDistance(t *testing.T) {
	route := mondayCommute()
	route.Destination = nil

	got, err := newTestPredictor(&stubModel{out: 30}, midSource{}, 12).Predict(context.Background(), route)
	require.NoError(t, err)
	assert.Equal(t, FallbackDistanceKm, got.DistanceKm)
}

func TestPredictLogsHeuristicFallbacks(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	est := NewEstimator(midSource{}, clockAt(12), zap.New(core))
	p := NewPredictor(&stubProvider{model: &stubModel{out: 30}}, est, 30)

	route := mondayCommute()
	route.Destination = nil
	_, err := p.Predict(context.Background(), route)
	require.NoError(t, err)

	fallbacks := logs.FilterMessage("heuristic fell back to default").FilterField(zap.String("heuristic", "distance"))
	require.Equal(t, 1, fallbacks.Len())
	fields := fallbacks.All()[0].ContextMap()
	assert.Equal(t, FallbackDistanceKm, fields["value"])
	assert.Contains(t, fields["error"], ErrInvalidCoordinates.Error())

	logs.TakeAll()
	_, err = p.Predict(context.Background(), mondayCommute())
	require.NoError(t, err)
	assert.Zero(t, logs.Len())
}

func TestPredictFailures(t *testing.T) {
	boom := errors.New("boom")

	t.Run("model load", func(t *testing.T) {
		p := NewPredictor(&stubProvider{err: boom}, NewEstimator(midSource{}, clockAt(12), nil), 30)
		_, err := p.Predict(context.Background(), mondayCommute())
		assert.ErrorIs(t, err, ErrPrediction)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("departure time", func(t *testing.T) {
		route := mondayCommute()
		route.DepartureTime = "eight"
		_, err := newTestPredictor(&stubModel{out: 30}, midSource{}, 12).Predict(context.Background(), route)
		assert.ErrorIs(t, err, ErrPrediction)
		assert.ErrorIs(t, err, models.ErrInvalidDepartureTime)
	})

	t.Run("model invocation", func(t *testing.T) {
		_, err := newTestPredictor(&stubModel{err: boom}, midSource{}, 12).Predict(context.Background(), mondayCommute())
		assert.ErrorIs(t, err, ErrPrediction)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("non-finite model output", func(t *testing.T) {
		_, err := newTestPredictor(&stubModel{out: math.NaN()}, midSource{}, 12).Predict(context.Background(), mondayCommute())
		assert.ErrorIs(t, err, ErrPrediction)
	})
}

func TestPredictUsesCachedModelAcrossCalls(t *testing.T) {
	loads := 0
	loader := loaderFunc(func(ctx context.Context) (modelstore.Model, error) {
		loads++
		return &stubModel{out: 25}, nil
	})
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	cache := modelstore.NewCache(loader, 300*time.Second, clock, nil)
	p := NewPredictor(cache, NewEstimator(midSource{}, clock, nil), 30)

	_, err := p.Predict(context.Background(), mondayCommute())
	require.NoError(t, err)
	first, _ := cache.Get(context.Background(), false)

	now = now.Add(4 * time.Minute)
	_, err = p.Predict(context.Background(), mondayCommute())
	require.NoError(t, err)
	second, _ := cache.Get(context.Background(), false)
	assert.Same(t, first, second)
	assert.Equal(t, 1, loads)

	now = now.Add(2 * time.Minute)
	_, err = p.Predict(context.Background(), mondayCommute())
	require.NoError(t, err)
	assert.Equal(t, 2, loads)
	assert.Equal(t, uint64(2), cache.Generations())
}

type loaderFunc func(ctx context.Context) (modelstore.Model, error)

func (f loaderFunc) Load(ctx context.Context) (modelstore.Model, error) { return f(ctx) }

func TestTimeBoundsAndDelay(t *testing.T) {
	lo, hi := TimeBounds(3)
	assert.InDelta(t, 3.0/35*60, lo, 1e-9)
	assert.InDelta(t, 3.0/8*60, hi, 1e-9)
	lo, hi = TimeBounds(30)
	assert.InDelta(t, 30.0/55*60, lo, 1e-9)
	assert.InDelta(t, 30.0/15*60, hi, 1e-9)

	assert.Equal(t, 0.5, IntersectionDelay(0))
	assert.Equal(t, 0.5, IntersectionDelay(0.99))
	assert.Equal(t, 1.0, IntersectionDelay(1))
	assert.Equal(t, 10.0, IntersectionDelay(10.2))

	assert.Equal(t, 0.20, Variability(4.9))
	assert.Equal(t, 0.15, Variability(5))
	assert.Equal(t, 0.10, Variability(10))
}

func TestPredictNeverReturnsZeroMinutes(t *testing.T) {
	route := mondayCommute()
	route.Destination = route.Start

	got, err := newTestPredictor(&stubModel{out: 0}, midSource{}, 12).Predict(context.Background(), route)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.DistanceKm)
	assert.Equal(t, 1, got.Minutes)
}
