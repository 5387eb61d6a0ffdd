// Package service is the entry point for callers that start from place
// names: it resolves addresses, runs the predictor and records the result.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chrisdamba/traveltime/internal/estimator"
	"github.com/chrisdamba/traveltime/internal/geocode"
	"github.com/chrisdamba/traveltime/internal/models"
	"github.com/chrisdamba/traveltime/internal/repositories"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNoHistory      = errors.New("prediction history is not configured")
)

// Predictor is satisfied by *estimator.Predictor.
type Predictor interface {
	Predict(ctx context.Context, route models.RouteContext) (models.Prediction, error)
}

// Request is one travel time query. Explicit coordinates win over the
// address; an address is only resolved when its coordinates are missing.
type Request struct {
	UserID        string           `json:"user_id" validate:"max=64"`
	StartPoint    string           `json:"start_point" validate:"required_without=StartLocation"`
	Destination   string           `json:"destination" validate:"required_without=DestLocation"`
	StartLocation *models.Location `json:"start_location,omitempty"`
	DestLocation  *models.Location `json:"destination_location,omitempty"`
	DayOfWeek     string           `json:"day_of_week" validate:"required"`
	DepartureTime string           `json:"departure_time" validate:"required"`
	RouteType     models.RouteType `json:"route_type,omitempty"`
}

type Response struct {
	PredictedTime int                 `json:"predicted_time"`
	TrafficLevel  models.TrafficLevel `json:"traffic_level"`
	DistanceKm    float64             `json:"distance_km"`
	StartPoint    string              `json:"start_point"`
	Destination   string              `json:"destination"`
	DayOfWeek     string              `json:"day_of_week"`
	DepartureTime string              `json:"departure_time"`
	ModelVersion  string              `json:"model_version"`
}

// Snapshot is the live traffic state of a route at the current time.
type Snapshot struct {
	StartLocation models.Location     `json:"start_point"`
	DestLocation  models.Location     `json:"end_point"`
	TrafficLevel  models.TrafficLevel `json:"traffic_level"`
	PredictedTime int                 `json:"predicted_time"`
	CurrentTime   string              `json:"current_time"`
	DayOfWeek     string              `json:"day_of_week"`
}

type TravelService struct {
	predictor Predictor
	resolver  geocode.Resolver
	recorder  *Recorder
	history   repositories.PredictionRepository
	validate  *validator.Validate
	clock     func() time.Time
	logger    *zap.Logger
}

type Option func(*TravelService)

func WithRecorder(r *Recorder) Option {
	return func(s *TravelService) { s.recorder = r }
}

func WithHistory(repo repositories.PredictionRepository) Option {
	return func(s *TravelService) { s.history = repo }
}

func WithClock(clock func() time.Time) Option {
	return func(s *TravelService) { s.clock = clock }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *TravelService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewTravelService(predictor Predictor, resolver geocode.Resolver, opts ...Option) *TravelService {
	s := &TravelService{
		predictor: predictor,
		resolver:  resolver,
		validate:  validator.New(),
		clock:     time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PredictTravelTime validates the request, resolves missing coordinates,
// predicts and records the result. Recording never fails the call.
func (s *TravelService) PredictTravelTime(ctx context.Context, req Request) (Response, error) {
	if err := s.validate.Struct(req); err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	start, err := s.locate(ctx, req.StartLocation, req.StartPoint)
	if err != nil {
		return Response{}, fmt.Errorf("start point: %w", err)
	}
	dest, err := s.locate(ctx, req.DestLocation, req.Destination)
	if err != nil {
		return Response{}, fmt.Errorf("destination: %w", err)
	}

	prediction, err := s.predictor.Predict(ctx, models.RouteContext{
		Start:         &start,
		Destination:   &dest,
		DayOfWeek:     req.DayOfWeek,
		DepartureTime: req.DepartureTime,
		RouteType:     req.RouteType,
	})
	if err != nil {
		return Response{}, err
	}

	resp := Response{
		PredictedTime: prediction.Minutes,
		TrafficLevel:  prediction.Level,
		DistanceKm:    prediction.DistanceKm,
		StartPoint:    req.StartPoint,
		Destination:   req.Destination,
		DayOfWeek:     req.DayOfWeek,
		DepartureTime: req.DepartureTime,
		ModelVersion:  prediction.ModelVersion,
	}
	s.recorder.Record(req, start, dest, resp)
	return resp, nil
}

func (s *TravelService) locate(ctx context.Context, given *models.Location, address string) (models.Location, error) {
	if given != nil {
		return *given, nil
	}
	if s.resolver == nil {
		return models.Location{}, fmt.Errorf("%w: no resolver for %q", geocode.ErrLocationNotFound, address)
	}
	return s.resolver.Resolve(ctx, address)
}

// CurrentTraffic predicts a trip leaving now and labels the route's live
// congestion.
func (s *TravelService) CurrentTraffic(ctx context.Context, startPoint, destination string) (Snapshot, error) {
	if startPoint == "" || destination == "" {
		return Snapshot{}, fmt.Errorf("%w: missing start or destination", ErrInvalidRequest)
	}
	if s.resolver == nil {
		return Snapshot{}, fmt.Errorf("%w: no resolver configured", geocode.ErrLocationNotFound)
	}
	start, dest, err := geocode.ResolveRoute(ctx, s.resolver, startPoint, destination)
	if err != nil {
		return Snapshot{}, err
	}

	now := s.clock()
	day, departure := now.Weekday().String(), now.Format("15:04")
	prediction, err := s.predictor.Predict(ctx, models.RouteContext{
		Start:         &start,
		Destination:   &dest,
		DayOfWeek:     day,
		DepartureTime: departure,
	})
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		StartLocation: start,
		DestLocation:  dest,
		TrafficLevel:  estimator.CongestionAt(float64(prediction.Minutes), prediction.TypicalMinutes, now),
		PredictedTime: prediction.Minutes,
		CurrentTime:   departure,
		DayOfWeek:     day,
	}, nil
}

// History returns a user's past predictions, newest first.
func (s *TravelService) History(ctx context.Context, userID string, limit int) ([]*models.PredictionRecord, error) {
	if s.history == nil {
		return nil, ErrNoHistory
	}
	if limit <= 0 {
		limit = 50
	}
	records, err := s.history.ListByUser(ctx, userID, limit)
	if err != nil {
		s.logger.Error("failed to fetch prediction history", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("fetch prediction history: %w", err)
	}
	s.logger.Info("prediction history fetched", zap.String("user_id", userID), zap.Int("count", len(records)))
	return records, nil
}
