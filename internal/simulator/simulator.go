// Package simulator drives the travel service with generated or supplied
// trips and summarises what comes back.
package simulator

import (
	"context"
	"time"

	"github.com/chrisdamba/traveltime/internal/factories"
	"github.com/chrisdamba/traveltime/internal/models"
	"github.com/chrisdamba/traveltime/internal/service"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

type Simulator struct {
	Config  *models.Config
	Service TravelTimer
	Factory *factories.RouteFactory
	Bar     *progressbar.ProgressBar
}

func NewSimulator(config *models.Config, svc TravelTimer, factory *factories.RouteFactory) *Simulator {
	return &Simulator{Config: config, Service: svc, Factory: factory}
}

// Run predicts generated trips. With a zero interval all trips are
// generated up front and predicted on the worker pool. Otherwise one trip is
// predicted per tick until trips is reached, or until ctx is done when trips
// is zero.
func (s *Simulator) Run(ctx context.Context, trips int, interval time.Duration) (Stats, error) {
	logger := zap.L()
	logger.Info("simulation started", zap.Int("trips", trips), zap.Duration("interval", interval))
	defer logger.Info("simulation completed")

	if interval <= 0 {
		reqs := make([]service.Request, trips)
		for i := range reqs {
			reqs[i] = s.Factory.CreateRequest()
		}
		outcomes, err := RunBatch(ctx, s.Service, reqs, s.Config.Workers, s.Bar)
		return Summarize(outcomes), err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var outcomes []Outcome
	for trips == 0 || len(outcomes) < trips {
		select {
		case <-ctx.Done():
			return Summarize(outcomes), nil
		case <-ticker.C:
			req := s.Factory.CreateRequest()
			resp, err := s.Service.PredictTravelTime(ctx, req)
			if err != nil {
				logger.Warn("trip failed",
					zap.String("start_point", req.StartPoint),
					zap.String("destination", req.Destination),
					zap.Error(err),
				)
			}
			outcomes = append(outcomes, Outcome{Index: len(outcomes), Request: req, Response: resp, Err: err})
			if s.Bar != nil {
				_ = s.Bar.Add(1)
			}
			s.showProgress(outcomes)
		}
	}
	return Summarize(outcomes), nil
}

func (s *Simulator) showProgress(outcomes []Outcome) {
	if len(outcomes)%100 == 0 {
		zap.L().Info("trips simulated", zap.Int("count", len(outcomes)), zap.Stringer("stats", Summarize(outcomes)))
	}
}
