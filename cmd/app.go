package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/chrisdamba/traveltime/internal/estimator"
	"github.com/chrisdamba/traveltime/internal/geocode"
	"github.com/chrisdamba/traveltime/internal/models"
	"github.com/chrisdamba/traveltime/internal/modelstore"
	"github.com/chrisdamba/traveltime/internal/output"
	"github.com/chrisdamba/traveltime/internal/repositories/postgres"
	"github.com/chrisdamba/traveltime/internal/service"
	"go.uber.org/zap"
)

// app is the wired object graph shared by the subcommands.
type app struct {
	config    *models.Config
	cache     *modelstore.Cache
	gazetteer *geocode.Gazetteer
	service   *service.TravelService
	sink      output.Destination
	refresher *modelstore.Refresher
	logger    *zap.Logger
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := models.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)

	loader, err := modelstore.NewLoader(ctx, cfg)
	if err != nil {
		return nil, err
	}
	cache := modelstore.NewCache(loader, cfg.ModelRefreshInterval, time.Now, logger.Named("modelstore"))

	var rng estimator.Source
	if cfg.Seed != 0 {
		rng = estimator.NewSeededSource(cfg.Seed)
	}
	predictor := estimator.NewPredictor(cache, estimator.NewEstimator(rng, time.Now, logger.Named("estimator")), cfg.TypicalMinutes)

	a := &app{config: cfg, cache: cache, gazetteer: geocode.NewGazetteer(cfg.Places), logger: logger}

	dest, err := output.NewDestination(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create output: %w", err)
	}
	sinks := []output.Destination{dest}

	opts := []service.Option{service.WithLogger(logger.Named("service"))}
	if cfg.Database.Enabled() {
		pool, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			dest.Close()
			return nil, err
		}
		repo := postgres.NewPredictionRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			dest.Close()
			return nil, err
		}
		sinks = append(sinks, output.NewPostgresOutput(repo, pool.Close))
		opts = append(opts, service.WithHistory(repo))
	}
	a.sink = output.NewMultiOutput(sinks...)
	opts = append(opts, service.WithRecorder(service.NewRecorder(a.sink, cfg.KafkaTopic, logger.Named("recorder"))))

	a.service = service.NewTravelService(predictor, a.gazetteer, opts...)
	return a, nil
}

// startRefresher schedules forced model reloads when a cron spec is set.
func (a *app) startRefresher(ctx context.Context) error {
	if a.config.ModelRefreshCron == "" {
		return nil
	}
	a.refresher = modelstore.NewRefresher(a.cache, a.config.ModelRefreshCron, a.logger.Named("refresher"))
	return a.refresher.Start(ctx)
}

func (a *app) Close() {
	if a.refresher != nil {
		a.refresher.Stop()
	}
	if err := a.sink.Close(); err != nil {
		a.logger.Error("error closing output", zap.Error(err))
	}
	_ = a.logger.Sync()
}
