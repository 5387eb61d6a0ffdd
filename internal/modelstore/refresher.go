package modelstore

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher forces a cache reload on a cron schedule, so long-running
// processes pick up a new artifact without waiting for a request.
type Refresher struct {
	cronScheduler *cron.Cron
	cache         *Cache
	spec          string
	jobID         cron.EntryID
	logger        *zap.Logger
}

func NewRefresher(cache *Cache, spec string, logger *zap.Logger) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{
		cronScheduler: cron.New(),
		cache:         cache,
		spec:          spec,
		logger:        logger,
	}
}

func (r *Refresher) Start(ctx context.Context) error {
	var err error
	r.jobID, err = r.cronScheduler.AddFunc(r.spec, func() {
		r.refresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule model refresh %q: %w", r.spec, err)
	}
	r.cronScheduler.Start()
	r.logger.Info("model refresh scheduled", zap.String("schedule", r.spec))
	return nil
}

func (r *Refresher) refresh(ctx context.Context) {
	if _, err := r.cache.Get(ctx, true); err != nil {
		r.logger.Error("scheduled model refresh failed", zap.Error(err))
	}
}

// Stop waits for a running refresh to finish.
func (r *Refresher) Stop() {
	<-r.cronScheduler.Stop().Done()
}
