package simulator

import (
	"context"
	"sync"

	"github.com/chrisdamba/traveltime/internal/service"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TravelTimer is satisfied by *service.TravelService.
type TravelTimer interface {
	PredictTravelTime(ctx context.Context, req service.Request) (service.Response, error)
}

// Outcome is the result of one request. Err holds the prediction failure, if
// any; it does not stop the rest of the batch. Requests skipped because the
// batch was cancelled carry the context's error.
type Outcome struct {
	Index    int
	Request  service.Request
	Response service.Response
	Err      error
}

// RunBatch predicts every request on at most workers goroutines and returns
// one outcome per request in input order. Only cancellation of ctx aborts the
// batch.
func RunBatch(ctx context.Context, svc TravelTimer, reqs []service.Request, workers int, bar *progressbar.ProgressBar) ([]Outcome, error) {
	if workers < 1 {
		workers = 1
	}
	outcomes := make([]Outcome, len(reqs))
	ran := make([]bool, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var barMu sync.Mutex
	for i, req := range reqs {
		i, req := i, req
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resp, err := svc.PredictTravelTime(gctx, req)
			if err != nil {
				zap.L().Warn("request failed",
					zap.Int("index", i),
					zap.String("start_point", req.StartPoint),
					zap.String("destination", req.Destination),
					zap.Error(err),
				)
			}
			outcomes[i] = Outcome{Index: i, Request: req, Response: resp, Err: err}
			ran[i] = true

			if bar != nil {
				barMu.Lock()
				_ = bar.Add(1)
				barMu.Unlock()
			}
			return nil
		})
	}

	waitErr := g.Wait()
	if waitErr == nil {
		waitErr = ctx.Err()
	}
	// only cancellation leaves a request unrun, so waitErr is set here
	for i, req := range reqs {
		if !ran[i] {
			outcomes[i] = Outcome{Index: i, Request: req, Err: waitErr}
		}
	}
	return outcomes, waitErr
}
