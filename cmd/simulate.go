package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/chrisdamba/traveltime/internal/factories"
	"github.com/chrisdamba/traveltime/internal/simulator"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Predict randomly generated trips around the configured city",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.startRefresher(ctx); err != nil {
			return err
		}

		trips, _ := cmd.Flags().GetInt("trips")
		interval, _ := cmd.Flags().GetDuration("interval")

		sim := simulator.NewSimulator(a.config, a.service, factories.NewRouteFactory(a.config, a.gazetteer.Names()))
		if trips > 0 {
			sim.Bar = progressbar.Default(int64(trips), "simulating")
		}

		stats, err := sim.Run(ctx, trips, interval)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		a.logger.Info("simulation summary", zap.Stringer("stats", stats))
		return nil
	},
}

func init() {
	simulateCmd.Flags().Int("trips", 100, "Number of trips to simulate (0 with --interval runs until interrupted)")
	simulateCmd.Flags().Duration("interval", 0, "Pause between trips; 0 predicts all trips at once")
}
