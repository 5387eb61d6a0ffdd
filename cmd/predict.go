package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/chrisdamba/traveltime/internal/models"
	"github.com/chrisdamba/traveltime/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the travel time of one trip",
	Example: `  traveltime predict --from "MG Road" --to Koramangala --day Monday --time 08:30
  traveltime predict --from 12.97,77.59 --to 12.93,77.61 --route-type Commercial`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		resp, err := a.service.PredictTravelTime(cmd.Context(), predictRequest(cmd, time.Now()))
		if err != nil {
			return err
		}
		return writeJSON(resp)
	},
}

func init() {
	addPredictFlags(predictCmd.Flags())
	_ = predictCmd.MarkFlagRequired("from")
	_ = predictCmd.MarkFlagRequired("to")
}

func addPredictFlags(flags *pflag.FlagSet) {
	flags.String("from", "", "Start point: a known place or lat,lon")
	flags.String("to", "", "Destination: a known place or lat,lon")
	flags.String("day", "", "Day of week (default today)")
	flags.String("time", "", "Departure time HH:MM (default now)")
	flags.String("route-type", "", "IT Hub, Commercial, Mixed or Residential")
	flags.String("user", "", "User the prediction is recorded for")
}

func predictRequest(cmd *cobra.Command, now time.Time) service.Request {
	flags := cmd.Flags()
	from, _ := flags.GetString("from")
	to, _ := flags.GetString("to")
	day, _ := flags.GetString("day")
	departure, _ := flags.GetString("time")
	routeType, _ := flags.GetString("route-type")
	user, _ := flags.GetString("user")

	if day == "" {
		day = now.Weekday().String()
	}
	if departure == "" {
		departure = now.Format("15:04")
	}

	req := service.Request{
		UserID:        user,
		StartPoint:    from,
		Destination:   to,
		DayOfWeek:     day,
		DepartureTime: departure,
		RouteType:     models.RouteType(routeType),
	}
	if req.UserID == "" {
		req.UserID = os.Getenv("USER")
	}
	return req
}

func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
