package cmd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chrisdamba/traveltime/internal/models"
	"github.com/chrisdamba/traveltime/internal/service"
	"github.com/chrisdamba/traveltime/internal/simulator"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var batchCmd = &cobra.Command{
	Use:   "batch <input.csv>",
	Short: "Predict every trip in a CSV file",
	Long: `batch reads trips from a CSV file with a header row. Recognised columns are
start_point, destination, day_of_week, departure_time, route_type and user_id;
the first four are required. Results are written as CSV to --out or stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		in, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		reqs, err := readRequests(in)
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		bar := progressbar.Default(int64(len(reqs)), "predicting")
		outcomes, err := simulator.RunBatch(cmd.Context(), a.service, reqs, a.config.Workers, bar)
		if err != nil {
			return err
		}

		out := io.Writer(os.Stdout)
		if path, _ := cmd.Flags().GetString("out"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		if err := writeOutcomes(out, outcomes); err != nil {
			return err
		}
		a.logger.Info("batch finished", zap.Stringer("stats", simulator.Summarize(outcomes)))
		return nil
	},
}

func init() {
	batchCmd.Flags().String("out", "", "Write results to this file instead of stdout")
}

var requiredColumns = []string{"start_point", "destination", "day_of_week", "departure_time"}

func readRequests(r io.Reader) ([]service.Request, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("missing header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var reqs []service.Request
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, service.Request{
			UserID:        field(row, "user_id"),
			StartPoint:    field(row, "start_point"),
			Destination:   field(row, "destination"),
			DayOfWeek:     field(row, "day_of_week"),
			DepartureTime: field(row, "departure_time"),
			RouteType:     models.RouteType(field(row, "route_type")),
		})
	}
	return reqs, nil
}

func writeOutcomes(w io.Writer, outcomes []simulator.Outcome) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{
		"start_point", "destination", "day_of_week", "departure_time",
		"predicted_time", "traffic_level", "distance_km", "error",
	}); err != nil {
		return err
	}
	for _, o := range outcomes {
		row := []string{o.Request.StartPoint, o.Request.Destination, o.Request.DayOfWeek, o.Request.DepartureTime, "", "", "", ""}
		if o.Err != nil {
			row[7] = o.Err.Error()
		} else {
			row[4] = strconv.Itoa(o.Response.PredictedTime)
			row[5] = string(o.Response.TrafficLevel)
			row[6] = strconv.FormatFloat(o.Response.DistanceKm, 'f', 2, 64)
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
