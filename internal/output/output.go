// Package output delivers prediction events to the configured destination.
package output

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chrisdamba/traveltime/internal/models"
)

var ErrMissingTimestamp = errors.New("event has no timestamp")

type Destination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

// NewDestination picks the destination from the configuration: Kafka when
// enabled, otherwise a file format under OutputPath, otherwise the console.
func NewDestination(ctx context.Context, config *models.Config) (Destination, error) {
	if config.KafkaEnabled {
		return NewKafkaOutput(config)
	}
	if config.OutputPath == "" {
		return &ConsoleOutput{}, nil
	}
	switch config.OutputFormat {
	case "parquet":
		return NewParquetOutput(ctx, config)
	case "json":
		return NewJSONOutput(config.OutputPath, config.OutputFolder), nil
	case "csv":
		return NewCSVOutput(config.OutputPath, config.OutputFolder), nil
	case "console", "":
		return &ConsoleOutput{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", config.OutputFormat)
	}
}

// decodeEvent reads a JSON event and the partition its timestamp falls in.
func decodeEvent(msg []byte) (map[string]interface{}, string, error) {
	var event map[string]interface{}
	if err := json.Unmarshal(msg, &event); err != nil {
		return nil, "", err
	}

	timestamp, ok := event["timestamp"].(float64)
	if !ok {
		return nil, "", ErrMissingTimestamp
	}
	return event, partitionPath(int64(timestamp)), nil
}

func partitionPath(timestamp int64) string {
	eventTime := time.Unix(timestamp, 0).UTC()
	year, month, day := eventTime.Date()
	return fmt.Sprintf("year=%d/month=%02d/day=%02d/hour=%02d", year, month, day, eventTime.Hour())
}

// MultiOutput fans every event out to several destinations. A failing
// destination does not stop delivery to the others.
type MultiOutput struct {
	destinations []Destination
}

func NewMultiOutput(destinations ...Destination) *MultiOutput {
	return &MultiOutput{destinations: destinations}
}

func (m *MultiOutput) WriteMessage(topic string, msg []byte) error {
	var errs []error
	for _, d := range m.destinations {
		if err := d.WriteMessage(topic, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiOutput) Close() error {
	var errs []error
	for _, d := range m.destinations {
		if err := d.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
