package service

import (
	"encoding/json"
	"time"

	"github.com/chrisdamba/traveltime/internal/models"
	"github.com/chrisdamba/traveltime/internal/output"
	"github.com/lucsky/cuid"
	"go.uber.org/zap"
)

// Recorder appends each prediction to the results sink. Sink failures are
// logged and dropped. A nil Recorder records nothing.
type Recorder struct {
	dest   output.Destination
	topic  string
	clock  func() time.Time
	newID  func() string
	logger *zap.Logger
}

func NewRecorder(dest output.Destination, topic string, logger *zap.Logger) *Recorder {
	if topic == "" {
		topic = models.TopicPredictions
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{dest: dest, topic: topic, clock: time.Now, newID: cuid.New, logger: logger}
}

func (r *Recorder) Record(req Request, start, dest models.Location, resp Response) {
	if r == nil || r.dest == nil {
		return
	}

	now := r.clock()
	record := models.PredictionRecord{
		ID:               r.newID(),
		UserID:           req.UserID,
		StartPoint:       req.StartPoint,
		Destination:      req.Destination,
		StartLocation:    start,
		DestLocation:     dest,
		DayOfWeek:        req.DayOfWeek,
		DepartureTime:    req.DepartureTime,
		RouteType:        string(req.RouteType),
		PredictedMinutes: int32(resp.PredictedTime),
		DistanceKm:       resp.DistanceKm,
		TrafficLevel:     string(resp.TrafficLevel),
		ModelVersion:     resp.ModelVersion,
		Timestamp:        now.Unix(),
		CreatedAt:        now,
	}

	msg, err := json.Marshal(record)
	if err != nil {
		r.logger.Error("failed to encode prediction", zap.Error(err))
		return
	}
	if err := r.dest.WriteMessage(r.topic, msg); err != nil {
		r.logger.Error("failed to save prediction",
			zap.String("prediction_id", record.ID),
			zap.String("topic", r.topic),
			zap.Error(err),
		)
	}
}
