package models

import "time"

// Prediction is the terminal output of the estimator.
type Prediction struct {
	Minutes           int          `json:"predicted_time"`
	DistanceKm        float64      `json:"distance_km"`
	TrafficMultiplier float64      `json:"traffic_multiplier"`
	BaseSpeed         float64      `json:"base_speed"`
	Level             TrafficLevel `json:"traffic_level"`
	TypicalMinutes    float64      `json:"typical_minutes"` // baseline Level was judged against
	ModelVersion      string       `json:"model_version"`
	Route             RouteContext `json:"route"`
}

// PredictionRecord is the row appended to the history of past predictions.
type PredictionRecord struct {
	ID               string    `json:"id" parquet:"name=id,type=BYTE_ARRAY,convertedtype=UTF8"`
	UserID           string    `json:"userId,omitempty" parquet:"name=userId,type=BYTE_ARRAY,convertedtype=UTF8"`
	StartPoint       string    `json:"startPoint" parquet:"name=startPoint,type=BYTE_ARRAY,convertedtype=UTF8"`
	Destination      string    `json:"destination" parquet:"name=destination,type=BYTE_ARRAY,convertedtype=UTF8"`
	StartLocation    Location  `json:"startLocation" parquet:"name=startLocation,type=STRUCT"`
	DestLocation     Location  `json:"destinationLocation" parquet:"name=destinationLocation,type=STRUCT"`
	DayOfWeek        string    `json:"dayOfWeek" parquet:"name=dayOfWeek,type=BYTE_ARRAY,convertedtype=UTF8"`
	DepartureTime    string    `json:"departureTime" parquet:"name=departureTime,type=BYTE_ARRAY,convertedtype=UTF8"`
	RouteType        string    `json:"routeType,omitempty" parquet:"name=routeType,type=BYTE_ARRAY,convertedtype=UTF8"`
	PredictedMinutes int32     `json:"predictedTime" parquet:"name=predictedTime,type=INT32"`
	DistanceKm       float64   `json:"distanceKm" parquet:"name=distanceKm,type=DOUBLE"`
	TrafficLevel     string    `json:"trafficLevel" parquet:"name=trafficLevel,type=BYTE_ARRAY,convertedtype=UTF8"`
	ModelVersion     string    `json:"modelVersion" parquet:"name=modelVersion,type=BYTE_ARRAY,convertedtype=UTF8"`
	Timestamp        int64     `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	CreatedAt        time.Time `json:"-"`
}
