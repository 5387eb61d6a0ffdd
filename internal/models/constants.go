package models

import "strings"

type RouteType string

const (
	RouteTypeITHub       RouteType = "IT Hub"
	RouteTypeCommercial  RouteType = "Commercial"
	RouteTypeMixed       RouteType = "Mixed"
	RouteTypeResidential RouteType = "Residential"
	RouteTypeUnset       RouteType = ""
)

var RouteTypes = []RouteType{RouteTypeITHub, RouteTypeCommercial, RouteTypeMixed, RouteTypeResidential}

var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

const (
	TopicPredictions = "prediction_events"

	DefaultModelPath       = "models/best_model.json"
	DefaultTypicalMinutes  = 30.0
	DefaultRefreshInterval = 300 // seconds
)

// IsWeekendDay reports whether day names Saturday or Sunday, ignoring case.
func IsWeekendDay(day string) bool {
	switch strings.ToLower(strings.TrimSpace(day)) {
	case "saturday", "sunday":
		return true
	}
	return false
}
