package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidDepartureTime = errors.New("invalid departure time")

// RouteContext carries the inputs of one prediction. A nil Start or
// Destination means the coordinate could not be resolved.
type RouteContext struct {
	Start         *Location `json:"start"`
	Destination   *Location `json:"destination"`
	DayOfWeek     string    `json:"day_of_week"`
	DepartureTime string    `json:"departure_time"`
	RouteType     RouteType `json:"route_type,omitempty"`
}

// DepartureHour returns the hour component of an "HH:MM" departure time.
func (r RouteContext) DepartureHour() (int, error) {
	hourPart, _, _ := strings.Cut(strings.TrimSpace(r.DepartureTime), ":")
	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDepartureTime, r.DepartureTime)
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: hour %d out of range", ErrInvalidDepartureTime, hour)
	}
	return hour, nil
}
