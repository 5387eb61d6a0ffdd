package models

// Features is the flat feature vector handed to the travel-time model.
// Field names in the json tags are the column names the model was trained on.
type Features struct {
	DayOfWeek         string  `json:"day_of_week"`
	Month             string  `json:"month"`
	HourOfDay         int     `json:"hour_of_day"`
	IsWeekend         int     `json:"is_weekend"`
	IsPeakHour        int     `json:"is_peak_hour"`
	TrafficMultiplier float64 `json:"traffic_multiplier"`
	DistanceKm        float64 `json:"distance_km"`
	BaseSpeed         float64 `json:"base_speed"`
	NoiseMultiplier   float64 `json:"noise_multiplier"`
	IsMorning         int     `json:"is_morning"`
	IsEvening         int     `json:"is_evening"`
	IsNight           int     `json:"is_night"`
	TrafficDistance   float64 `json:"traffic_distance"`
	SpeedKmh          float64 `json:"speed_kmh"`
	TrafficSpeed      float64 `json:"traffic_speed"`
	WeekendTraffic    float64 `json:"weekend_traffic"`
	PeakTraffic       float64 `json:"peak_traffic"`
	Quarter           string  `json:"quarter"`
	WeekOfYear        int     `json:"week_of_year"`
}

func (f Features) Numeric() map[string]float64 {
	return map[string]float64{
		"hour_of_day":        float64(f.HourOfDay),
		"is_weekend":         float64(f.IsWeekend),
		"is_peak_hour":       float64(f.IsPeakHour),
		"traffic_multiplier": f.TrafficMultiplier,
		"distance_km":        f.DistanceKm,
		"base_speed":         f.BaseSpeed,
		"noise_multiplier":   f.NoiseMultiplier,
		"is_morning":         float64(f.IsMorning),
		"is_evening":         float64(f.IsEvening),
		"is_night":           float64(f.IsNight),
		"traffic_distance":   f.TrafficDistance,
		"speed_kmh":          f.SpeedKmh,
		"traffic_speed":      f.TrafficSpeed,
		"weekend_traffic":    f.WeekendTraffic,
		"peak_traffic":       f.PeakTraffic,
		"week_of_year":       float64(f.WeekOfYear),
	}
}

func (f Features) Categorical() map[string]string {
	return map[string]string{
		"day_of_week": f.DayOfWeek,
		"month":       f.Month,
		"quarter":     f.Quarter,
	}
}
