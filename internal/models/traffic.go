package models

// TrafficLevel is the qualitative label attached to a prediction.
type TrafficLevel string

const (
	TrafficLight  TrafficLevel = "light"
	TrafficMedium TrafficLevel = "medium"
	TrafficHeavy  TrafficLevel = "heavy"
)

// labels used for live route colouring
const (
	TrafficPeak   TrafficLevel = "peak"
	TrafficNormal TrafficLevel = "normal"
)
