package domain

// TrafficLight is the overall health status of a project.
type TrafficLight string

const (
	TrafficLightGreen  TrafficLight = "green"
	TrafficLightYellow TrafficLight = "yellow"
	TrafficLightRed    TrafficLight = "red"
)

// String returns the string representation of the traffic light.
func (t TrafficLight) String() string {
	return string(t)
}

// IsValid returns true if the traffic light is a known value.
func (t TrafficLight) IsValid() bool {
	switch t {
	case TrafficLightGreen, TrafficLightYellow, TrafficLightRed:
		return true
	default:
		return false
	}
}

// Rank orders traffic lights from worst (0) to best (2).
func (t TrafficLight) Rank() int {
	switch t {
	case TrafficLightRed:
		return 0
	case TrafficLightYellow:
		return 1
	default:
		return 2
	}
}

// StatusOf reduces reasons to one traffic light using worst-case precedence:
// red if any reason is red, else yellow if any is yellow, else green. The
// number of reasons never matters, only their severities.
func StatusOf(reasons []HealthReason) TrafficLight {
	status := TrafficLightGreen
	for _, r := range reasons {
		switch r.Severity {
		case SeverityRed:
			return TrafficLightRed
		case SeverityYellow:
			status = TrafficLightYellow
		}
	}
	return status
}
