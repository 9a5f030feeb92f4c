package monitor

import "plantwatch/internal/classify"

// contextProbability is the per-tick chance of appending one contextual log
// line drawn from the pool matching the latest traffic status.
const contextProbability = 0.2

var contextMessages = map[classify.Status][]string{
	classify.StatusNormal: {
		"line throughput steady",
		"conveyor vibration within tolerance",
		"coolant pressure nominal",
	},
	classify.StatusWarning: {
		"intermittent spikes on feeder line",
		"device temperature trending upward",
		"traffic variance above baseline",
	},
	classify.StatusDanger: {
		"sustained overload on main line",
		"fault signature detected on device housing",
		"traffic surge exceeds safe envelope",
	},
}

func severityFor(status classify.Status) Severity {
	switch status {
	case classify.StatusDanger:
		return SeverityDanger
	case classify.StatusWarning:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}
