package classify

import (
	"math"

	"plantwatch/internal/simulate"
)

// Model-path score thresholds (on the clamped [0,1] score).
const (
	trafficModelWarning = 0.4
	trafficModelDanger  = 0.6
)

// Fallback thresholds on the raw sample maximum. These are deliberately a
// different rule set than the model-path boundaries and must not be unified
// with them.
const (
	trafficHeuristicWarning = 70.0
	trafficHeuristicDanger  = 85.0
)

// TrafficClassifier classifies a traffic sample, preferring the scoring
// model and falling back to the max-threshold heuristic when the model path
// fails. It never returns an error: validation failures yield StatusNormal
// with PathRejected so the monitoring loop keeps running.
type TrafficClassifier struct {
	scorer TrafficScorer
}

// NewTrafficClassifier wraps the given scorer. A nil scorer is tolerated;
// every classification then takes the heuristic path.
func NewTrafficClassifier(scorer TrafficScorer) *TrafficClassifier {
	return &TrafficClassifier{scorer: scorer}
}

// Classify returns the status for the sample and the path that produced it.
func (c *TrafficClassifier) Classify(sample []float64) (Status, Path) {
	if !validTrafficSample(sample) {
		return StatusNormal, PathRejected
	}
	if c == nil || c.scorer == nil {
		return heuristicTraffic(sample), PathFallback
	}

	normalized := make([]float64, len(sample))
	for i, v := range sample {
		normalized[i] = v / 100
	}
	score, err := c.scorer.Score(normalized)
	if err != nil {
		return heuristicTraffic(sample), PathFallback
	}
	if score < 0 {
		score = 0
	} else if score > 1 {
		score = 1
	}
	switch {
	case score > trafficModelDanger:
		return StatusDanger, PathModel
	case score > trafficModelWarning:
		return StatusWarning, PathModel
	default:
		return StatusNormal, PathModel
	}
}

// Close releases the underlying scorer.
func (c *TrafficClassifier) Close() {
	if c != nil && c.scorer != nil {
		c.scorer.Close()
	}
}

func heuristicTraffic(sample []float64) Status {
	peak := sample[0]
	for _, v := range sample[1:] {
		if v > peak {
			peak = v
		}
	}
	switch {
	case peak > trafficHeuristicDanger:
		return StatusDanger
	case peak > trafficHeuristicWarning:
		return StatusWarning
	default:
		return StatusNormal
	}
}

func validTrafficSample(sample []float64) bool {
	if len(sample) != simulate.SampleLen {
		return false
	}
	for _, v := range sample {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
