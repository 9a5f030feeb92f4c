package classify

import (
	"math/rand"

	"plantwatch/internal/simulate"
)

// On device-model failure the classifier holds the current status, with a
// small chance of drifting to one of the other two statuses so the demo UI
// still shows movement.
const deviceDriftProbability = 0.1

// DeviceClassifier classifies device frames. The model path picks the argmax
// of the 3-class probability vector; ties go to the lower-severity class.
// The fallback path is a stochastic hold on the current status.
type DeviceClassifier struct {
	scorer DeviceScorer
	rng    *rand.Rand
}

// NewDeviceClassifier wraps the given scorer. A nil scorer is tolerated;
// every classification then takes the fallback path.
func NewDeviceClassifier(scorer DeviceScorer, rng *rand.Rand) *DeviceClassifier {
	return &DeviceClassifier{scorer: scorer, rng: rng}
}

// Classify returns the next device status given the frame and the currently
// displayed status, plus the path that produced it.
func (c *DeviceClassifier) Classify(frame simulate.Frame, current Status) (Status, Path) {
	if c == nil || c.scorer == nil {
		return c.holdOrDrift(current), PathFallback
	}
	probs, err := c.scorer.Probabilities(frame)
	if err != nil {
		return c.holdOrDrift(current), PathFallback
	}
	best := 0
	for i := 1; i < len(probs); i++ {
		// strict comparison: the first of equal classes wins
		if probs[i] > probs[best] {
			best = i
		}
	}
	return Status(best), PathModel
}

// Close releases the underlying scorer.
func (c *DeviceClassifier) Close() {
	if c != nil && c.scorer != nil {
		c.scorer.Close()
	}
}

func (c *DeviceClassifier) holdOrDrift(current Status) Status {
	if c == nil || c.rng == nil || c.rng.Float64() >= deviceDriftProbability {
		return current
	}
	others := make([]Status, 0, 2)
	for _, s := range []Status{StatusNormal, StatusWarning, StatusDanger} {
		if s != current {
			others = append(others, s)
		}
	}
	return others[c.rng.Intn(len(others))]
}
