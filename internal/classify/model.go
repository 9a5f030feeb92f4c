package classify

import (
	"errors"
	"math"
	"math/rand"

	"plantwatch/internal/simulate"
)

// ErrScorerReleased is returned by a scorer whose resources were released.
var ErrScorerReleased = errors.New("scorer has been released")

// TrafficScorer scores a normalized traffic sample (values in [0,1]) and
// yields a scalar anomaly score. Implementations may hold resources and must
// be released with Close when replaced.
type TrafficScorer interface {
	Score(normalized []float64) (float64, error)
	Close()
}

// DeviceScorer produces a 3-class probability vector (normal, warning,
// danger) for a device frame.
type DeviceScorer interface {
	Probabilities(frame simulate.Frame) ([3]float64, error)
	Close()
}

// TrafficModel is a mock-trained linear scorer over a traffic sample. The
// weights are jittered per instance so consecutive "training" runs produce
// slightly different models, the way the demo presents them.
type TrafficModel struct {
	weights []float64
	bias    float64
}

// NewTrafficModel builds a traffic scorer with per-instance weight jitter.
func NewTrafficModel(rng *rand.Rand) *TrafficModel {
	weights := make([]float64, simulate.SampleLen)
	for i := range weights {
		weights[i] = 0.09 + rng.Float64()*0.02
	}
	return &TrafficModel{
		weights: weights,
		bias:    -0.02 + rng.Float64()*0.04,
	}
}

// Score returns the weighted sum of the normalized sample. The caller clamps
// to [0,1]; the raw value may fall slightly outside that range.
func (m *TrafficModel) Score(normalized []float64) (float64, error) {
	if m.weights == nil {
		return 0, ErrScorerReleased
	}
	if len(normalized) != len(m.weights) {
		return 0, errors.New("sample shape does not match model input")
	}
	score := m.bias
	for i, v := range normalized {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, errors.New("non-finite value in normalized sample")
		}
		score += m.weights[i] * v
	}
	return score, nil
}

// Close releases the model weights.
func (m *TrafficModel) Close() {
	m.weights = nil
}

// DeviceModel is a mock-trained frame classifier. It reduces a frame to
// summary features (mean, peak, spread) and maps them through a jittered
// weight matrix to 3-class softmax probabilities.
type DeviceModel struct {
	weights [3][3]float64
	bias    [3]float64
}

// NewDeviceModel builds a device scorer with per-instance weight jitter.
func NewDeviceModel(rng *rand.Rand) *DeviceModel {
	// Base weights favor the normal class on dim frames and shift mass
	// toward warning/danger as the peak intensity rises.
	base := [3][3]float64{
		{2.0, -3.0, -1.0},
		{-1.0, 2.5, 1.5},
		{-2.0, 6.0, 3.0},
	}
	m := &DeviceModel{bias: [3]float64{1.2, -0.6, -2.4}}
	for c := 0; c < 3; c++ {
		for f := 0; f < 3; f++ {
			m.weights[c][f] = base[c][f] * (0.95 + rng.Float64()*0.1)
		}
	}
	return m
}

// Probabilities returns the softmax class probabilities for the frame.
func (m *DeviceModel) Probabilities(frame simulate.Frame) ([3]float64, error) {
	var probs [3]float64
	if m.bias == ([3]float64{}) && m.weights == ([3][3]float64{}) {
		return probs, ErrScorerReleased
	}
	if len(frame) != simulate.FrameSize*simulate.FrameSize {
		return probs, errors.New("frame shape does not match model input")
	}
	mean, peak, spread := frameFeatures(frame)
	features := [3]float64{mean, peak, spread}

	var logits [3]float64
	for c := 0; c < 3; c++ {
		logits[c] = m.bias[c]
		for f := 0; f < 3; f++ {
			logits[c] += m.weights[c][f] * features[f]
		}
	}
	return softmax(logits), nil
}

// Close releases the model weights.
func (m *DeviceModel) Close() {
	m.weights = [3][3]float64{}
	m.bias = [3]float64{}
}

func frameFeatures(frame simulate.Frame) (mean, peak, spread float64) {
	var sum float64
	for _, v := range frame {
		sum += v
		if v > peak {
			peak = v
		}
	}
	mean = sum / float64(len(frame))
	var variance float64
	for _, v := range frame {
		d := v - mean
		variance += d * d
	}
	spread = math.Sqrt(variance / float64(len(frame)))
	return mean, peak, spread
}

func softmax(logits [3]float64) [3]float64 {
	maxLogit := logits[0]
	for _, l := range logits[1:] {
		if l > maxLogit {
			maxLogit = l
		}
	}
	var sum float64
	var out [3]float64
	for i, l := range logits {
		out[i] = math.Exp(l - maxLogit)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
