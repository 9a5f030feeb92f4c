package classify

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"plantwatch/internal/simulate"
)

type stubDeviceScorer struct {
	probs [3]float64
	err   error
}

func (s *stubDeviceScorer) Probabilities(frame simulate.Frame) ([3]float64, error) {
	return s.probs, s.err
}

func (s *stubDeviceScorer) Close() {}

func TestClassifyDeviceArgmax(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	cases := []struct {
		probs [3]float64
		want  Status
	}{
		{[3]float64{0.8, 0.1, 0.1}, StatusNormal},
		{[3]float64{0.2, 0.5, 0.3}, StatusWarning},
		{[3]float64{0.1, 0.2, 0.7}, StatusDanger},
		// ties break toward the first (lower severity) class
		{[3]float64{0.4, 0.4, 0.2}, StatusNormal},
		{[3]float64{0.1, 0.45, 0.45}, StatusWarning},
	}
	for _, tc := range cases {
		c := NewDeviceClassifier(&stubDeviceScorer{probs: tc.probs}, rng)
		status, path := c.Classify(nil, StatusNormal)
		require.Equal(t, PathModel, path)
		require.Equal(t, tc.want, status, "probs %v", tc.probs)
	}
}

func TestClassifyDeviceFallbackHoldsOrDrifts(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	c := NewDeviceClassifier(&stubDeviceScorer{err: errors.New("inference failed")}, rng)

	const trials = 20000
	transitions := 0
	for i := 0; i < trials; i++ {
		status, path := c.Classify(nil, StatusNormal)
		require.Equal(t, PathFallback, path)
		if status != StatusNormal {
			transitions++
		}
	}
	rate := float64(transitions) / float64(trials)
	require.Greater(t, rate, 0.08, "drift rate %.4f", rate)
	require.Less(t, rate, 0.12, "drift rate %.4f", rate)
}

func TestClassifyDeviceDriftNeverHoldsValue(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	c := NewDeviceClassifier(&stubDeviceScorer{err: errors.New("inference failed")}, rng)

	for _, current := range []Status{StatusNormal, StatusWarning, StatusDanger} {
		seen := map[Status]int{}
		for i := 0; i < 5000; i++ {
			status, _ := c.Classify(nil, current)
			if status != current {
				seen[status]++
			}
		}
		// drift targets are exactly the two other statuses
		require.Len(t, seen, 2, "current %v drifted to %v", current, seen)
		require.NotContains(t, seen, current)
	}
}

func TestDeviceModelSeparatesHotFrames(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	m := NewDeviceModel(rng)

	dim := make(simulate.Frame, simulate.FrameSize*simulate.FrameSize)
	for i := range dim {
		dim[i] = 0.25
	}
	probs, err := m.Probabilities(dim)
	require.NoError(t, err)
	require.Greater(t, probs[0], probs[1])
	require.Greater(t, probs[0], probs[2])

	hot := make(simulate.Frame, simulate.FrameSize*simulate.FrameSize)
	copy(hot, dim)
	for i := 0; i < 200; i++ {
		hot[i] = 1.0
	}
	hotProbs, err := m.Probabilities(hot)
	require.NoError(t, err)
	require.Less(t, hotProbs[0], probs[0], "hot frame should shift mass away from normal")

	_, err = m.Probabilities(make(simulate.Frame, 4))
	require.Error(t, err)

	m.Close()
	_, err = m.Probabilities(dim)
	require.ErrorIs(t, err, ErrScorerReleased)
}
