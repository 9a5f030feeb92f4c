package classify

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"plantwatch/internal/simulate"
)

type stubTrafficScorer struct {
	score float64
	err   error
}

func (s *stubTrafficScorer) Score(normalized []float64) (float64, error) {
	return s.score, s.err
}

func (s *stubTrafficScorer) Close() {}

func flatSample(v float64) []float64 {
	sample := make([]float64, simulate.SampleLen)
	for i := range sample {
		sample[i] = v
	}
	return sample
}

func TestClassifyTrafficModelThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  Status
	}{
		{0.0, StatusNormal},
		{0.4, StatusNormal},
		{0.41, StatusWarning},
		{0.6, StatusWarning},
		{0.61, StatusDanger},
		{1.0, StatusDanger},
		{5.0, StatusDanger},  // clamped to 1
		{-3.0, StatusNormal}, // clamped to 0
	}
	for _, tc := range cases {
		c := NewTrafficClassifier(&stubTrafficScorer{score: tc.score})
		status, path := c.Classify(flatSample(40))
		require.Equal(t, PathModel, path, "score %v", tc.score)
		require.Equal(t, tc.want, status, "score %v", tc.score)
	}
}

func TestClassifyTrafficRejectsMalformedSamples(t *testing.T) {
	c := NewTrafficClassifier(&stubTrafficScorer{score: 0.9})

	status, path := c.Classify(make([]float64, simulate.SampleLen-1))
	require.Equal(t, PathRejected, path)
	require.Equal(t, StatusNormal, status)

	bad := flatSample(40)
	bad[3] = math.NaN()
	status, path = c.Classify(bad)
	require.Equal(t, PathRejected, path)
	require.Equal(t, StatusNormal, status)

	bad[3] = math.Inf(1)
	status, path = c.Classify(bad)
	require.Equal(t, PathRejected, path)
	require.Equal(t, StatusNormal, status)
}

func TestClassifyTrafficHeuristicFallback(t *testing.T) {
	c := NewTrafficClassifier(&stubTrafficScorer{err: errors.New("tensor shape mismatch")})

	cases := []struct {
		peak float64
		want Status
	}{
		{90, StatusDanger},
		{75, StatusWarning},
		{50, StatusNormal},
	}
	for _, tc := range cases {
		sample := flatSample(30)
		sample[5] = tc.peak
		status, path := c.Classify(sample)
		require.Equal(t, PathFallback, path, "peak %v", tc.peak)
		require.Equal(t, tc.want, status, "peak %v", tc.peak)
	}
}

func TestClassifyTrafficNilScorerFallsBack(t *testing.T) {
	c := NewTrafficClassifier(nil)
	status, path := c.Classify(flatSample(95))
	require.Equal(t, PathFallback, path)
	require.Equal(t, StatusDanger, status)
}

func TestTrafficModelScoring(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	m := NewTrafficModel(rng)

	normalized := make([]float64, simulate.SampleLen)
	for i := range normalized {
		normalized[i] = 0.4
	}
	score, err := m.Score(normalized)
	require.NoError(t, err)
	require.False(t, math.IsNaN(score))

	_, err = m.Score(make([]float64, 3))
	require.Error(t, err)

	m.Close()
	_, err = m.Score(normalized)
	require.ErrorIs(t, err, ErrScorerReleased)
}
