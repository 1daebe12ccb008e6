package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFitTrendLinear(t *testing.T) {
	trend := FitTrend([]float64{1.0, 2.0, 3.0})

	require.InDelta(t, 1.0, trend.Slope, 1e-9)
	require.InDelta(t, 1.0, trend.Intercept, 1e-9)
	require.Equal(t, 3, trend.Points)
	require.False(t, trend.Degenerate)
}

func TestFitTrendNoisy(t *testing.T) {
	trend := FitTrend([]float64{-29.5, -32.0, -34.5, -36.0, -38.0})

	require.InDelta(t, -2.1, trend.Slope, 1e-9)
	require.InDelta(t, -29.8, trend.Intercept, 1e-9)
}

func TestFitTrendEmpty(t *testing.T) {
	require.NotPanics(t, func() {
		trend := FitTrend(nil)
		require.True(t, trend.Degenerate)
		require.Zero(t, trend.Points)
		require.Zero(t, trend.Slope)
		require.Zero(t, trend.Intercept)
		require.Empty(t, Line(trend))
	})
}

func TestFitTrendSinglePoint(t *testing.T) {
	trend := FitTrend([]float64{-31.4})

	require.True(t, trend.Degenerate)
	require.Zero(t, trend.Slope)
	require.Equal(t, -31.4, trend.Intercept)
	require.Equal(t, []float64{-31.4}, Line(trend))
}

func TestLine(t *testing.T) {
	trend := FitTrend([]float64{1, 2, 3})
	line := Line(trend)

	require.Len(t, line, 3)
	for i, want := range []float64{1, 2, 3} {
		require.InDelta(t, want, line[i], 1e-9)
	}
	require.InDelta(t, 5.0, At(trend, 4), 1e-9)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{-30, -20, -25})

	require.Equal(t, 3, s.Count)
	require.InDelta(t, -25.0, s.Mean, 1e-9)
	require.Equal(t, -30.0, s.Min)
	require.Equal(t, -20.0, s.Max)
	require.InDelta(t, 5.0, s.StdDev, 1e-9)
	require.InDelta(t, 0.0, s.ZScore, 1e-9)
}

func TestSummarizeDegenerate(t *testing.T) {
	require.Equal(t, 0, Summarize(nil).Count)

	one := Summarize([]float64{-22.2})
	require.Equal(t, -22.2, one.Mean)
	require.Zero(t, one.StdDev)
	require.Zero(t, one.ZScore)

	flat := Summarize([]float64{-25, -25, -25})
	require.Zero(t, flat.StdDev)
	require.False(t, math.IsNaN(flat.ZScore))
}

func TestSummarizeFlagsAnomaly(t *testing.T) {
	values := make([]float64, 0, 12)
	for i := 0; i < 11; i++ {
		values = append(values, -30)
	}
	values = append(values, -20)

	s := Summarize(values)
	require.Greater(t, s.ZScore, ZScoreThreshold)
	require.True(t, s.Anomaly)

	require.False(t, Summarize(values[:10]).Anomaly)
	require.False(t, Summarize([]float64{-30, -30, -20}).Anomaly)
}

func TestIsAnomaly(t *testing.T) {
	require.True(t, IsAnomaly(-2.5, MinAnomalyPoints))
	require.False(t, IsAnomaly(2.0, MinAnomalyPoints))
	require.False(t, IsAnomaly(5, MinAnomalyPoints-1))
}
