package analytics

import (
	"math"

	"antarctic-dashboard/internal/models"
)

const (
	// ZScoreThreshold is the absolute z-score above which the latest reading
	// is flagged.
	ZScoreThreshold = 2.0
	// MinAnomalyPoints is the window length needed before anything is flagged.
	MinAnomalyPoints = 10
)

// Summarize computes rolling statistics over the window values. The z-score
// is that of the most recent value against the window.
func Summarize(values []float64) models.Summary {
	if len(values) == 0 {
		return models.Summary{}
	}

	mean := rollingAverage(values)
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}

	stdDev := sampleStdDev(values, mean)
	var zScore float64
	if stdDev != 0 {
		zScore = (values[len(values)-1] - mean) / stdDev
	}

	return models.Summary{
		Mean:    mean,
		Min:     minV,
		Max:     maxV,
		StdDev:  stdDev,
		ZScore:  zScore,
		Count:   len(values),
		Anomaly: IsAnomaly(zScore, len(values)),
	}
}

// IsAnomaly reports whether a z-score over count values exceeds the threshold.
// Small windows are never flagged.
func IsAnomaly(zScore float64, count int) bool {
	return math.Abs(zScore) > ZScoreThreshold && count >= MinAnomalyPoints
}

func rollingAverage(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}

	var variance float64
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}

	return math.Sqrt(variance / float64(len(values)-1))
}
