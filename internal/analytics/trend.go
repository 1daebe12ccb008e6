package analytics

import "antarctic-dashboard/internal/models"

// FitTrend fits value = slope*index + intercept by ordinary least squares over
// the points (0, values[0]) .. (n-1, values[n-1]).
//
// An empty input yields a zero Degenerate trend. A single point yields a flat
// line through that value.
func FitTrend(values []float64) models.Trend {
	switch len(values) {
	case 0:
		return models.Trend{Degenerate: true}
	case 1:
		return models.Trend{Intercept: values[0], Points: 1, Degenerate: true}
	}

	n := float64(len(values))
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return models.Trend{Intercept: sumY / n, Points: len(values), Degenerate: true}
	}

	slope := (n*sumXY - sumX*sumY) / denom
	return models.Trend{
		Slope:     slope,
		Intercept: (sumY - slope*sumX) / n,
		Points:    len(values),
	}
}

// At evaluates the trend line at x.
func At(t models.Trend, x float64) float64 {
	return t.Slope*x + t.Intercept
}

// Line evaluates the trend line at indices 0..t.Points-1.
func Line(t models.Trend) []float64 {
	line := make([]float64, t.Points)
	for i := range line {
		line[i] = At(t, float64(i))
	}
	return line
}
