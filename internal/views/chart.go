package views

import (
	"errors"
	"fmt"
	"io"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"antarctic-dashboard/internal/analytics"
	"antarctic-dashboard/internal/models"
)

var ErrNoReadings = errors.New("no readings to plot")

// RenderTrendChart writes an SVG scatter of the window readings with the
// fitted trend line. Degenerate trends are drawn only when they have a point.
func RenderTrendChart(w io.Writer, snap models.Snapshot, trend models.Trend) error {
	if len(snap.Window) == 0 {
		return ErrNoReadings
	}

	times := make([]time.Time, len(snap.Window))
	values := make([]float64, len(snap.Window))
	for i, r := range snap.Window {
		t, err := r.Time()
		if err != nil {
			return fmt.Errorf("failed to parse reading timestamp %q: %w", r.Timestamp, err)
		}
		times[i] = t
		values[i] = r.Value
	}

	series := []chart.Series{
		chart.TimeSeries{
			Name:    "Temperature",
			XValues: times,
			YValues: values,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    5,
				DotColor:    chart.ColorBlue,
			},
		},
	}
	if trend.Points > 0 {
		series = append(series, chart.TimeSeries{
			Name:    "Trend Line",
			XValues: times,
			YValues: analytics.Line(trend),
			Style: chart.Style{
				StrokeWidth: 2,
				StrokeColor: chart.ColorRed,
			},
		})
	}

	graph := chart.Chart{
		Title:  "Temperature Readings with Trend Line",
		Height: 360,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:           "Time",
			ValueFormatter: chart.TimeValueFormatterWithFormat("15:04:05"),
			Range:          timeRange(times),
		},
		YAxis: chart.YAxis{
			Name:  "Temperature (°C)",
			Range: valueRange(values, analytics.Line(trend)),
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("failed to render trend chart: %w", err)
	}
	return nil
}

// timeRange pads the x axis so a single reading still has a non-zero span.
func timeRange(times []time.Time) *chart.ContinuousRange {
	first, last := times[0], times[len(times)-1]
	if !last.After(first) {
		first = first.Add(-time.Second)
		last = last.Add(time.Second)
	}
	return &chart.ContinuousRange{
		Min: chart.TimeToFloat64(first),
		Max: chart.TimeToFloat64(last),
	}
}

func valueRange(sets ...[]float64) *chart.ContinuousRange {
	var lo, hi float64
	seen := false
	for _, set := range sets {
		for _, v := range set {
			if !seen || v < lo {
				lo = v
			}
			if !seen || v > hi {
				hi = v
			}
			seen = true
		}
	}
	return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
}
