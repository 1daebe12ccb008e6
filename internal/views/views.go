// Package views derives the dashboard presentation models from a feed
// snapshot. Every function here is pure.
package views

import (
	"fmt"

	"antarctic-dashboard/internal/analytics"
	"antarctic-dashboard/internal/models"
)

const (
	GaugeMin = -40.0
	GaugeMax = 0.0
)

var (
	mcMurdo = models.LatLng{Lat: -77.85, Lng: 166.67}

	gaugeBands = []models.GaugeBand{
		{From: -40, To: -30, Color: "lightblue"},
		{From: -30, To: -20, Color: "lightcyan"},
		{From: -20, To: 0, Color: "cyan"},
	}
)

func CurrentTemperature(latest models.Reading) string {
	return fmt.Sprintf("%.1f °C", latest.Value)
}

func CurrentTime(latest models.Reading) string {
	return latest.Timestamp
}

func NewGauge(value float64) models.Gauge {
	bands := make([]models.GaugeBand, len(gaugeBands))
	copy(bands, gaugeBands)

	return models.Gauge{
		Title:    "Temperature (°C)",
		Value:    value,
		Min:      GaugeMin,
		Max:      GaugeMax,
		BarColor: "blue",
		Bands:    bands,
	}
}

// BandFor returns the gauge band containing value. Values off the scale
// belong to the nearest end band.
func BandFor(g models.Gauge, value float64) models.GaugeBand {
	for _, b := range g.Bands {
		if value >= b.From && value <= b.To {
			return b
		}
	}
	if value < g.Min {
		return g.Bands[0]
	}
	return g.Bands[len(g.Bands)-1]
}

// McMurdoMap is the static sensor location annotation.
func McMurdoMap() models.MapAnnotation {
	return models.MapAnnotation{
		Center:  models.LatLng{Lat: -90, Lng: 0},
		Zoom:    3,
		MinZoom: 1,
		MaxZoom: 11,
		Tiles:   "CartoDB positron",
		Marker: models.MapMarker{
			Position: mcMurdo,
			Popup:    "McMurdo Station",
			Tooltip:  "Temperature Sensor Location",
		},
		Circle: models.MapCircle{
			Center:       mcMurdo,
			RadiusMeters: 50000,
			Color:        "red",
			Fill:         true,
			FillColor:    "red",
		},
		Bounds: [2]models.LatLng{{Lat: -90, Lng: -180}, {Lat: -60, Lng: 180}},
	}
}

// Build derives every dashboard view for snap.
func Build(snap models.Snapshot) models.Dashboard {
	values := snap.Values()
	trend := analytics.FitTrend(values)

	return models.Dashboard{
		Cycle:              snap.Cycle,
		CurrentTemperature: CurrentTemperature(snap.Latest),
		CurrentTime:        CurrentTime(snap.Latest),
		Latest:             snap.Latest,
		Window:             snap.Window,
		Table:              snap.Table,
		Gauge:              NewGauge(snap.Latest.Value),
		Trend:              trend,
		TrendLine:          analytics.Line(trend),
		Summary:            analytics.Summarize(values),
	}
}
