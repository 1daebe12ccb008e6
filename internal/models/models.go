package models

import "time"

// TimestampLayout is the wall-clock format used for reading timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// Reading is a single simulated temperature measurement.
type Reading struct {
	Value     float64 `json:"temp"`
	Timestamp string  `json:"timestamp"`
}

// Time parses the reading timestamp in the local zone.
func (r Reading) Time() (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, r.Timestamp, time.Local)
}

type TableRow struct {
	Index     int     `json:"index"`
	Temp      float64 `json:"temp"`
	Timestamp string  `json:"timestamp"`
}

// Table is the tabular projection of the window shown in the data grid.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    []TableRow `json:"rows"`
}

// Snapshot is the result of one feed cycle. It is never mutated after creation.
type Snapshot struct {
	Cycle  uint64    `json:"cycle"`
	Window []Reading `json:"window"`
	Table  Table     `json:"table"`
	Latest Reading   `json:"latest"`
}

// Values returns the window temperatures, oldest first.
func (s Snapshot) Values() []float64 {
	values := make([]float64, len(s.Window))
	for i, r := range s.Window {
		values[i] = r.Value
	}
	return values
}

type Trend struct {
	Slope      float64 `json:"slope"`
	Intercept  float64 `json:"intercept"`
	Points     int     `json:"points"`
	Degenerate bool    `json:"degenerate"`
}

type Summary struct {
	Mean    float64 `json:"rolling_average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	StdDev  float64 `json:"std_dev"`
	ZScore  float64 `json:"z_score"`
	Count   int     `json:"count"`
	Anomaly bool    `json:"anomaly"`
}

type GaugeBand struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Color string  `json:"color"`
}

type Gauge struct {
	Title    string      `json:"title"`
	Value    float64     `json:"value"`
	Min      float64     `json:"min"`
	Max      float64     `json:"max"`
	BarColor string      `json:"bar_color"`
	Bands    []GaugeBand `json:"bands"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type MapMarker struct {
	Position LatLng `json:"position"`
	Popup    string `json:"popup"`
	Tooltip  string `json:"tooltip"`
}

type MapCircle struct {
	Center       LatLng  `json:"center"`
	RadiusMeters float64 `json:"radius_m"`
	Color        string  `json:"color"`
	Fill         bool    `json:"fill"`
	FillColor    string  `json:"fill_color"`
}

// MapAnnotation describes the static station map. Tiles are rendered client side.
type MapAnnotation struct {
	Center  LatLng    `json:"center"`
	Zoom    int       `json:"zoom"`
	MinZoom int       `json:"min_zoom"`
	MaxZoom int       `json:"max_zoom"`
	Tiles   string    `json:"tiles"`
	Marker  MapMarker `json:"marker"`
	Circle  MapCircle `json:"circle"`
	Bounds  [2]LatLng `json:"bounds"`
}

// Dashboard is every derived view for one cycle.
type Dashboard struct {
	Cycle              uint64    `json:"cycle"`
	CurrentTemperature string    `json:"current_temperature"`
	CurrentTime        string    `json:"current_time"`
	Latest             Reading   `json:"latest"`
	Window             []Reading `json:"window"`
	Table              Table     `json:"table"`
	Gauge              Gauge     `json:"gauge"`
	Trend              Trend     `json:"trend"`
	TrendLine          []float64 `json:"trend_line"`
	Summary            Summary   `json:"summary"`
}

// Dataset is the remote CSV loaded once at startup.
type Dataset struct {
	Source    string     `json:"source"`
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	FetchedAt time.Time  `json:"fetched_at"`
}
