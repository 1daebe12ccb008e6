package server

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"antarctic-dashboard/internal/analytics"
	"antarctic-dashboard/internal/models"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	readingsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "readings_generated_total",
		Help: "Total number of synthetic readings generated",
	})

	currentTemperature = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "current_temperature_celsius",
		Help: "Most recent synthetic temperature",
	})

	rollingAverage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rolling_average_celsius",
		Help: "Mean temperature over the rolling window",
	})

	trendSlope = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trend_slope_celsius_per_reading",
		Help: "Slope of the least-squares trend over the rolling window",
	})

	anomaliesDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anomalies_detected_total",
		Help: "Total number of readings flagged by the rolling z-score",
	})

	datasetRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dataset_rows",
		Help: "Rows in the remote dataset, 0 when unavailable",
	})
)

// OnTick records feed metrics for each cycle.
func (s *Server) OnTick(_ context.Context, snap models.Snapshot) {
	values := snap.Values()

	summary := analytics.Summarize(values)

	readingsGenerated.Inc()
	currentTemperature.Set(snap.Latest.Value)
	rollingAverage.Set(summary.Mean)
	trendSlope.Set(analytics.FitTrend(values).Slope)

	if summary.Anomaly {
		anomaliesDetected.Inc()
		s.log.Warn("anomalous reading", "cycle", snap.Cycle, "temp", snap.Latest.Value, "z_score", summary.ZScore)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrader take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				endpoint = tpl
			}
		}

		requestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(rec.status)).Inc()
	})
}
