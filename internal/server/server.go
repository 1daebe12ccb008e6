package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"antarctic-dashboard/internal/analytics"
	"antarctic-dashboard/internal/models"
	"antarctic-dashboard/internal/views"
)

const version = "1.0.0"

// FeedReader exposes the cached snapshot of the latest cycle.
type FeedReader interface {
	Current() (models.Snapshot, bool)
}

// Trigger enqueues an immediate feed tick.
type Trigger interface {
	Trigger() bool
}

type Streamer interface {
	Handler() http.HandlerFunc
}

type Server struct {
	router  *mux.Router
	feed    FeedReader
	trigger Trigger
	stream  Streamer
	dataset *models.Dataset
	log     *slog.Logger
}

// New builds the HTTP surface. dataset may be nil when the startup fetch
// failed.
func New(feed FeedReader, trigger Trigger, stream Streamer, dataset *models.Dataset, log *slog.Logger) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		feed:    feed,
		trigger: trigger,
		stream:  stream,
		dataset: dataset,
		log:     log,
	}

	if dataset != nil {
		datasetRows.Set(float64(len(dataset.Rows)))
	} else {
		datasetRows.Set(0)
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(instrument)

	s.router.HandleFunc("/health", s.healthHandler).Methods("GET")
	s.router.HandleFunc("/", s.dashboardHandler).Methods("GET")
	s.router.HandleFunc("/table", s.tableHandler).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/feed", s.feedHandler).Methods("GET")
	api.HandleFunc("/gauge", s.gaugeHandler).Methods("GET")
	api.HandleFunc("/trend", s.trendHandler).Methods("GET")
	api.HandleFunc("/map", s.mapHandler).Methods("GET")
	api.HandleFunc("/dataset", s.datasetHandler).Methods("GET")
	api.HandleFunc("/tick", s.tickHandler).Methods("POST")

	s.router.HandleFunc("/charts/trend.svg", s.trendChartHandler).Methods("GET")
	s.router.HandleFunc("/ws", s.stream.Handler()).Methods("GET")
	s.router.Handle("/metrics/prometheus", promhttp.Handler())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	_, ready := s.feed.Current()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "healthy",
		"timestamp":         time.Now().UTC(),
		"version":           version,
		"feed_ready":        ready,
		"dataset_available": s.dataset != nil,
	})
}

func (s *Server) current(w http.ResponseWriter) (models.Snapshot, bool) {
	snap, ok := s.feed.Current()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no readings yet"})
	}
	return snap, ok
}

func (s *Server) feedHandler(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.current(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, views.Build(snap))
}

func (s *Server) gaugeHandler(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.current(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, views.NewGauge(snap.Latest.Value))
}

func (s *Server) trendHandler(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.current(w)
	if !ok {
		return
	}
	trend := analytics.FitTrend(snap.Values())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cycle": snap.Cycle,
		"trend": trend,
		"line":  analytics.Line(trend),
	})
}

func (s *Server) mapHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, views.McMurdoMap())
}

type datasetResponse struct {
	Available bool            `json:"available"`
	Dataset   *models.Dataset `json:"dataset,omitempty"`
}

func (s *Server) datasetHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, datasetResponse{Available: s.dataset != nil, Dataset: s.dataset})
}

func (s *Server) tickHandler(w http.ResponseWriter, r *http.Request) {
	if !s.trigger.Trigger() {
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "tick queue full"})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (s *Server) trendChartHandler(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.feed.Current()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var buf bytes.Buffer
	err := views.RenderTrendChart(&buf, snap, analytics.FitTrend(snap.Values()))
	if errors.Is(err, views.ErrNoReadings) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		s.log.Error("trend chart render failed", "cycle", snap.Cycle, "error", err)
		http.Error(w, "chart unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardPage.Execute(w, nil); err != nil {
		s.log.Error("dashboard render failed", "error", err)
	}
}

type tablePageData struct {
	Dataset *models.Dataset
	Filter  string
	Rows    [][]string
}

func (s *Server) tableHandler(w http.ResponseWriter, r *http.Request) {
	filter := strings.TrimSpace(r.URL.Query().Get("filter"))
	data := tablePageData{Dataset: s.dataset, Filter: filter}
	if s.dataset != nil {
		data.Rows = filterRows(s.dataset.Rows, filter)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tablePage.Execute(w, data); err != nil {
		s.log.Error("table render failed", "error", err)
	}
}

// filterRows keeps rows where any cell contains filter, case-insensitively.
func filterRows(rows [][]string, filter string) [][]string {
	if filter == "" {
		return rows
	}
	needle := strings.ToLower(filter)
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		for _, cell := range row {
			if strings.Contains(strings.ToLower(cell), needle) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.log.Info("server is shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error("could not gracefully shutdown the server", "error", err)
		}
	}()

	s.log.Info("server is ready to handle requests", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not listen on %s: %w", addr, err)
	}

	<-done
	s.log.Info("server stopped")
	return nil
}
