package fetch

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"antarctic-dashboard/internal/models"
)

// Failure categories.
const (
	CategoryTransport = "transport"
	CategoryParse     = "parse"
)

var fetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "dataset_fetch_failures_total",
	Help: "Total number of failed dataset fetches by category",
}, []string{"category"})

// MaxBodyBytes caps the response body read by Fetch. Larger documents fail
// with CategoryParse.
const MaxBodyBytes int64 = 16 << 20

var errBodyTooLarge = errors.New("response body too large")

// FetchError classifies a failed fetch.
type FetchError struct {
	Category string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Category, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type Fetcher struct {
	client    *http.Client
	url       string
	userAgent string
	maxBytes  int64
}

func NewFetcher(url, userAgent string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		url:       url,
		userAgent: userAgent,
		maxBytes:  MaxBodyBytes,
	}
}

// Fetch downloads and parses the CSV resource. Errors are *FetchError.
func (f *Fetcher) Fetch(ctx context.Context) (*models.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, &FetchError{Category: CategoryTransport, Err: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Category: CategoryTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{Category: CategoryTransport, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	body := &limitedReader{r: resp.Body, n: f.maxBytes}
	dataset, err := parseCSV(body)
	if errors.Is(err, errBodyTooLarge) {
		return nil, &FetchError{Category: CategoryParse, Err: fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, f.maxBytes)}
	}
	if err != nil {
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) {
			return nil, &FetchError{Category: CategoryTransport, Err: err}
		}
		return nil, &FetchError{Category: CategoryParse, Err: err}
	}

	dataset.Source = f.url
	dataset.FetchedAt = time.Now()
	return dataset, nil
}

// limitedReader fails with errBodyTooLarge once more than n bytes are read,
// where io.LimitReader would silently truncate.
type limitedReader struct {
	r io.Reader
	n int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.n < 0 {
		return 0, errBodyTooLarge
	}
	if int64(len(p)) > l.n+1 {
		p = p[:l.n+1]
	}
	n, err := l.r.Read(p)
	l.n -= int64(n)
	if l.n < 0 {
		return n, errBodyTooLarge
	}
	return n, err
}

func parseCSV(r io.Reader) (*models.Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("empty csv document")
	}

	return &models.Dataset{
		Columns: records[0],
		Rows:    records[1:],
	}, nil
}

// Load performs the one-shot startup fetch. Failures are logged and counted,
// and result in a nil dataset.
func Load(ctx context.Context, f *Fetcher, log *slog.Logger) *models.Dataset {
	start := time.Now()

	dataset, err := f.Fetch(ctx)
	if err != nil {
		category := CategoryTransport
		var fe *FetchError
		if errors.As(err, &fe) {
			category = fe.Category
		}
		fetchFailures.WithLabelValues(category).Inc()
		log.Error("dataset fetch failed, continuing without data",
			"url", f.url, "category", category, "error", err)
		return nil
	}

	log.Info("dataset loaded",
		"url", f.url,
		"columns", len(dataset.Columns),
		"rows", len(dataset.Rows),
		"duration", time.Since(start))
	return dataset
}
