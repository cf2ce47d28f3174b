package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/diillson/genomics-finops-go/internal/domain/entity"
)

const namespace = "genomics_finops"

// PrometheusRecorder implements repository.MetricsRecorder on a private
// registry and writes it in the textfile collector format on Flush.
type PrometheusRecorder struct {
	registry *prometheus.Registry
	file     string

	fetchTotal    *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	filesListed   prometheus.Counter

	lastRun       prometheus.Gauge
	runDuration   prometheus.Gauge
	projects      *prometheus.GaugeVec
	storageBytes  *prometheus.GaugeVec
	dailyCost     *prometheus.GaugeVec
	distinctFiles prometheus.Gauge
}

// NewPrometheusRecorder creates a recorder. An empty file keeps metrics in memory.
func NewPrometheusRecorder(file string) *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		file:     file,
		fetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "file_listings_total",
				Help:      "Project file listings by outcome.",
			},
			[]string{"outcome"},
		),
		fetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "file_listing_duration_seconds",
				Help:      "Duration of one project file listing.",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
			},
		),
		filesListed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_listed_total",
				Help:      "File records returned by all listings.",
			},
		),
		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Billing day of the last completed run.",
			},
		),
		runDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_duration_seconds",
				Help:      "Wall time of the last completed run.",
			},
		),
		projects: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "projects",
				Help:      "Projects of the last run by status.",
			},
			[]string{"status"},
		),
		storageBytes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "storage_bytes",
				Help:      "Billed storage of the last run by scope.",
			},
			[]string{"scope"},
		),
		dailyCost: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "daily_storage_cost_dollars",
				Help:      "Daily storage cost of the last run by scope.",
			},
			[]string{"scope"},
		),
		distinctFiles: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "distinct_files",
				Help:      "Distinct files seen by the last run.",
			},
		),
	}

	r.registry.MustRegister(
		r.fetchTotal, r.fetchDuration, r.filesListed,
		r.lastRun, r.runDuration, r.projects, r.storageBytes, r.dailyCost, r.distinctFiles,
	)
	return r
}

// ObserveFetch records one project listing.
func (r *PrometheusRecorder) ObserveFetch(projectID string, files int, err error, took time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	r.fetchTotal.WithLabelValues(outcome).Inc()
	r.fetchDuration.Observe(took.Seconds())
	r.filesListed.Add(float64(files))
}

// ObserveRun records the outcome of a completed run.
func (r *PrometheusRecorder) ObserveRun(s entity.RunSummary) {
	r.lastRun.Set(float64(s.RunDate.Unix()))
	r.runDuration.Set(s.Duration.Seconds())
	r.distinctFiles.Set(float64(s.DistinctFiles))

	r.projects.WithLabelValues("registered").Set(float64(s.Projects))
	r.projects.WithLabelValues("empty").Set(float64(len(s.EmptyProjects)))
	r.projects.WithLabelValues("failed").Set(float64(len(s.FailedProjects)))
	r.projects.WithLabelValues("dropped_from_unique").Set(float64(s.DroppedFromUnique))

	r.storageBytes.WithLabelValues(string(entity.ScopeUnique)).Set(float64(s.UniqueSize))
	r.storageBytes.WithLabelValues(string(entity.ScopeTotal)).Set(float64(s.TotalSize))
	r.dailyCost.WithLabelValues(string(entity.ScopeUnique)).Set(s.UniqueCost)
	r.dailyCost.WithLabelValues(string(entity.ScopeTotal)).Set(s.TotalCost)
}

// Flush writes the registry to the configured file.
func (r *PrometheusRecorder) Flush() error {
	if r.file == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(r.file, r.registry); err != nil {
		return fmt.Errorf("error writing metrics to %s: %w", r.file, err)
	}
	return nil
}

// Registry exposes the underlying registry.
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}
