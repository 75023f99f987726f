// Package metrics exposes batch and extraction activity as Prometheus metrics.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/ports/driven"
	"github.com/custodia-labs/docfiler/internal/core/ports/driving"
)

const namespace = "docfiler"

var (
	_ driving.ProgressObserver  = (*Recorder)(nil)
	_ driven.ExtractionRecorder = (*Recorder)(nil)
)

// Recorder observes batch events and extraction calls. Each Recorder owns
// its registry so several can coexist in one process.
type Recorder struct {
	registry *prometheus.Registry

	ItemsTotal         *prometheus.CounterVec
	ItemDuration       prometheus.Histogram
	BatchesTotal       *prometheus.CounterVec
	BatchInProgress    prometheus.Gauge
	ExtractionsTotal   *prometheus.CounterVec
	ExtractionDuration *prometheus.HistogramVec
}

// NewRecorder creates and registers all metrics.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	r := &Recorder{registry: reg}

	r.ItemsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_total",
			Help:      "Processed files by outcome",
		},
		[]string{"status"},
	)

	r.ItemDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "item_duration_seconds",
			Help:      "Time to take one file from start to its terminal event",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	r.BatchesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Finished batches by outcome",
		},
		[]string{"outcome"},
	)

	r.BatchInProgress = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "batch_in_progress",
			Help:      "1 while a batch is running",
		},
	)

	r.ExtractionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Extraction API calls by provider and result",
		},
		[]string{"provider", "result"},
	)

	r.ExtractionDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Duration of extraction API calls",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	return r
}

// OnEvent updates the batch metrics.
func (r *Recorder) OnEvent(event domain.BatchEvent) {
	switch event.Kind {
	case domain.EventBatchStarted:
		r.BatchInProgress.Set(1)
	case domain.EventItemSucceeded:
		r.observeItem(domain.ItemSucceeded, event.Duration)
	case domain.EventItemDuplicate:
		r.observeItem(domain.ItemDuplicate, event.Duration)
	case domain.EventItemFailed:
		r.observeItem(domain.ItemFailed, event.Duration)
	case domain.EventBatchFinished:
		r.BatchInProgress.Set(0)
		outcome := "completed"
		if event.Summary != nil && event.Summary.Stopped {
			outcome = "stopped"
		}
		r.BatchesTotal.WithLabelValues(outcome).Inc()
	}
}

func (r *Recorder) observeItem(status domain.ItemStatus, d time.Duration) {
	r.ItemsTotal.WithLabelValues(string(status)).Inc()
	r.ItemDuration.Observe(d.Seconds())
}

// ObserveExtraction records one extraction call.
func (r *Recorder) ObserveExtraction(provider string, d time.Duration, err error) {
	result := "ok"
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		result = "rate_limited"
	case errors.Is(err, domain.ErrMalformedResponse), errors.Is(err, domain.ErrMissingField):
		result = "unreadable"
	case err != nil:
		result = "error"
	}
	r.ExtractionsTotal.WithLabelValues(provider, result).Inc()
	r.ExtractionDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
