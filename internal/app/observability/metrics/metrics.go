package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	GenerationRequestsTotal   metric.Int64Counter
	GenerationFailuresTotal   metric.Int64Counter
	GenerationDurationSeconds metric.Float64Histogram
	SupersededResultsTotal    metric.Int64Counter
	AssistDiscardedTotal      metric.Int64Counter
	ImageFallbacksTotal       metric.Int64Counter
	ExportRequestsTotal       metric.Int64Counter
	DBQueryDurationSeconds    metric.Float64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments exactly once,
// using the meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("voyago")
		var err error
		m := &AppMetrics{}

		m.GenerationRequestsTotal, err = meter.Int64Counter(
			"generation_requests_total",
			metric.WithDescription("Total number of itinerary generation requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create generation_requests_total: %v", err)
		}

		m.GenerationFailuresTotal, err = meter.Int64Counter(
			"generation_failures_total",
			metric.WithDescription("Total number of failed itinerary generations"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create generation_failures_total: %v", err)
		}

		m.GenerationDurationSeconds, err = meter.Float64Histogram(
			"generation_duration_seconds",
			metric.WithDescription("Duration of itinerary generation calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create generation_duration_seconds: %v", err)
		}

		m.SupersededResultsTotal, err = meter.Int64Counter(
			"superseded_results_total",
			metric.WithDescription("Generation results discarded because a newer request was issued"),
			metric.WithUnit("{result}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create superseded_results_total: %v", err)
		}

		m.AssistDiscardedTotal, err = meter.Int64Counter(
			"assist_discarded_total",
			metric.WithDescription("Destination assistance responses discarded as stale"),
			metric.WithUnit("{response}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create assist_discarded_total: %v", err)
		}

		m.ImageFallbacksTotal, err = meter.Int64Counter(
			"image_fallbacks_total",
			metric.WithDescription("Attraction image requests served the deterministic placeholder"),
			metric.WithUnit("{image}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create image_fallbacks_total: %v", err)
		}

		m.ExportRequestsTotal, err = meter.Int64Counter(
			"export_requests_total",
			metric.WithDescription("Total number of PDF export requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create export_requests_total: %v", err)
		}

		m.DBQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create db_query_duration_seconds: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the initialized metrics, or nil before InitAppMetrics runs.
func Get() *AppMetrics {
	return appMetrics
}
