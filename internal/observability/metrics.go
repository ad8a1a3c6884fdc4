package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "cwa_report"

// PushJob is the Pushgateway job name for report runs.
const PushJob = "cwa_weather_report"

// Metrics holds the Prometheus collectors for one report run. Each run owns
// its registry; nothing is registered globally.
type Metrics struct {
	Registry *prometheus.Registry

	RowsBuilt         prometheus.Gauge
	Regions           prometheus.Gauge
	FieldCoverage     *prometheus.GaugeVec // labels: field={gust,precipitation}
	FetchDuration     prometheus.Histogram
	DeliveryDuration  prometheus.Histogram
	PublishErrors     prometheus.Counter
	RunFailures       *prometheus.CounterVec // labels: stage={config,fetch,build,write,deliver}
	LastSuccessSecond prometheus.Gauge
}

// NewMetrics creates a fresh registry and registers every run metric in it.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RowsBuilt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows_built",
			Help:      "Normalized rows in the last report.",
		}),
		Regions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "regions",
			Help:      "Region groups in the last report.",
		}),
		FieldCoverage: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "field_coverage_ratio",
			Help:      "Share of stations reporting a usable value, 0-1.",
		}, []string{"field"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of the upstream data request.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		DeliveryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "delivery_duration_seconds",
			Help:      "Duration of the document upload.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed row feed publishes.",
		}),
		RunFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "run_failures_total",
			Help:      "Runs aborted, by pipeline stage.",
		}, []string{"stage"}),
		LastSuccessSecond: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last delivered report.",
		}),
	}

	m.Registry.MustRegister(
		m.RowsBuilt,
		m.Regions,
		m.FieldCoverage,
		m.FetchDuration,
		m.DeliveryDuration,
		m.PublishErrors,
		m.RunFailures,
		m.LastSuccessSecond,
	)

	return m
}

// Push sends the run's metrics to a Prometheus Pushgateway, grouped by
// dataset so the hourly and weekly jobs do not overwrite each other.
func (m *Metrics) Push(ctx context.Context, url, dataset string) error {
	err := push.New(url, PushJob).
		Gatherer(m.Registry).
		Grouping("dataset", dataset).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
