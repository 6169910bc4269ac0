package telemetry

import (
	"time"

	"workforce/config"
	"workforce/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric 未啟用時所有欄位皆為 nil，Observe 系列方法會直接略過
type Metric struct {
	HttpRequestsTotal    *prometheus.CounterVec
	HttpRequestDuration  *prometheus.HistogramVec
	DeletionTotal        *prometheus.CounterVec
	DeletionDuration     *prometheus.HistogramVec
	IdentityCleanupTotal *prometheus.CounterVec
	config               *config.Configuration
}

// NewMetric 建立所有指標
func NewMetric(config *config.Configuration) *Metric {
	if config == nil || !config.Telemetry.Metric.Enabled {
		return &Metric{}
	}
	buckets := prometheus.DefBuckets
	if len(config.Telemetry.Metric.Buckets) > 0 {
		buckets = config.Telemetry.Metric.Buckets
	}
	return &Metric{
		config: config,
		HttpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricHttpRequestsTotal),
				Help: "Total received API requests",
			},
			labelNames(core.MetricLabelEndpoint, core.MetricLabelStatus),
		),
		HttpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    config.App.Name + "_" + string(core.MetricHttpRequestDuration),
				Help:    "API request duration (seconds)",
				Buckets: buckets,
			},
			labelNames(core.MetricLabelEndpoint),
		),
		DeletionTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricDeletionTotal),
				Help: "Deletion requests by entity and outcome reason",
			},
			labelNames(core.MetricLabelEntity, core.MetricLabelOutcome),
		),
		DeletionDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    config.App.Name + "_" + string(core.MetricDeletionDuration),
				Help:    "Deletion engine duration (seconds)",
				Buckets: buckets,
			},
			labelNames(core.MetricLabelEntity),
		),
		IdentityCleanupTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricIdentityCleanupTotal),
				Help: "Identity account removal attempts by resulting job status",
			},
			labelNames(core.MetricLabelStatus),
		),
	}
}

// ObserveDeletion outcome 為 "success" 或錯誤 reason（DEPENDENT_RECORDS 等）
func (m *Metric) ObserveDeletion(entity core.EntityType, outcome string, elapsed time.Duration) {
	if m == nil || m.DeletionTotal == nil {
		return
	}
	m.DeletionTotal.WithLabelValues(string(entity), outcome).Inc()
	m.DeletionDuration.WithLabelValues(string(entity)).Observe(elapsed.Seconds())
}

func (m *Metric) ObserveIdentityCleanup(status core.OutboxStatus) {
	if m == nil || m.IdentityCleanupTotal == nil {
		return
	}
	m.IdentityCleanupTotal.WithLabelValues(string(status)).Inc()
}

// labelNames helper: LabelName slice 轉成 []string
func labelNames(labels ...core.MetricLabelName) []string {
	strs := make([]string, len(labels))
	for i, l := range labels {
		strs[i] = string(l)
	}
	return strs
}
