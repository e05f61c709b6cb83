package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// IndexerMetrics instruments a corpus rebuild run.
type IndexerMetrics struct {
	registry *prometheus.Registry

	chunksIndexed *prometheus.CounterVec
	embedDuration prometheus.Histogram
	embedInFlight prometheus.Gauge
	rebuildTotal  *prometheus.CounterVec
}

func NewIndexerMetrics() *IndexerMetrics {
	registry := prometheus.NewRegistry()

	chunksIndexed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tkc",
			Subsystem: "indexer",
			Name:      "chunks_indexed_total",
			Help:      "Chunks written to the index by document type.",
		},
		[]string{"doc_type"},
	)
	embedDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tkc",
			Subsystem: "indexer",
			Name:      "embed_batch_duration_seconds",
			Help:      "Embedding batch call duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	embedInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tkc",
			Subsystem: "indexer",
			Name:      "embed_batches_in_flight",
			Help:      "Number of embedding batches currently in flight.",
		},
	)
	rebuildTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tkc",
			Subsystem: "indexer",
			Name:      "rebuild_total",
			Help:      "Index rebuild attempts by outcome.",
		},
		[]string{"status"},
	)

	registry.MustRegister(chunksIndexed, embedDuration, embedInFlight, rebuildTotal)

	return &IndexerMetrics{
		registry:      registry,
		chunksIndexed: chunksIndexed,
		embedDuration: embedDuration,
		embedInFlight: embedInFlight,
		rebuildTotal:  rebuildTotal,
	}
}

func (m *IndexerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *IndexerMetrics) AddChunks(docType string, n int) {
	m.chunksIndexed.WithLabelValues(docType).Add(float64(n))
}

func (m *IndexerMetrics) StartEmbedBatch() {
	m.embedInFlight.Inc()
}

func (m *IndexerMetrics) FinishEmbedBatch(duration time.Duration) {
	m.embedInFlight.Dec()
	m.embedDuration.Observe(duration.Seconds())
}

func (m *IndexerMetrics) RecordRebuild(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.rebuildTotal.WithLabelValues(status).Inc()
}
