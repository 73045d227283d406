// Package metrics exposes a System's dedup-ratio telemetry as Prometheus
// gauges. cdcstore-bench has no network-facing API, so these collectors
// are never served over HTTP; instead the bench CLI dumps them in the
// Prometheus text exposition format the same way a textfile collector
// would, using the registry and encoder directly.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dedupfs/cdcstore/internal/cdcsystem"
)

// Recorder holds the gauges for one System's accumulated stats.
type Recorder struct {
	bytesWritten       prometheus.Gauge
	chunksEmitted      prometheus.Gauge
	uniqueFingerprints prometheus.Gauge
	dedupRatio         prometheus.Gauge
}

// NewRecorder builds a Recorder and registers its collectors with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		bytesWritten: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cdcstore_bytes_written_total",
			Help: "Total bytes passed to Write/WriteStream, including deduplicated bytes.",
		}),
		chunksEmitted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cdcstore_chunks_emitted_total",
			Help: "Total chunk spans cut by the chunker across all writes.",
		}),
		uniqueFingerprints: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cdcstore_unique_fingerprints",
			Help: "Count of distinct chunk fingerprints ever upserted.",
		}),
		dedupRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cdcstore_dedup_ratio",
			Help: "Bytes written divided by estimated unique bytes stored.",
		}),
	}
	reg.MustRegister(r.bytesWritten, r.chunksEmitted, r.uniqueFingerprints, r.dedupRatio)
	return r
}

// Observe sets every gauge from a Stats snapshot. avgChunkSize feeds
// Stats.DedupRatio's estimate.
func (r *Recorder) Observe(stats cdcsystem.Stats, avgChunkSize int64) {
	r.bytesWritten.Set(float64(stats.BytesWritten))
	r.chunksEmitted.Set(float64(stats.ChunksEmitted))
	r.uniqueFingerprints.Set(float64(stats.UniqueFingerprintsSeen))
	r.dedupRatio.Set(stats.DedupRatio(avgChunkSize))
}
