// Package metrics exposes Prometheus collectors for the sanitizer engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"opaque/internal/sanitizer"
)

// ScannerMetrics counts sanitizer outcomes.
type ScannerMetrics struct {
	Detections     *prometheus.CounterVec
	HoneytokenHits prometheus.Counter
	FloodDiscards  prometheus.Counter
}

// NewScannerMetrics creates the collectors and registers them with reg.
func NewScannerMetrics(reg prometheus.Registerer) (*ScannerMetrics, error) {
	m := &ScannerMetrics{
		Detections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opaque_detections_total",
				Help: "Total number of validated matches redacted, by kind.",
			},
			[]string{"kind"},
		),
		HoneytokenHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "opaque_honeytoken_hits_total",
				Help: "Total number of honeytoken detections.",
			},
		),
		FloodDiscards: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "opaque_flood_discards_total",
				Help: "Total number of inputs discarded by flood protection.",
			},
		),
	}

	for _, col := range []prometheus.Collector{m.Detections, m.HoneytokenHits, m.FloodDiscards} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe records one sanitize outcome. A nil receiver is a no-op so callers
// can run without metrics wired.
func (m *ScannerMetrics) Observe(res sanitizer.Result) {
	if m == nil {
		return
	}
	for _, d := range res.Detections {
		m.Detections.WithLabelValues(d.Kind).Inc()
	}
	if res.HoneytokenHits > 0 {
		m.HoneytokenHits.Add(float64(res.HoneytokenHits))
	}
	if res.Discarded {
		m.FloodDiscards.Inc()
	}
}
