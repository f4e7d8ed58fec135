package net

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Viewers    prometheus.Gauge
	Broadcasts prometheus.Counter
	Coalesced  prometheus.Counter
	Revision   prometheus.Gauge
}

var (
	metricsOnce     sync.Once
	metricsInstance *Metrics
)

func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInstance = &Metrics{
			Viewers: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "localnotes_share_viewers",
				Help: "Current number of connected viewers",
			}),
			Broadcasts: promauto.NewCounter(prometheus.CounterOpts{
				Name: "localnotes_share_broadcasts_total",
				Help: "Total number of document updates sent to viewers",
			}),
			Coalesced: promauto.NewCounter(prometheus.CounterOpts{
				Name: "localnotes_share_coalesced_total",
				Help: "Updates replaced by a newer revision before being sent",
			}),
			Revision: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "localnotes_document_revision",
				Help: "Revision of the last published document",
			}),
		}
	})
	return metricsInstance
}

func (m *Metrics) viewerConnected() {
	if m == nil {
		return
	}
	m.Viewers.Inc()
}

func (m *Metrics) viewerDisconnected() {
	if m == nil {
		return
	}
	m.Viewers.Dec()
}

func (m *Metrics) sent() {
	if m == nil {
		return
	}
	m.Broadcasts.Inc()
}

func (m *Metrics) coalesced() {
	if m == nil {
		return
	}
	m.Coalesced.Inc()
}

func (m *Metrics) published(rev uint64) {
	if m == nil {
		return
	}
	m.Revision.Set(float64(rev))
}
