// Package prometheus exports engine metrics through the Prometheus client.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/smtgo"
)

var _ smtgo.MetricsCollector = (*Collector)(nil)

// Collector implements smtgo.MetricsCollector with Prometheus metrics.
type Collector struct {
	opLatency      *prometheus.HistogramVec
	nbest          prometheus.Histogram
	sessions       *prometheus.CounterVec
	liveSessions   prometheus.Gauge
	errorsByReason *prometheus.CounterVec
}

// NewCollector creates the engine metrics and registers them with reg.
// A nil reg registers with prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "smtgo_operation_latency_seconds",
			Help:    "Latency of engine operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "status"}),
		nbest: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "smtgo_translate_nbest",
			Help:    "Requested n-best list sizes",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smtgo_sessions_total",
			Help: "Session operations",
		}, []string{"event", "status"}),
		liveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "smtgo_sessions_live",
			Help: "Sessions created and not yet destroyed",
		}),
		errorsByReason: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smtgo_translate_errors_total",
			Help: "Failed translate requests by error code",
		}, []string{"code"}),
	}

	for _, m := range []prometheus.Collector{c.opLatency, c.nbest, c.sessions, c.liveSessions, c.errorsByReason} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordInit implements smtgo.MetricsCollector.
func (c *Collector) RecordInit(d time.Duration, err error) {
	c.opLatency.WithLabelValues("init", status(err)).Observe(d.Seconds())
}

// RecordTranslate implements smtgo.MetricsCollector.
func (c *Collector) RecordTranslate(nbest int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("translate", status(err)).Observe(d.Seconds())
	c.nbest.Observe(float64(max(nbest, 1)))
	if err != nil {
		c.errorsByReason.WithLabelValues(smtgo.Code(err).String()).Inc()
	}
}

// RecordSessionCreate implements smtgo.MetricsCollector.
func (c *Collector) RecordSessionCreate(err error) {
	c.sessions.WithLabelValues("create", status(err)).Inc()
	if err == nil {
		c.liveSessions.Inc()
	}
}

// RecordSessionDestroy implements smtgo.MetricsCollector.
func (c *Collector) RecordSessionDestroy(err error) {
	c.sessions.WithLabelValues("destroy", status(err)).Inc()
	if err == nil {
		c.liveSessions.Dec()
	}
}
