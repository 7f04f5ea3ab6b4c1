// Package metrics exposes Prometheus instrumentation for the advisor.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Generation results
const (
	ResultOK        = "ok"
	ResultTransport = "transport_error"
	ResultMalformed = "malformed"
)

// Recorder holds the advisor collectors. A nil *Recorder records nothing.
type Recorder struct {
	turns         *prometheus.CounterVec
	piiDetections *prometheus.CounterVec
	generations   *prometheus.CounterVec
	genDuration   prometheus.Histogram
	wsClients     prometheus.Gauge
}

// New creates a Recorder and registers its collectors with reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_turns_total",
			Help: "Total chat turns by outcome",
		}, []string{"outcome"}),
		piiDetections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_pii_detections_total",
			Help: "Total PII detections by category",
		}, []string{"category"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_generation_requests_total",
			Help: "Total generation service calls by result",
		}, []string{"result"}),
		genDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "advisor_generation_duration_seconds",
			Help:    "Generation service call latency",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30},
		}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "advisor_websocket_clients",
			Help: "Connected WebSocket clients",
		}),
	}
	reg.MustRegister(r.turns, r.piiDetections, r.generations, r.genDuration, r.wsClients)
	return r
}

// RegisterSessions exports the live session count read from count on each scrape.
func RegisterSessions(reg prometheus.Registerer, count func() int) {
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "advisor_sessions_active",
		Help: "Sessions currently held in memory",
	}, func() float64 { return float64(count()) }))
}

// Turn counts a finished turn.
func (r *Recorder) Turn(outcome string) {
	if r == nil {
		return
	}
	r.turns.WithLabelValues(outcome).Inc()
}

// PIIDetected counts each detected category.
func (r *Recorder) PIIDetected(categories ...string) {
	if r == nil {
		return
	}
	for _, c := range categories {
		r.piiDetections.WithLabelValues(c).Inc()
	}
}

// Generation counts a generation call and observes its latency.
func (r *Recorder) Generation(result string, d time.Duration) {
	if r == nil {
		return
	}
	r.generations.WithLabelValues(result).Inc()
	r.genDuration.Observe(d.Seconds())
}

// ClientConnected increments the WebSocket client gauge.
func (r *Recorder) ClientConnected() {
	if r == nil {
		return
	}
	r.wsClients.Inc()
}

// ClientDisconnected decrements the WebSocket client gauge.
func (r *Recorder) ClientDisconnected() {
	if r == nil {
		return
	}
	r.wsClients.Dec()
}
