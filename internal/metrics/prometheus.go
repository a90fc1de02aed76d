package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace используется, если пространство имён не задано в конфигурации.
const DefaultNamespace = "giftexchange"

// PrometheusCollector реализует Collector поверх Prometheus.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	draws        *prometheus.CounterVec
	drawAttempts prometheus.Histogram
	drawDuration prometheus.Histogram
	commits      *prometheus.CounterVec
}

var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheus создаёт сборщик. При reg == nil используется prometheus.DefaultRegisterer.
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.draws = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "draw",
			Name:      "total",
			Help:      "Total draw computations by outcome (strict, relaxed, insufficient, duplicate, unsatisfiable, error).",
		}, []string{"outcome"})

		p.drawAttempts = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "draw",
			Name:      "attempts",
			Help:      "Shuffles consumed per successful draw across both restriction tiers.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1 .. 2048
		})

		p.drawDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "draw",
			Name:      "duration_seconds",
			Help:      "Latency of draw computations in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us .. ~2.6s
		})

		p.commits = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "draw",
			Name:      "commits_total",
			Help:      "Total draw commit requests by result (ok, invalid, exists, error).",
		}, []string{"result"})

		p.reg.MustRegister(p.draws, p.drawAttempts, p.drawDuration, p.commits)
	})
}

// ObserveDraw учитывает одну попытку жеребьёвки.
func (p *PrometheusCollector) ObserveDraw(outcome string, attempts int, d time.Duration) {
	p.ensureRegistered()
	p.draws.WithLabelValues(outcome).Inc()
	if attempts > 0 {
		p.drawAttempts.Observe(float64(attempts))
	}
	p.drawDuration.Observe(d.Seconds())
}

// ObserveCommit учитывает один запрос на сохранение жеребьёвки.
func (p *PrometheusCollector) ObserveCommit(result string) {
	p.ensureRegistered()
	p.commits.WithLabelValues(result).Inc()
}
