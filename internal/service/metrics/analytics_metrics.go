package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	EngineLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sentipull",
			Subsystem: "engine",
			Name:      "latency_seconds",
			Help:      "Latency of sentiment endpoints including the upstream fetch",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	EngineErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sentipull",
			Subsystem: "engine",
			Name:      "errors_total",
			Help:      "Errors by sentiment endpoint and kind",
		},
		[]string{"endpoint", "kind"},
	)

	ResponseCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sentipull",
			Subsystem: "engine",
			Name:      "response_cache_total",
			Help:      "Response cache lookups by result",
		},
		[]string{"result"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(EngineLatency, EngineErrors, ResponseCache)
	})
}
