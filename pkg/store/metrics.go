package store

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultOK      = "ok"
	resultInvalid = "invalid"
	resultHit     = "hit"
	resultMiss    = "miss"
)

type registryMetrics struct {
	puts         *prometheus.CounterVec
	gets         *prometheus.CounterVec
	appends      prometheus.Counter
	cacheEntries prometheus.Gauge
}

// newRegistryMetrics creates the registry collectors and registers them on
// reg when it is not nil. Collectors already registered by another registry
// are shared.
func newRegistryMetrics(reg prometheus.Registerer) *registryMetrics {
	m := &registryMetrics{
		puts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carreg_puts_total",
			Help: "Vehicles submitted to the registry, by result.",
		}, []string{"result"}),
		gets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carreg_gets_total",
			Help: "Registry lookups, by whether the bucket held any id.",
		}, []string{"result"}),
		appends: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carreg_bucket_appends_total",
			Help: "Vehicle ids appended to subset buckets.",
		}),
		cacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "carreg_subset_cache_entries",
			Help: "Distinct triples with cached subset keys.",
		}),
	}

	if reg == nil {
		return m
	}

	m.puts = register(reg, m.puts)
	m.gets = register(reg, m.gets)
	m.appends = register(reg, m.appends)
	m.cacheEntries = register(reg, m.cacheEntries)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}
