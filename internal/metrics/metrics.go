// Package metrics exposes the Prometheus instruments for the pricing path.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Metrics holds the registered collectors. A single instance is provided
// through fx and shared by the services that record on it.
type Metrics struct {
	Calculations     *prometheus.CounterVec
	DiscountsApplied *prometheus.CounterVec
	CalcDuration     prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		Calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tirta",
			Name:      "price_calculations_total",
			Help:      "Price calculations by outcome.",
		}, []string{"outcome"}),
		DiscountsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tirta",
			Name:      "discounts_applied_total",
			Help:      "Discounts included in calculation results, by source type.",
		}, []string{"source_type"}),
		CalcDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tirta",
			Name:      "price_calculation_duration_seconds",
			Help:      "Wall time of a single price calculation.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	prometheus.MustRegister(m.Calculations, m.DiscountsApplied, m.CalcDuration)
	return m
}

var Module = fx.Module("metrics",
	fx.Provide(New),
)
