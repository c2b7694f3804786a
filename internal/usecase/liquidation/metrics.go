package liquidation

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	ScanTicks     prometheus.Counter
	ScanFailures  prometheus.Counter
	EligibleFound prometheus.Counter
	Liquidations  prometheus.Counter
	Shortfalls    prometheus.Counter
}

// NewMetrics registers the keeper counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ScanTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "keeper_scan_ticks_total",
			Help: "Scan passes attempted by the keeper.",
		}),
		ScanFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "keeper_scan_failures_total",
			Help: "Scan passes that failed (oracle or storage errors).",
		}),
		EligibleFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "keeper_eligible_agreements_total",
			Help: "Agreements flagged eligible for liquidation.",
		}),
		Liquidations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "keeper_liquidations_total",
			Help: "Agreements closed by liquidation.",
		}),
		Shortfalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "keeper_recovery_shortfalls_total",
			Help: "Liquidations that recovered less than the outstanding debt.",
		}),
	}
	reg.MustRegister(m.ScanTicks, m.ScanFailures, m.EligibleFound, m.Liquidations, m.Shortfalls)
	return m
}

// NopMetrics returns unregistered counters; increments go nowhere visible.
func NopMetrics() *Metrics {
	return &Metrics{
		ScanTicks:     prometheus.NewCounter(prometheus.CounterOpts{Name: "nop_scan_ticks"}),
		ScanFailures:  prometheus.NewCounter(prometheus.CounterOpts{Name: "nop_scan_failures"}),
		EligibleFound: prometheus.NewCounter(prometheus.CounterOpts{Name: "nop_eligible"}),
		Liquidations:  prometheus.NewCounter(prometheus.CounterOpts{Name: "nop_liquidations"}),
		Shortfalls:    prometheus.NewCounter(prometheus.CounterOpts{Name: "nop_shortfalls"}),
	}
}
