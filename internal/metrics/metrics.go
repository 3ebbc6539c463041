// Package metrics exposes Prometheus instrumentation for the settlement engine.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "imfoot_settlement_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	ledgerBuilds       *prometheus.CounterVec
	ledgerBuildLatency prometheus.Histogram
	excludedItems      prometheus.Counter
	confirmations      *prometheus.CounterVec
	gateDecisions      *prometheus.CounterVec
	rateChanges        *prometheus.CounterVec
	commissionRate     prometheus.Gauge
)

func init() {
	ledgerBuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "ledger_builds_total",
			Help: "Total ledger builds by result",
		},
		[]string{"result"},
	)
	ledgerBuildLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    metricPrefix + "ledger_build_seconds",
			Help:    "Ledger build latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
	excludedItems = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: metricPrefix + "excluded_items_total",
			Help: "Items left out of a ledger build because their record could not be computed",
		},
	)
	confirmations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "confirmations_total",
			Help: "Settlement confirmations by action and outcome",
		},
		[]string{"action", "outcome"},
	)
	gateDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "creation_gate_decisions_total",
			Help: "Creation gate decisions by outcome",
		},
		[]string{"outcome"},
	)
	rateChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "rate_changes_total",
			Help: "Commission rate change attempts by result",
		},
		[]string{"result"},
	)
	commissionRate = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: metricPrefix + "commission_rate_percent",
			Help: "Current global commission rate",
		},
	)
}

// Register registers the settlement metrics with registerer. Safe to call more than once.
func Register(registerer prometheus.Registerer) {
	registerOnce.Do(func() {
		registerer.MustRegister(
			ledgerBuilds,
			ledgerBuildLatency,
			excludedItems,
			confirmations,
			gateDecisions,
			rateChanges,
			commissionRate,
		)
	})
}

// ObserveLedgerBuild records one ledger build.
func ObserveLedgerBuild(start time.Time, skipped int, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	ledgerBuilds.WithLabelValues(result).Inc()
	ledgerBuildLatency.Observe(time.Since(start).Seconds())
	if skipped > 0 {
		excludedItems.Add(float64(skipped))
	}
}

// IncConfirmation counts a settlement confirmation attempt.
func IncConfirmation(action, outcome string) {
	confirmations.WithLabelValues(action, outcome).Inc()
}

// IncGateDecision counts a creation gate evaluation.
func IncGateDecision(allowed bool) {
	outcome := "blocked"
	if allowed {
		outcome = "allowed"
	}
	gateDecisions.WithLabelValues(outcome).Inc()
}

// ObserveRateChange counts a rate change attempt and tracks the current rate.
func ObserveRateChange(rate int, err error) {
	if err != nil {
		rateChanges.WithLabelValues(ResultError).Inc()
		return
	}
	rateChanges.WithLabelValues(ResultSuccess).Inc()
	commissionRate.Set(float64(rate))
}

// SetCommissionRate publishes the rate read at startup.
func SetCommissionRate(rate int) {
	commissionRate.Set(float64(rate))
}
