package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the ledger metrics on its own registry. A nil *Collector is
// valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	commits        *prometheus.CounterVec
	commitDuration *prometheus.HistogramVec
	retries        prometheus.Counter
	ledgerEntries  *prometheus.CounterVec
	availability   *prometheus.CounterVec
	conversions    *prometheus.CounterVec
}

// NewCollector creates a collector with Go runtime and process metrics.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		commits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_commits_total",
				Help: "Ledger commit attempts by outcome",
			},
			[]string{"outcome"},
		),
		commitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_commit_duration_seconds",
				Help:    "Time spent in one commit transaction",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
			},
			[]string{"outcome"},
		),
		retries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_contention_retries_total",
				Help: "Commits retried after lock or version contention",
			},
		),
		ledgerEntries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_entries_written_total",
				Help: "Ledger entries appended by reason",
			},
			[]string{"reason"},
		),
		availability: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_availability_checks_total",
				Help: "Availability check lines by result",
			},
			[]string{"result"},
		),
		conversions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unit_conversions_total",
				Help: "Unit conversions requested through the API by kind",
			},
			[]string{"kind"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.commits,
		c.commitDuration,
		c.retries,
		c.ledgerEntries,
		c.availability,
		c.conversions,
	)
	return c
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveCommit records one finished commit attempt.
func (c *Collector) ObserveCommit(outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.commits.WithLabelValues(outcome).Inc()
	c.commitDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (c *Collector) IncRetry() {
	if c == nil {
		return
	}
	c.retries.Inc()
}

func (c *Collector) AddEntries(reason string, n int) {
	if c == nil || n == 0 {
		return
	}
	c.ledgerEntries.WithLabelValues(reason).Add(float64(n))
}

func (c *Collector) ObserveAvailability(satisfiable bool) {
	if c == nil {
		return
	}
	result := "short"
	if satisfiable {
		result = "satisfiable"
	}
	c.availability.WithLabelValues(result).Inc()
}

func (c *Collector) ObserveConversion(kind string) {
	if c == nil {
		return
	}
	c.conversions.WithLabelValues(kind).Inc()
}
