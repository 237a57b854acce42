// Package metrics records vlad results as Prometheus metrics and writes them
// in the node_exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"vladiate/internal/vlad"
)

const namespace = "vladiate"

// Collector owns the metrics of one vladiate invocation.
type Collector struct {
	registry *prometheus.Registry

	rowsValidated *prometheus.CounterVec
	failures      *prometheus.CounterVec
	passed        *prometheus.GaugeVec
	duration      *prometheus.GaugeVec
}

// NewCollector registers the vladiate metrics on registry. A nil registry
// gets a fresh one.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		rowsValidated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_validated_total",
			Help:      "Data rows processed per vlad.",
		}, []string{"vlad"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Rule failures per vlad, column and validator. Row rules have an empty column.",
		}, []string{"vlad", "column", "validator"}),
		passed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_passed",
			Help:      "1 if the last run of the vlad passed, 0 otherwise.",
		}, []string{"vlad"}),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run of the vlad.",
		}, []string{"vlad"}),
	}

	registry.MustRegister(c.rowsValidated, c.failures, c.passed, c.duration)
	return c
}

// Observe records res. It satisfies vlad.Reporter.
func (c *Collector) Observe(res *vlad.Result) {
	c.rowsValidated.WithLabelValues(res.Name).Add(float64(res.LineCount))

	for _, rr := range res.Rows {
		if rr.FailCount > 0 {
			c.failures.WithLabelValues(res.Name, "", rr.RuleKey).Add(float64(rr.FailCount))
		}
	}
	for _, rr := range res.Fields {
		if rr.FailCount > 0 {
			c.failures.WithLabelValues(res.Name, rr.Column, rr.RuleKey).Add(float64(rr.FailCount))
		}
	}

	passed := 0.0
	if res.Passed {
		passed = 1
	}
	c.passed.WithLabelValues(res.Name).Set(passed)
	c.duration.WithLabelValues(res.Name).Set(res.Duration.Seconds())
}

// Report is Observe under the vlad.Reporter name.
func (c *Collector) Report(res *vlad.Result) { c.Observe(res) }

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// WriteTextfile writes every registered metric to path atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
