// Package metrics exposes run progress as Prometheus metrics. A Collector
// plugs into the suite as an observer and can be served over HTTP or dumped
// in text exposition format at the end of a run.
package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/psantana5/encoder-quality/internal/suite"
)

// Collector aggregates job and suite events into Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry

	jobsTotal      *prometheus.CounterVec
	activeJobs     prometheus.Gauge
	encodeDuration prometheus.Histogram
	vmafDuration   prometheus.Histogram
	vmafScore      prometheus.Histogram
	suiteDuration  *prometheus.GaugeVec
	suiteTests     *prometheus.GaugeVec
}

// NewCollector builds a collector with its own registry so repeated runs
// never collide on global metric registration.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		jobsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "encq_jobs_total",
				Help: "Total number of finished jobs by outcome",
			},
			[]string{"outcome"},
		),
		activeJobs: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "encq_active_jobs",
				Help: "Number of jobs currently running on the worker pool",
			},
		),
		encodeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "encq_encode_duration_seconds",
				Help:    "Duration of successful encodes in seconds",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 12),
			},
		),
		vmafDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "encq_vmaf_duration_seconds",
				Help:    "Duration of successful VMAF runs in seconds",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 12),
			},
		),
		vmafScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "encq_vmaf_score",
				Help:    "VMAF scores of successful jobs (0-100)",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
		),
		suiteDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "encq_suite_duration_seconds",
				Help: "Wall-clock duration of the last run per suite",
			},
			[]string{"suite"},
		),
		suiteTests: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "encq_suite_tests",
				Help: "Number of collected results in the last run per suite",
			},
			[]string{"suite"},
		),
	}

	c.registry.MustRegister(c.jobsTotal)
	c.registry.MustRegister(c.activeJobs)
	c.registry.MustRegister(c.encodeDuration)
	c.registry.MustRegister(c.vmafDuration)
	c.registry.MustRegister(c.vmafScore)
	c.registry.MustRegister(c.suiteDuration)
	c.registry.MustRegister(c.suiteTests)

	return c
}

// JobStarted implements suite.Observer.
func (c *Collector) JobStarted() {
	c.activeJobs.Inc()
}

// JobFinished implements suite.Observer. Durations and scores are only
// observed for the steps that succeeded; failed steps still count in the
// outcome totals.
func (c *Collector) JobFinished(r *suite.Result) {
	c.activeJobs.Dec()
	c.jobsTotal.WithLabelValues(outcomeLabel(r)).Inc()

	if r.EncodeResult == suite.OutcomeSuccess {
		c.encodeDuration.Observe(r.EncodeTime.Seconds())
	}
	if r.VMAFResult == suite.OutcomeSuccess {
		c.vmafDuration.Observe(r.VMAFTime.Seconds())
		c.vmafScore.Observe(r.VMAFScore)
	}
}

// SuiteFinished implements suite.Observer.
func (c *Collector) SuiteFinished(name string, results int, elapsed time.Duration) {
	c.suiteDuration.WithLabelValues(name).Set(elapsed.Seconds())
	c.suiteTests.WithLabelValues(name).Set(float64(results))
}

// WriteText writes every registered metric to w in Prometheus text
// exposition format.
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return err
	}

	encoder := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := encoder.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

// outcomeLabel reduces a result to one outcome: the encode step when it did
// not succeed, the VMAF step otherwise.
func outcomeLabel(r *suite.Result) string {
	if r.EncodeResult != suite.OutcomeSuccess {
		return r.EncodeResult.String()
	}
	return r.VMAFResult.String()
}
