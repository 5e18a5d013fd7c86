// Package metrics exposes Prometheus counters for API usage: request
// outcomes, retries, fallbacks, and token consumption reported by the
// provider's response metadata.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var _ prometheus.Collector = (*Metrics)(nil)

type Metrics struct {
	Requests         prometheus.Counter
	Failures         prometheus.Counter
	Retries          prometheus.Counter
	Fallbacks        prometheus.Counter
	PromptTokens     prometheus.Counter
	CompletionTokens prometheus.Counter
	TotalTokens      prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Requests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "counsel",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of completed model API exchanges",
		}),
		Failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "counsel",
			Subsystem: "api",
			Name:      "failures_total",
			Help:      "Total number of model API exchanges that failed with a non-retryable error",
		}),
		Retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "counsel",
			Subsystem: "api",
			Name:      "retries_total",
			Help:      "Total number of retried model API attempts",
		}),
		Fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "counsel",
			Subsystem: "api",
			Name:      "fallbacks_total",
			Help:      "Total number of replies served from the static fallback message",
		}),
		PromptTokens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "counsel",
			Subsystem: "tokens",
			Name:      "prompt_total",
			Help:      "Total prompt tokens reported by provider usage metadata",
		}),
		CompletionTokens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "counsel",
			Subsystem: "tokens",
			Name:      "completion_total",
			Help:      "Total completion tokens reported by provider usage metadata",
		}),
		TotalTokens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "counsel",
			Subsystem: "tokens",
			Name:      "used_total",
			Help:      "Total tokens reported by provider usage metadata",
		}),
	}
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(c chan<- prometheus.Metric) {
	m.Requests.Collect(c)
	m.Failures.Collect(c)
	m.Retries.Collect(c)
	m.Fallbacks.Collect(c)
	m.PromptTokens.Collect(c)
	m.CompletionTokens.Collect(c)
	m.TotalTokens.Collect(c)
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(d chan<- *prometheus.Desc) {
	prometheus.DescribeByCollect(m, d)
}
