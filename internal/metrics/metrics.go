// Package metrics records investment submissions and ranking evaluations.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes besides the ledger rejection kinds.
const (
	OutcomeAccepted           = "accepted"
	OutcomeSuppressed         = "suppressed"
	OutcomeTransportFailure   = "transport_failure"
	OutcomeApplicationFailure = "application_failure"
)

// Recorder holds the counters. A nil *Recorder records nothing.
type Recorder struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	rankings    *prometheus.CounterVec
}

// New registers the counters on a fresh registry.
func New() *Recorder {
	registry := prometheus.NewRegistry()
	r := &Recorder{
		registry: registry,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackvote",
			Name:      "investment_submissions_total",
			Help:      "Investment submissions by outcome.",
		}, []string{"outcome"}),
		rankings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackvote",
			Name:      "rankings_total",
			Help:      "Ranking evaluations by contest stage.",
		}, []string{"stage"}),
	}
	registry.MustRegister(r.submissions, r.rankings)
	return r
}

// Submission counts one investment attempt.
func (r *Recorder) Submission(outcome string) {
	if r == nil {
		return
	}
	r.submissions.WithLabelValues(outcome).Inc()
}

// Ranking counts one ranking evaluation.
func (r *Recorder) Ranking(stage string) {
	if r == nil {
		return
	}
	r.rankings.WithLabelValues(stage).Inc()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
