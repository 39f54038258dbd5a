// Package metrics exposes attendance counters in the Prometheus format.
package metrics

import (
	"net/http"

	"github.com/dmitrijs2005/gophattend/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gophattend"

// Recorder owns a private registry so tests and multiple servers in one
// process do not collide.
type Recorder struct {
	registry *prometheus.Registry

	challenges    prometheus.Counter
	submissions   *prometheus.CounterVec
	registrations *prometheus.CounterVec
	requests      *prometheus.CounterVec
	rateLimited   prometheus.Counter
}

var _ services.Metrics = (*Recorder)(nil)

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		challenges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "challenges_issued_total",
			Help:      "Challenges signed and handed out.",
		}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Attendance submissions by outcome and reason.",
		}, []string{"outcome", "reason"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Registration attempts by result.",
		}, []string{"result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grpc_requests_total",
			Help:      "gRPC requests by method and status code.",
		}, []string{"method", "code"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-peer rate limit.",
		}),
	}
	r.registry.MustRegister(
		r.challenges, r.submissions, r.registrations, r.requests, r.rateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) ChallengeIssued() { r.challenges.Inc() }

func (r *Recorder) SubmissionObserved(outcome services.Outcome, reason string) {
	r.submissions.WithLabelValues(string(outcome), reason).Inc()
}

func (r *Recorder) RegistrationObserved(reason string) {
	if reason == "" {
		reason = "ok"
	}
	r.registrations.WithLabelValues(reason).Inc()
}

// RequestHandled counts one finished gRPC call.
func (r *Recorder) RequestHandled(method, code string) {
	r.requests.WithLabelValues(method, code).Inc()
}

// RateLimited counts one rejected call.
func (r *Recorder) RateLimited() { r.rateLimited.Inc() }

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry at /metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
