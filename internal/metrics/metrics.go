package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ddarch",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ddarch",
			Name:      "submissions_total",
			Help:      "Form submissions by record kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	emails = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ddarch",
			Name:      "emails_total",
			Help:      "Notification email attempts by record kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, submissions, emails)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncSubmission records one submission outcome (stored, rejected, failed).
func IncSubmission(kind, outcome string) {
	submissions.WithLabelValues(kind, outcome).Inc()
}

// IncEmail records one notification attempt outcome (sent, failed).
func IncEmail(kind, outcome string) {
	emails.WithLabelValues(kind, outcome).Inc()
}
