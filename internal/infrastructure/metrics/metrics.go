// Package metrics exposes Prometheus collectors for the mail pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// EmailsSent counts successfully delivered emails.
	EmailsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total emails delivered by the worker",
		},
	)

	// EmailFailures counts emails that exhausted delivery retries.
	EmailFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "email_failures_total",
			Help: "Total emails that failed delivery",
		},
	)

	// EmailsDequeued counts jobs popped from the queue, by lane.
	EmailsDequeued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_dequeued_total",
			Help: "Total jobs dequeued by the worker",
		},
		[]string{"lane"},
	)

	// QueueDepth tracks the combined depth of both queue lanes.
	QueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mail_queue_depth",
			Help: "Pending jobs across both priority lanes",
		},
	)
)

// Init registers all collectors with the default registry.
func Init() {
	prometheus.MustRegister(EmailsSent)
	prometheus.MustRegister(EmailFailures)
	prometheus.MustRegister(EmailsDequeued)
	prometheus.MustRegister(QueueDepth)
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
