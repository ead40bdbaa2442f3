// Package metrics holds the prometheus collectors of the admin API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors; one instance per registry
type Metrics struct {
	DispatchRecipients  *prometheus.CounterVec
	DispatchBatches     *prometheus.CounterVec
	CampaignEvaluations *prometheus.CounterVec
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DispatchRecipients: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loyalty",
			Name:      "dispatch_recipients_total",
			Help:      "Push notification recipients by outcome.",
		}, []string{"outcome"}),
		DispatchBatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loyalty",
			Name:      "dispatch_batches_total",
			Help:      "Push notification batches by gateway and result.",
		}, []string{"gateway", "result"}),
		CampaignEvaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loyalty",
			Name:      "campaign_evaluations_total",
			Help:      "Campaign eligibility checks by reason.",
		}, []string{"reason"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loyalty",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "loyalty",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.DispatchRecipients, m.DispatchBatches, m.CampaignEvaluations, m.HTTPRequests, m.HTTPDuration)
	return m
}

// NewUnregistered returns collectors attached to a throwaway registry
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry())
}
