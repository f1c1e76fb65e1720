// Package metrics holds the webhook outcome counters. Request totals
// and latency histograms come from the echoprometheus middleware;
// both land on the default registry served at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultCreated          = "created"
	ResultDuplicate        = "duplicate"
	ResultInvalidSignature = "invalid_signature"
	ResultValidationError  = "validation_error"
)

var webhookRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "webhook_requests_total",
	Help: "Webhook processing outcomes",
}, []string{"result"})

// CountWebhook records the terminal outcome of one webhook request.
// It is a passive side-channel: it cannot fail and never influences
// the response.
func CountWebhook(result string) {
	webhookRequests.WithLabelValues(result).Inc()
}
