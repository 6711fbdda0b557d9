// Package metrics exposes Prometheus counters for the auth subsystem.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records token issuance, federation outcomes and rejected
// requests.
type Collector struct {
	tokensIssued *prometheus.CounterVec
	federations  *prometheus.CounterVec
	rejections   *prometheus.CounterVec
}

// NewCollector registers the auth metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		tokensIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "educatalog_tokens_issued_total",
			Help: "Identity tokens issued, by credential method.",
		}, []string{"method"}),
		federations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "educatalog_oauth_federations_total",
			Help: "OAuth federation outcomes.",
		}, []string{"outcome"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "educatalog_auth_rejections_total",
			Help: "Requests rejected by the authentication or authorization gates, by error code.",
		}, []string{"code"}),
	}
	reg.MustRegister(c.tokensIssued, c.federations, c.rejections)
	return c
}

func (c *Collector) RecordTokenIssued(method string) {
	c.tokensIssued.WithLabelValues(method).Inc()
}

func (c *Collector) RecordFederation(outcome string) {
	c.federations.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordRejection(code string) {
	c.rejections.WithLabelValues(code).Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
