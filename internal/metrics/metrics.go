package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RecordsProcessed *prometheus.CounterVec
	APIErrors        prometheus.Counter
	RequestSeconds   *prometheus.HistogramVec
	AddressesCreated prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RecordsProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "addrfix_records_processed_total",
			Help: "Total number of processed address references, labeled by kind and status.",
		}, []string{"kind", "status"}),
		APIErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "addrfix_provider_api_errors_total",
			Help: "Total number of errors received from the reverse geocoding provider API.",
		}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "addrfix_provider_request_duration_seconds",
			Help:    "Duration of requests to the reverse geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		AddressesCreated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "addrfix_addresses_upserted_total",
			Help: "Total number of address rows resolved through the deduplicating store.",
		}),
	}
}
