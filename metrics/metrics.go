// Package metrics exposes Prometheus metrics on a dedicated listener,
// separate from the API server.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tm9657/jwk-vault/common"
)

var (
	// RecordsCreated counts successful vault record creations.
	RecordsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: common.PackageName,
		Name:      "records_created_total",
		Help:      "Number of vault records created.",
	})

	// RecordsFetched counts successful private-key retrievals.
	RecordsFetched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: common.PackageName,
		Name:      "records_fetched_total",
		Help:      "Number of successful private key retrievals.",
	})

	// RecordsDeleted counts successful record deletions.
	RecordsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: common.PackageName,
		Name:      "records_deleted_total",
		Help:      "Number of vault records deleted.",
	})

	// AuthFailures counts rejected requests, partitioned by whether the
	// API key or the record password failed.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: common.PackageName,
		Name:      "auth_failures_total",
		Help:      "Number of rejected requests by failure kind.",
	}, []string{"kind"})

	// InternalFailures counts requests that ended in a 500.
	InternalFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: common.PackageName,
		Name:      "internal_failures_total",
		Help:      "Number of requests that failed internally.",
	})
)

// MetricsServer serves the Prometheus scrape endpoint.
type MetricsServer struct {
	srv *http.Server
}

// New creates a metrics server listening on addr. The caller guards
// ListenAndServe on the address being set.
func New(addr string) (*MetricsServer, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &MetricsServer{
		srv: &http.Server{
			Addr:        addr,
			Handler:     mux,
			ReadTimeout: 5 * time.Second,
		},
	}, nil
}

// ListenAndServe starts the metrics listener and blocks until shutdown.
func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

// Shutdown gracefully stops the metrics listener.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
