package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the service's prometheus collectors
type Registry struct {
	reg            *prometheus.Registry
	VatWrites      *prometheus.CounterVec
	VatWriteErrors *prometheus.CounterVec
	VatRowsCreated prometheus.Counter
	VatRowsRemoved prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	writes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order17vat_writes_total",
		Help: "VAT 17% flag writes by action.",
	}, []string{"action"})
	writeErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order17vat_write_errors_total",
		Help: "Failed VAT 17% flag writes by action and reason.",
	}, []string{"action", "reason"})
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order17vat_rows_created_total",
		Help: "Side table rows created lazily on first write.",
	})
	removed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order17vat_rows_removed_total",
		Help: "Side table rows removed with their order or by the orphan sweep.",
	})

	r.MustRegister(writes, writeErrors, created, removed)
	return &Registry{
		reg:            r,
		VatWrites:      writes,
		VatWriteErrors: writeErrors,
		VatRowsCreated: created,
		VatRowsRemoved: removed,
	}
}

// Gatherer exposes the underlying registry, mainly for tests
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
