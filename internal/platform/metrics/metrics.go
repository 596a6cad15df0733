package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the dashboard's operational counters on a private
// prometheus registry, served at /metrics.
type Registry struct {
	reg *prometheus.Registry

	PendingLists     prometheus.Counter
	Claims           prometheus.Counter
	Releases         prometheus.Counter
	Completes        prometheus.Counter
	UnexpectedErrors prometheus.Counter

	BackfillRepaired   prometheus.Counter
	BackfillLineMissed prometheus.Counter

	ReconcilerReleased prometheus.Counter
	OutboxPublished    prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	pendingLists := prometheus.NewCounter(prometheus.CounterOpts{Name: "sourcing_pending_lists_total"})
	claims := prometheus.NewCounter(prometheus.CounterOpts{Name: "sourcing_order_claims_total"})
	releases := prometheus.NewCounter(prometheus.CounterOpts{Name: "sourcing_order_releases_total"})
	completes := prometheus.NewCounter(prometheus.CounterOpts{Name: "sourcing_order_completes_total"})
	unexpected := prometheus.NewCounter(prometheus.CounterOpts{Name: "sourcing_unexpected_errors_total"})
	repaired := prometheus.NewCounter(prometheus.CounterOpts{Name: "sourcing_backfill_repaired_total"})
	lineMissed := prometheus.NewCounter(prometheus.CounterOpts{Name: "sourcing_backfill_missing_lines_total"})
	reconciled := prometheus.NewCounter(prometheus.CounterOpts{Name: "sourcing_reconciler_released_total"})
	published := prometheus.NewCounter(prometheus.CounterOpts{Name: "sourcing_outbox_published_total"})

	r.MustRegister(pendingLists, claims, releases, completes, unexpected, repaired, lineMissed, reconciled, published)
	return &Registry{
		reg:                r,
		PendingLists:       pendingLists,
		Claims:             claims,
		Releases:           releases,
		Completes:          completes,
		UnexpectedErrors:   unexpected,
		BackfillRepaired:   repaired,
		BackfillLineMissed: lineMissed,
		ReconcilerReleased: reconciled,
		OutboxPublished:    published,
	}
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// OrderRepaired and MissingSourceLine satisfy the backfill metrics port.
func (r *Registry) OrderRepaired() { r.BackfillRepaired.Inc() }

func (r *Registry) MissingSourceLine() { r.BackfillLineMissed.Inc() }
