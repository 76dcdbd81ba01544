package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ListFetches counts list fetches started, per entity.
	ListFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_list_fetches_total",
		Help: "List fetches started by entity list controllers.",
	}, []string{"entity"})

	// ListFetchesDiscarded counts fetch results discarded because the
	// controller's params moved on before the fetch resolved.
	ListFetchesDiscarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_list_fetches_discarded_total",
		Help: "Superseded list fetch results discarded by controllers.",
	}, []string{"entity"})

	// Mutations counts create/update/delete attempts by outcome.
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_entity_mutations_total",
		Help: "Entity mutations performed through list controllers.",
	}, []string{"entity", "action", "result"})

	// DeleteDenials counts delete-precondition denials.
	DeleteDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_delete_denials_total",
		Help: "Delete requests denied by precondition guards.",
	}, []string{"entity"})
)
