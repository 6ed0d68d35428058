package portal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visualminds_store_mutations_total",
			Help: "Total number of store mutations, by operation",
		},
		[]string{"op"},
	)

	persistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "visualminds_persist_failures_total",
			Help: "Total number of failed writes of the store document",
		},
	)

	logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visualminds_logins_total",
			Help: "Total number of login attempts, by role and status",
		},
		[]string{"role", "status"},
	)
)
