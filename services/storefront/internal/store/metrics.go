package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	persistFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_persist_failures_total",
			Help: "Total number of failed writes of a persisted collection",
		},
		[]string{"key"},
	)

	loadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_load_failures_total",
			Help: "Total number of persisted collections that could not be read back",
		},
		[]string{"key"},
	)

	cartMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_mutations_total",
			Help: "Total number of cart mutations by operation",
		},
		[]string{"op"},
	)
)
