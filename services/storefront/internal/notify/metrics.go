package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var notificationsActive = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "storefront_notifications_active",
	Help: "Number of notifications currently displayed across all sessions",
})
