package order_cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var CacheRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "order_cache_requests_total",
		Help: "Order cache lookups by result",
	},
	[]string{"result"},
)
