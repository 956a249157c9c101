package smtp

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SendRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smtp_send_retries_total",
			Help: "Mail sends that needed more than one attempt",
		},
		[]string{"template"},
	)

	SendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smtp_send_duration_seconds",
			Help:    "Duration of mail sends including retries",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"template", "outcome"},
	)
)
