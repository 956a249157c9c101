package notification

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Notifications by dispatch outcome",
		},
		[]string{"outcome"},
	)

	NotificationDeliveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notification_delivery_duration_seconds",
			Help:    "Time spent delivering one notification",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"outcome"},
	)
)

// Observer feeds dispatcher outcomes into Prometheus.
type Observer struct{}

func (Observer) Enqueued() {
	NotificationsTotal.WithLabelValues("enqueued").Inc()
}

func (Observer) Delivered(duration time.Duration) {
	NotificationsTotal.WithLabelValues("delivered").Inc()
	NotificationDeliveryDuration.WithLabelValues("delivered").Observe(duration.Seconds())
}

func (Observer) Failed(duration time.Duration) {
	NotificationsTotal.WithLabelValues("failed").Inc()
	NotificationDeliveryDuration.WithLabelValues("failed").Observe(duration.Seconds())
}
