package order_stats

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type OrderStats struct {
	service  Service
	gauge    *prometheus.GaugeVec
	interval time.Duration
}

func NewOrderStats(service Service, interval time.Duration) *OrderStats {
	return &OrderStats{
		service:  service,
		gauge:    OrdersByStatus,
		interval: interval,
	}
}

func (o *OrderStats) TTL() time.Duration {
	return o.interval
}

// Do refreshes the gauge; a failed count leaves the previous values in place.
func (o *OrderStats) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, o.interval)
	defer cancel()

	counts, err := o.service.CountByStatus(ctxWithTimeout)
	if err != nil {
		return fmt.Errorf("count orders by status: %w", err)
	}

	for status, count := range counts {
		o.gauge.WithLabelValues(status.String()).Set(float64(count))
	}
	return nil
}

func (o *OrderStats) Info() string {
	return "order stats"
}
