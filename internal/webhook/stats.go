package webhook

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var ErrFailedToRegisterStats = errors.New("failed to register stats collector")

type processorStats struct {
	eventsPublished    prometheus.Counter
	deliverySuccess    prometheus.Counter
	deliveryRetried    prometheus.Counter
	deliveryFailed     prometheus.Counter
	deliveriesClaimed  prometheus.Counter
	deliveriesEnqueued prometheus.Counter
}

func newProcessorStats() *processorStats {
	return &processorStats{
		eventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "settler_webhook_events_published",
			Help: "Number of events fanned out to subscribers",
		}),
		deliverySuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "settler_webhook_delivery_success",
			Help: "Number of deliveries acknowledged with 2xx",
		}),
		deliveryRetried: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "settler_webhook_delivery_retried",
			Help: "Number of delivery attempts scheduled for retry",
		}),
		deliveryFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "settler_webhook_delivery_failed",
			Help: "Number of deliveries failed permanently",
		}),
		deliveriesClaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "settler_webhook_deliveries_claimed",
			Help: "Number of due deliveries claimed for dispatch",
		}),
		deliveriesEnqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "settler_webhook_deliveries_enqueued",
			Help: "Number of deliveries written to the queue",
		}),
	}
}

func registerStats(cs ...prometheus.Collector) error {
	for _, c := range cs {
		err := prometheus.Register(c)
		if err != nil {
			return errors.Join(ErrFailedToRegisterStats, err)
		}
	}

	return nil
}

func unregisterStats(cs ...prometheus.Collector) {
	for _, c := range cs {
		_ = prometheus.Unregister(c)
	}
}
