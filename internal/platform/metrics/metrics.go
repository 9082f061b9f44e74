// Package metrics exposes the Prometheus instruments shared across the
// service. Registration happens at init via promauto on the default registry;
// the /metrics endpoint serves that registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalogi_http_requests_total",
		Help: "HTTP requests by route, method and status class.",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalogi_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	PublishesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalogi_publishes_total",
		Help: "Publish attempts by kind and outcome.",
	}, []string{"kind", "outcome"})

	NotificationsDeliveredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalogi_notifications_delivered_total",
		Help: "Notifications delivered to the notification service, by kanaal.",
	}, []string{"kanaal"})

	NotificationsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalogi_notifications_failed_total",
		Help: "Notifications that could not be delivered and were ledgered, by kanaal.",
	}, []string{"kanaal"})

	NotificationQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalogi_notification_queue_depth",
		Help: "Events waiting in the dispatcher queue.",
	})

	FailedNotificationsPurgedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalogi_failed_notifications_purged_total",
		Help: "Ledger entries removed by the retention purge.",
	})
)
