package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AuthRejects = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trongate_auth_rejects_total",
		Help: "Total gate rejections by reason",
	}, []string{"reason"})

	FundingTransfers = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trongate_funding_transfers_total",
		Help: "Funding transfer attempts by outcome",
	}, []string{"outcome"})

	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trongate_notifications_total",
		Help: "Telegram notifications by kind and outcome",
	}, []string{"kind", "outcome"})

	LatencyBucket = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trongate_latency_bucket",
		Help:    "Request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
)
