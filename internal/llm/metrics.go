package llm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	llmRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storybook_provider_requests_total",
			Help: "Provider calls by kind (chat, image, speech) and result.",
		},
		[]string{"kind", "result"},
	)

	llmRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storybook_provider_request_duration_seconds",
			Help:    "Provider call latency by kind.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 9),
		},
		[]string{"kind"},
	)
)
