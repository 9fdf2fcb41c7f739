package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storyFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storybook_story_failures_total",
			Help: "Failed story requests by reason (no_story, malformed, provider).",
		},
		[]string{"reason"},
	)

	speechRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storybook_speech_requests_total",
			Help: "Text-to-speech requests by language and result.",
		},
		[]string{"language", "result"},
	)

	speechBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storybook_speech_bytes",
		Help:    "Size of synthesized audio returned to clients.",
		Buckets: prometheus.ExponentialBuckets(16*1024, 2, 8),
	})
)
