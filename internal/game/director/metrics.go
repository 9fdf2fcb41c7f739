package director

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	turnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storybook_turns_total",
			Help: "Story turns by outcome (ok, ended, no_story, malformed, error).",
		},
		[]string{"outcome"},
	)

	turnDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storybook_turn_duration_seconds",
		Help:    "Wall time of a full turn including illustration.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
	})

	placeholderChoicesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storybook_placeholder_choices_total",
		Help: "Turns whose choices contained template placeholders.",
	})

	illustrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storybook_illustrations_total",
			Help: "Illustration attempts by status (ok, failed, skipped).",
		},
		[]string{"status"},
	)
)
