package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boarding_sky_actions_total",
		Help: "Dashboard actions by name and outcome",
	}, []string{"action", "outcome"})

	ActionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "boarding_sky_action_duration_seconds",
		Help:    "Time spent serving dashboard actions",
		Buckets: prometheus.DefBuckets,
	}, []string{"action"})

	ImageCleanupTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boarding_sky_image_cleanup_total",
		Help: "Orphaned image deletion calls by outcome",
	}, []string{"outcome"})

	ImagesQueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boarding_sky_images_queued_total",
		Help: "Orphaned image URLs handed to the media store",
	})

	BookingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boarding_sky_booking_transitions_total",
		Help: "Committed booking status changes",
	}, []string{"from", "to"})

	DuplicateSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boarding_sky_duplicate_submissions_total",
		Help: "Mutations rejected because the same action was already in flight",
	}, []string{"resource"})
)
