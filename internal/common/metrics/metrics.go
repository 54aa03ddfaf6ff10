// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ApplicationsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_applications_submitted_total",
			Help: "Total number of applications submitted for review",
		},
	)

	Decisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_decisions_total",
			Help: "Total number of committed reviewer decisions",
		},
		[]string{"outcome"},
	)

	StaleDecisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_stale_decisions_total",
			Help: "Total number of decisions short-circuited as already decided",
		},
	)

	EligibilityDenials = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_eligibility_denials_total",
			Help: "Total number of applicants turned away by the eligibility policy",
		},
	)

	GrantFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_grant_failures_total",
			Help: "Total number of failed whitelist commands on the grant channel",
		},
	)

	NotificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_notification_failures_total",
			Help: "Total number of failed outbound notifications",
		},
		[]string{"recipient_type"},
	)

	EventHandlingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "bot_event_handling_duration_seconds",
			Help: "Duration of inbound event handling in seconds",
		},
		[]string{"event_type"},
	)
)
