// Package metrics provides Prometheus exporters for application metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the gamification engine and its workflows.
var (
	// Counters.
	XPAwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xp_awarded_total",
			Help: "Total XP awarded, by source type",
		},
		[]string{"source_type"},
	)

	LevelUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "level_ups_total",
			Help: "Total number of level-up transitions",
		},
	)

	BadgesAwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badges_awarded_total",
			Help: "Total number of badges awarded",
		},
		[]string{"badge"},
	)

	ChallengeSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenge_submissions_total",
			Help: "Total challenge submissions, by outcome",
		},
		[]string{"outcome"},
	)

	ProjectReviewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "project_reviews_total",
			Help: "Total project submission reviews, by decision",
		},
		[]string{"decision"},
	)

	// Gauges.
	BadgeHolders = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "badge_holders",
			Help: "Current number of users holding each badge",
		},
		[]string{"badge"},
	)
)

// RecordXPAwarded increments the XP counter for a source type.
// Deductions (negative amounts) are not counted here; the counter
// tracks XP handed out.
func RecordXPAwarded(sourceType string, amount int) {
	if amount <= 0 {
		return
	}
	XPAwardedTotal.WithLabelValues(sourceType).Add(float64(amount))
}

// RecordLevelUp increments the level-up counter.
func RecordLevelUp() {
	LevelUpsTotal.Inc()
}

// RecordBadgeAwarded increments the badge award counter.
func RecordBadgeAwarded(badgeName string) {
	BadgesAwardedTotal.WithLabelValues(badgeName).Inc()
}

// SetBadgeHolders updates the holders gauge for a badge.
func SetBadgeHolders(badgeName string, count int) {
	BadgeHolders.WithLabelValues(badgeName).Set(float64(count))
}

// RecordChallengeSubmission increments the submissions counter.
// Outcome is "passed", "failed" or "rejected".
func RecordChallengeSubmission(outcome string) {
	ChallengeSubmissionsTotal.WithLabelValues(outcome).Inc()
}

// RecordProjectReview increments the reviews counter for a decision.
func RecordProjectReview(decision string) {
	ProjectReviewsTotal.WithLabelValues(decision).Inc()
}
