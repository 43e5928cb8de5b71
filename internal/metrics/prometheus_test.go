package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordXPAwarded(t *testing.T) {
	// Reset the counter before test
	XPAwardedTotal.Reset()

	RecordXPAwarded("challenge", 50)
	RecordXPAwarded("challenge", 25)
	RecordXPAwarded("project", 200)

	count := testutil.ToFloat64(XPAwardedTotal.WithLabelValues("challenge"))
	if count != 75 {
		t.Errorf("Expected challenge XP total = 75, got %f", count)
	}

	count = testutil.ToFloat64(XPAwardedTotal.WithLabelValues("project"))
	if count != 200 {
		t.Errorf("Expected project XP total = 200, got %f", count)
	}
}

func TestRecordXPAwarded_IgnoresDeductions(t *testing.T) {
	XPAwardedTotal.Reset()

	RecordXPAwarded("penalty", -100)

	count := testutil.ToFloat64(XPAwardedTotal.WithLabelValues("penalty"))
	if count != 0 {
		t.Errorf("Expected deductions to be ignored, got %f", count)
	}
}

func TestRecordBadgeAwarded(t *testing.T) {
	BadgesAwardedTotal.Reset()

	RecordBadgeAwarded("First Steps")
	RecordBadgeAwarded("First Steps")
	RecordBadgeAwarded("XP Hunter")

	count := testutil.ToFloat64(BadgesAwardedTotal.WithLabelValues("First Steps"))
	if count != 2 {
		t.Errorf("Expected First Steps count = 2, got %f", count)
	}
}

func TestRecordChallengeSubmission(t *testing.T) {
	ChallengeSubmissionsTotal.Reset()

	RecordChallengeSubmission("passed")
	RecordChallengeSubmission("failed")
	RecordChallengeSubmission("failed")

	count := testutil.ToFloat64(ChallengeSubmissionsTotal.WithLabelValues("failed"))
	if count != 2 {
		t.Errorf("Expected failed count = 2, got %f", count)
	}
}

func TestSetBadgeHolders(t *testing.T) {
	BadgeHolders.Reset()

	SetBadgeHolders("First Steps", 12)
	SetBadgeHolders("First Steps", 15)

	value := testutil.ToFloat64(BadgeHolders.WithLabelValues("First Steps"))
	if value != 15 {
		t.Errorf("Expected holders gauge = 15, got %f", value)
	}
}
