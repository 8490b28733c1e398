// Package urgency converts deadlines into day counts and priority tiers.
// It is the shared primitive behind the alert feed and the dashboard KPIs.
package urgency

import (
	"time"

	"github.com/verol11/qhse-app/internal/models"
)

// Sentinel marks a finding with no date-based urgency: an absent or
// unparseable date, or a status-only trigger. It sorts after every real
// day count within the same priority tier.
const Sentinel = 999

// Priority is the urgency tier of a finding.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
	// PriorityNone means the finding does not warrant a notification.
	PriorityNone Priority = "none"
)

// Rank orders priorities for sorting; lower is more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 1
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 3
	case PriorityLow:
		return 4
	default:
		return 5
	}
}

// Valid reports whether p is a priority tier the API accepts as a filter.
func (p Priority) Valid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

const day = 24 * time.Hour

// DaysUntil returns the signed number of days between now and the target
// date, both truncated to midnight: 0 means due today, negative means
// elapsed. An absent date yields Sentinel, never an error.
func DaysUntil(d models.Date, now time.Time) int {
	if d.IsZero() {
		return Sentinel
	}
	target := d.Time()
	today := models.DateOf(now).Time()
	diff := target.Sub(today)
	days := int(diff / day)
	if diff%day > 0 {
		days++
	}
	return days
}

// Classify maps a day count onto a priority tier using the fixed windows:
// already elapsed is critical, within 7 days is high, within 30 days is
// medium, anything further out (including Sentinel) needs no notification.
func Classify(daysRemaining int) Priority {
	switch {
	case daysRemaining < 0:
		return PriorityCritical
	case daysRemaining <= 7:
		return PriorityHigh
	case daysRemaining <= 30:
		return PriorityMedium
	default:
		return PriorityNone
	}
}
