package urgency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verol11/qhse-app/internal/models"
)

var now = time.Date(2024, 5, 20, 14, 30, 0, 0, time.UTC)

func TestDaysUntilIgnoresTimeOfDay(t *testing.T) {
	// Later the same day still counts as due today.
	sameDay := models.DateOf(time.Date(2024, 5, 20, 23, 59, 0, 0, time.UTC))
	require.Equal(t, 0, DaysUntil(sameDay, now))

	tomorrow := models.DateOf(now.AddDate(0, 0, 1))
	require.Equal(t, 1, DaysUntil(tomorrow, now))

	yesterday := models.DateOf(now.AddDate(0, 0, -1))
	require.Equal(t, -1, DaysUntil(yesterday, now))
}

func TestDaysUntilAbsentDate(t *testing.T) {
	require.Equal(t, Sentinel, DaysUntil(models.Date{}, now))
	require.Equal(t, Sentinel, DaysUntil(models.ParseDate(""), now))
	require.Equal(t, Sentinel, DaysUntil(models.ParseDate("pas-une-date"), now))
}

func TestClassifyWindows(t *testing.T) {
	cases := []struct {
		days int
		want Priority
	}{
		{-100, PriorityCritical},
		{-1, PriorityCritical},
		{0, PriorityHigh},
		{7, PriorityHigh},
		{8, PriorityMedium},
		{30, PriorityMedium},
		{31, PriorityNone},
		{Sentinel, PriorityNone},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, Classify(tc.days), "days=%d", tc.days)
	}
}

func TestPriorityRankOrdering(t *testing.T) {
	require.Less(t, PriorityCritical.Rank(), PriorityHigh.Rank())
	require.Less(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	require.Less(t, PriorityMedium.Rank(), PriorityLow.Rank())
	require.Less(t, PriorityLow.Rank(), PriorityNone.Rank())
}

func TestPriorityValid(t *testing.T) {
	require.True(t, Priority("critical").Valid())
	require.True(t, Priority("low").Valid())
	require.False(t, Priority("none").Valid())
	require.False(t, Priority("urgent").Valid())
}
