package dashboard

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verol11/qhse-app/internal/models"
)

var now = time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)

func date(days int) models.Date {
	return models.DateOf(now.AddDate(0, 0, days))
}

func TestStatsCountsExpiringWindows(t *testing.T) {
	snap := &models.Snapshot{
		Trainings: []models.Training{
			{ID: "t1", ExpiryDate: date(-2)},  // already expired, not "expiring"
			{ID: "t2", ExpiryDate: date(0)},   // due today
			{ID: "t3", ExpiryDate: date(30)},  // window boundary
			{ID: "t4", ExpiryDate: date(31)},  // outside window
			{ID: "t5"},                        // no date
		},
		PPE: []models.PPE{
			{ID: "p1", ExpiryDate: date(10)},
		},
	}

	stats := Compute(snap, now).Stats
	require.Equal(t, 2, stats.ExpiringTrainings)
	require.Equal(t, 1, stats.ExpiringPPE)
	require.Equal(t, 5, stats.TotalTrainings)
	require.Equal(t, 1, stats.TotalPPE)
}

func TestStatsStatusCounters(t *testing.T) {
	snap := &models.Snapshot{
		ActionPlans: []models.ActionPlan{
			{ID: "a1", Status: "En cours"},
			{ID: "a2", Status: "en_cours"},
			{ID: "a3", Status: "Terminé"},
			{ID: "a4", Status: "En attente"},
		},
		WorkPermits: []models.WorkPermit{
			{ID: "w1", Status: "Approuvé"},
			{ID: "w2", Status: "En cours"},
			{ID: "w3", Status: "En attente"},
			{ID: "w4", Status: "Terminé"},
		},
		TrainingPlans: []models.TrainingPlan{
			{ID: "tp1", Status: "Planifié"},
			{ID: "tp2", Status: "En cours"},
			{ID: "tp3", Status: "En attente"},
		},
	}

	stats := Compute(snap, now).Stats
	require.Equal(t, 2, stats.PlansInProgress)
	require.Equal(t, 1, stats.PlansCompleted)
	require.Equal(t, 2, stats.PermitsActive)
	require.Equal(t, 1, stats.PermitsPending)
	require.Equal(t, 2, stats.TrainingsPlanned)
}

func TestStatsThisMonthCounters(t *testing.T) {
	snap := &models.Snapshot{
		Incidents: []models.Incident{
			{ID: "i1", Date: models.ParseDate("2024-05-03")},
			{ID: "i2", Date: models.ParseDate("2024-04-28")},
			{ID: "i3", Date: models.ParseDate("2023-05-10")}, // same month, other year
		},
		HSESchedule: []models.HSEEvent{
			{ID: "h1", StartDate: models.ParseDate("2024-05-25")},
			{ID: "h2", StartDate: models.ParseDate("2024-06-02")},
		},
	}

	stats := Compute(snap, now).Stats
	require.Equal(t, 1, stats.IncidentsThisMonth)
	require.Equal(t, 1, stats.HSEActivitiesThisMonth)
}

func TestEnvironmentalCounters(t *testing.T) {
	snap := &models.Snapshot{
		Aspects: []models.EnvironmentalAspect{
			{ID: "e1", Type: "Émission", Status: "Significatif", Compliance: "Conforme"},
			{ID: "e2", Type: "Déchet", Status: "Modéré", Compliance: "Non conforme"},
			{ID: "e3", Type: "dechet", Status: "Modéré", Compliance: "En cours d'évaluation"},
		},
	}

	bundle := Compute(snap, now)
	require.Equal(t, 1, bundle.Stats.SignificantAspects)
	require.Equal(t, 1, bundle.Stats.NonCompliantAspects)
	require.Equal(t, 1, bundle.Stats.EmissionAspects)
	require.Equal(t, 2, bundle.Stats.WasteAspects)

	// One aspect of three is "conforme": 33%.
	require.Equal(t, 33, bundle.EnvironmentalConformityRate)
}

func TestConformityRate(t *testing.T) {
	snap := &models.Snapshot{
		Trainings: []models.Training{
			{ID: "t1", ExpiryDate: date(-1)}, // expired
			{ID: "t2", ExpiryDate: date(10)},
		},
		MedicalVisits: []models.MedicalVisit{
			{ID: "v1", ExpiryDate: date(5)},
		},
		ActionPlans: []models.ActionPlan{
			{ID: "a1", DueDate: date(-2), Status: "En cours"}, // counts as expired
			{ID: "a2", DueDate: date(-2), Status: "Terminé"},  // completed, not expired
		},
	}

	// 2 expired of 5 tracked items: 60%.
	require.Equal(t, 60, Compute(snap, now).ConformityRate)
}

func TestConformityRateEmptySnapshot(t *testing.T) {
	bundle := Compute(&models.Snapshot{}, now)
	require.Equal(t, 100, bundle.ConformityRate)
	require.Equal(t, 100, bundle.EnvironmentalConformityRate)
}

func TestActivitySeriesTrailingSixMonths(t *testing.T) {
	snap := &models.Snapshot{
		Trainings: []models.Training{
			{ID: "t1", TrainingDate: models.ParseDate("2024-05-02")},
			{ID: "t2", TrainingDate: models.ParseDate("2024-01-15")},
			{ID: "t3", TrainingDate: models.ParseDate("2023-12-25")},
		},
		Incidents: []models.Incident{
			{ID: "i1", Date: models.ParseDate("2024-03-08")},
		},
	}

	series := Compute(snap, now).Activity
	require.Len(t, series, 6)

	// December through May for a May 20th clock.
	require.Equal(t, []string{"Déc", "Jan", "Fév", "Mar", "Avr", "Mai"}, monthsOf(series))

	require.Equal(t, 1, series[0].Trainings) // Déc matches the 2023-12 record
	require.Equal(t, 1, series[1].Trainings) // Jan
	require.Equal(t, 1, series[3].Incidents) // Mar
	require.Equal(t, 1, series[5].Trainings) // Mai
}

func TestActivitySeriesYearBoundary(t *testing.T) {
	february := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	series := Compute(&models.Snapshot{}, february).Activity

	require.Equal(t, []string{"Sep", "Oct", "Nov", "Déc", "Jan", "Fév"}, monthsOf(series))
}

func TestBreakdownPreservesFirstSeenOrder(t *testing.T) {
	snap := &models.Snapshot{
		Incidents: []models.Incident{
			{ID: "i1", Type: "Presqu'accident"},
			{ID: "i2", Type: "Accident du travail avec arrêt"},
			{ID: "i3", Type: "Presqu'accident"},
			{ID: "i4", Type: ""},
		},
	}

	counts := Compute(snap, now).IncidentsByType
	require.Len(t, counts, 3)

	require.Equal(t, "Presqu'accident", counts[0].FullLabel)
	require.Equal(t, 2, counts[0].Count)

	// Long labels truncate to ten runes plus an ellipsis; the full label
	// is kept for tooltips.
	require.Equal(t, "Accident d...", counts[1].Label)
	require.Equal(t, "Accident du travail avec arrêt", counts[1].FullLabel)

	require.Equal(t, "Non spécifié", counts[2].FullLabel)
	require.Equal(t, 1, counts[2].Count)
}

func TestTruncateLabelIsRuneSafe(t *testing.T) {
	label := "Évènement déclaré"
	truncated := truncateLabel(label)
	require.True(t, strings.HasSuffix(truncated, "..."))
	require.Equal(t, "Évènement ...", truncated)
}

func monthsOf(series []ActivityPoint) []string {
	months := make([]string, 0, len(series))
	for _, p := range series {
		months = append(months, p.Month)
	}
	return months
}
