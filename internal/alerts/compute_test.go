package alerts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verol11/qhse-app/internal/models"
	"github.com/verol11/qhse-app/internal/urgency"
)

var now = time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)

func date(days int) models.Date {
	return models.DateOf(now.AddDate(0, 0, days))
}

func TestTrainingExpiryTiers(t *testing.T) {
	snap := &models.Snapshot{
		Trainings: []models.Training{
			{ID: "t1", Title: "SST", ExpiryDate: date(-10)},
			{ID: "t2", Title: "Habilitation électrique", ExpiryDate: date(5)},
			{ID: "t3", Title: "CACES", ExpiryDate: date(25)},
			{ID: "t4", Title: "Incendie", ExpiryDate: date(60)},
			{ID: "t5", Title: "Sans date"},
		},
	}

	feed := Compute(snap, now)
	require.Len(t, feed, 3)

	require.Equal(t, urgency.PriorityCritical, feed[0].Priority)
	require.Equal(t, `FORMATION EXPIRÉE: "SST" a expiré il y a 10 jours`, feed[0].Message)

	require.Equal(t, urgency.PriorityHigh, feed[1].Priority)
	require.Equal(t, `FORMATION À RENOUVELER: "Habilitation électrique" expire dans 5 jours`, feed[1].Message)

	require.Equal(t, urgency.PriorityMedium, feed[2].Priority)
	require.Equal(t, `FORMATION À PLANIFIER: "CACES" expire dans 25 jours`, feed[2].Message)
}

func TestThirtyDayBoundaryIsMedium(t *testing.T) {
	snap := &models.Snapshot{
		PPE: []models.PPE{
			{ID: "p1", Type: "Casque", ExpiryDate: date(30)},
			{ID: "p2", Type: "Gants", ExpiryDate: date(31)},
		},
	}

	feed := Compute(snap, now)
	require.Len(t, feed, 1)
	require.Equal(t, `EPI À COMMANDER: "Casque" expire dans 30 jours`, feed[0].Message)
}

func TestSevenDayBoundaryIsHigh(t *testing.T) {
	snap := &models.Snapshot{
		Equipment: []models.Equipment{
			{ID: "e1", Designation: "Pont roulant", NextInspection: date(7)},
			{ID: "e2", Designation: "Chariot", NextInspection: date(8)},
		},
	}

	feed := Compute(snap, now)
	require.Len(t, feed, 2)
	require.Equal(t, urgency.PriorityHigh, feed[0].Priority)
	require.Equal(t, `CONTRÔLE URGENT: "Pont roulant" à contrôler dans 7 jours`, feed[0].Message)
	require.Equal(t, urgency.PriorityMedium, feed[1].Priority)
}

func TestDueTodayIsHighNotCritical(t *testing.T) {
	snap := &models.Snapshot{
		MedicalVisits: []models.MedicalVisit{
			{ID: "v1", Title: "Visite périodique", ExpiryDate: date(0)},
		},
	}

	feed := Compute(snap, now)
	require.Len(t, feed, 1)
	require.Equal(t, urgency.PriorityHigh, feed[0].Priority)
	require.Equal(t, 0, feed[0].DaysRemaining)
}

func TestActionPlanStatusGating(t *testing.T) {
	snap := &models.Snapshot{
		ActionPlans: []models.ActionPlan{
			{ID: "a1", Title: "Mise en conformité", DueDate: date(-3), Status: "En cours"},
			{ID: "a2", Title: "Audit interne", DueDate: date(-3), Status: "Terminé"},
			{ID: "a3", Title: "Formation caristes", DueDate: date(4), Status: "en_cours"},
			{ID: "a4", Title: "Achat EPI", Status: "En attente", CreatedDate: date(-15)},
			{ID: "a5", Title: "Plan clôturé", DueDate: date(2), Status: "Terminé"},
		},
	}

	feed := Compute(snap, now)
	require.Len(t, feed, 3)

	require.Equal(t, urgency.PriorityCritical, feed[0].Priority)
	require.Equal(t, `PLAN EN RETARD: "Mise en conformité" est en retard de 3 jours`, feed[0].Message)

	require.Equal(t, urgency.PriorityHigh, feed[1].Priority)
	require.Equal(t, `PLAN À FINALISER: "Formation caristes" échéance dans 4 jours`, feed[1].Message)

	require.Equal(t, urgency.PriorityMedium, feed[2].Priority)
	require.Equal(t, `PLAN EN ATTENTE: "Achat EPI" nécessite une action`, feed[2].Message)
	require.Equal(t, urgency.Sentinel, feed[2].DaysRemaining)
}

func TestWorkPermitRules(t *testing.T) {
	snap := &models.Snapshot{
		WorkPermits: []models.WorkPermit{
			{ID: "w1", Number: "PT-001", EndDate: date(-2), Status: "Approuvé"},
			{ID: "w2", Number: "PT-002", EndDate: date(0), Status: "en_cours"},
			{ID: "w3", Number: "PT-003", StartDate: date(3), Status: "En attente"},
			{ID: "w4", Number: "PT-004", EndDate: date(-5), Status: "Terminé"},
			{ID: "w5", Number: "PT-005", EndDate: date(5), Status: "Approuvé"},
		},
	}

	feed := Compute(snap, now)
	require.Len(t, feed, 3)

	require.Equal(t, `PERMIS EXPIRÉ: "PT-001" a expiré il y a 2 jours`, feed[0].Message)
	require.Equal(t, urgency.PriorityCritical, feed[0].Priority)

	require.Equal(t, `PERMIS EXPIRE AUJOURD'HUI: "PT-002"`, feed[1].Message)
	require.Equal(t, urgency.PriorityHigh, feed[1].Priority)

	require.Equal(t, `PERMIS EN ATTENTE: "PT-003" nécessite approbation`, feed[2].Message)
	require.Equal(t, urgency.Sentinel, feed[2].DaysRemaining)
}

func TestIncidentStatusSpellingEquivalence(t *testing.T) {
	build := func(status string) *models.Snapshot {
		return &models.Snapshot{
			Incidents: []models.Incident{{ID: "i1", Title: "Chute de plain-pied", Status: status}},
		}
	}

	for _, status := range []string{"En cours", "en_cours", "EN COURS", "En investigation", "en_investigation"} {
		feed := Compute(build(status), now)
		require.Len(t, feed, 1, status)
		require.Equal(t, urgency.PriorityMedium, feed[0].Priority)
		require.Equal(t, `INCIDENT NON RÉSOLU: "Chute de plain-pied" nécessite suivi`, feed[0].Message)
	}

	require.Empty(t, Compute(build("Clôturé"), now))
}

func TestTrainingPlanAndAspectRules(t *testing.T) {
	snap := &models.Snapshot{
		TrainingPlans: []models.TrainingPlan{
			{ID: "tp1", Title: "Plan 2024", Status: "En attente", CreatedDate: date(-7)},
			{ID: "tp2", Title: "Plan validé", Status: "Approuvé"},
		},
		Aspects: []models.EnvironmentalAspect{
			{ID: "env1", Aspect: "Rejets d'eaux usées", Status: "Significatif"},
			{ID: "env2", Aspect: "Bruit", Status: "Modéré"},
		},
	}

	feed := Compute(snap, now)
	require.Len(t, feed, 2)

	// The significant aspect is high priority and sorts first.
	require.Equal(t, SourceEnvironment, feed[0].Source)
	require.Equal(t, urgency.PriorityHigh, feed[0].Priority)
	require.Equal(t, `ASPECT ENVIRONNEMENTAL SIGNIFICATIF: "Rejets d'eaux usées" nécessite attention`, feed[0].Message)

	require.Equal(t, SourceTrainingPlan, feed[1].Source)
	require.Equal(t, `PLAN FORMATION EN ATTENTE: "Plan 2024" nécessite validation`, feed[1].Message)
}

func TestFeedOrderingAndStability(t *testing.T) {
	snap := &models.Snapshot{
		Trainings: []models.Training{
			{ID: "t1", Title: "A", ExpiryDate: date(20)},
			{ID: "t2", Title: "B", ExpiryDate: date(-1)},
		},
		Incidents: []models.Incident{
			{ID: "i1", Title: "Premier", Status: "En cours"},
			{ID: "i2", Title: "Second", Status: "En cours"},
		},
		PPE: []models.PPE{
			{ID: "p1", Type: "Casque", ExpiryDate: date(3)},
		},
	}

	feed := Compute(snap, now)
	require.Len(t, feed, 5)

	// Priority tiers first, then day counts ascending; the two incidents
	// share (medium, sentinel) and keep their snapshot order.
	require.Equal(t, urgency.PriorityCritical, feed[0].Priority)
	require.Equal(t, urgency.PriorityHigh, feed[1].Priority)
	require.Equal(t, 20, feed[2].DaysRemaining)
	require.Contains(t, feed[3].Message, "Premier")
	require.Contains(t, feed[4].Message, "Second")
}

func TestComputeIsIdempotent(t *testing.T) {
	snap := &models.Snapshot{
		Trainings: []models.Training{{ID: "t1", Title: "SST", ExpiryDate: date(-4)}},
		Incidents: []models.Incident{{ID: "i1", Title: "Fuite", Status: "En cours"}},
	}

	first := Compute(snap, now)
	second := Compute(snap, now)
	require.Equal(t, first, second)
}

func TestComputeEmptyAndNilSnapshots(t *testing.T) {
	require.Empty(t, Compute(nil, now))
	require.Empty(t, Compute(&models.Snapshot{}, now))
}

func TestCountByPriority(t *testing.T) {
	snap := &models.Snapshot{
		Trainings: []models.Training{
			{ID: "t1", Title: "A", ExpiryDate: date(-1)},
			{ID: "t2", Title: "B", ExpiryDate: date(2)},
			{ID: "t3", Title: "C", ExpiryDate: date(15)},
		},
	}

	counts := CountByPriority(Compute(snap, now))
	require.Equal(t, 1, counts[urgency.PriorityCritical])
	require.Equal(t, 1, counts[urgency.PriorityHigh])
	require.Equal(t, 1, counts[urgency.PriorityMedium])
}

func TestMessagesQuoteLabelsVerbatim(t *testing.T) {
	label := `Contrôle "spécial" & <divers>`
	snap := &models.Snapshot{
		Equipment: []models.Equipment{{ID: "e1", Designation: label, NextInspection: date(2)}},
	}

	feed := Compute(snap, now)
	require.Len(t, feed, 1)
	require.Equal(t, `CONTRÔLE URGENT: "`+label+`" à contrôler dans 2 jours`, feed[0].Message)
}
