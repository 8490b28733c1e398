// Package alerts derives the unified QHSE alert feed from a data snapshot.
// Each module contributes zero or one notification per record according to
// its rule; the merged feed is ordered by priority, then by urgency.
package alerts

import (
	"github.com/verol11/qhse-app/internal/models"
	"github.com/verol11/qhse-app/internal/urgency"
)

// Source identifies the domain a notification originates from. Values match
// the type labels the dashboard displays next to each alert.
type Source string

const (
	SourceTraining     Source = "formation"
	SourceEquipment    Source = "materiel"
	SourceMedicalVisit Source = "visite"
	SourcePPE          Source = "epi"
	SourceActionPlan   Source = "plan"
	SourceWorkPermit   Source = "permis"
	SourceIncident     Source = "incident"
	SourceTrainingPlan Source = "planformation"
	SourceEnvironment  Source = "environnement"
)

// Notification is a single entry of the alert feed. It is ephemeral: the
// whole feed is recomputed from the current snapshot on every refresh.
type Notification struct {
	Message  string           `json:"message"`
	Source   Source           `json:"type"`
	Priority urgency.Priority `json:"priority"`
	// Module is the SPA view to open when the notification is activated.
	Module models.Module `json:"module"`
	// ReferenceDate is the deadline the day count was derived from, or the
	// creation/start date for status-driven findings.
	ReferenceDate models.Date `json:"referenceDate"`
	// DaysRemaining carries urgency.Sentinel for status-driven findings.
	DaysRemaining int `json:"daysRemaining"`
}
