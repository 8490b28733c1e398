package alerts

import (
	"fmt"
	"sort"
	"time"

	"github.com/verol11/qhse-app/internal/models"
	"github.com/verol11/qhse-app/internal/urgency"
)

// Compute derives the full ordered alert feed from a snapshot. It is a pure
// function: the same snapshot and clock always yield the same feed, and a
// malformed record degrades to "not urgent" instead of aborting the pass.
func Compute(snap *models.Snapshot, now time.Time) []Notification {
	if snap == nil {
		return []Notification{}
	}

	feed := make([]Notification, 0, 16)

	for _, t := range snap.Trainings {
		days := urgency.DaysUntil(t.ExpiryDate, now)
		if n, ok := trainingRule.apply(t.Title, t.ExpiryDate, days); ok {
			feed = append(feed, n)
		}
	}

	for _, e := range snap.Equipment {
		days := urgency.DaysUntil(e.NextInspection, now)
		if n, ok := equipmentRule.apply(e.Designation, e.NextInspection, days); ok {
			feed = append(feed, n)
		}
	}

	for _, v := range snap.MedicalVisits {
		days := urgency.DaysUntil(v.ExpiryDate, now)
		if n, ok := medicalVisitRule.apply(v.Title, v.ExpiryDate, days); ok {
			feed = append(feed, n)
		}
	}

	for _, p := range snap.PPE {
		days := urgency.DaysUntil(p.ExpiryDate, now)
		if n, ok := ppeRule.apply(p.Type, p.ExpiryDate, days); ok {
			feed = append(feed, n)
		}
	}

	for _, p := range snap.ActionPlans {
		if n, ok := actionPlanNotification(p, now); ok {
			feed = append(feed, n)
		}
	}

	for _, p := range snap.WorkPermits {
		if n, ok := workPermitNotification(p, now); ok {
			feed = append(feed, n)
		}
	}

	for _, i := range snap.Incidents {
		if models.StatusIs(i.Status, models.StatusInProgress, models.StatusInvestigating) {
			feed = append(feed, Notification{
				Message:       fmt.Sprintf(`INCIDENT NON RÉSOLU: "%s" nécessite suivi`, i.Title),
				Source:        SourceIncident,
				Priority:      urgency.PriorityMedium,
				Module:        models.ModuleIncidents,
				ReferenceDate: i.Date,
				DaysRemaining: urgency.Sentinel,
			})
		}
	}

	for _, tp := range snap.TrainingPlans {
		if models.StatusIs(tp.Status, models.StatusPending) {
			feed = append(feed, Notification{
				Message:       fmt.Sprintf(`PLAN FORMATION EN ATTENTE: "%s" nécessite validation`, tp.Title),
				Source:        SourceTrainingPlan,
				Priority:      urgency.PriorityMedium,
				Module:        models.ModuleTrainingPlans,
				ReferenceDate: tp.CreatedDate,
				DaysRemaining: urgency.Sentinel,
			})
		}
	}

	for _, a := range snap.Aspects {
		if models.StatusIs(a.Status, models.StatusSignificant) {
			feed = append(feed, Notification{
				Message:       fmt.Sprintf(`ASPECT ENVIRONNEMENTAL SIGNIFICATIF: "%s" nécessite attention`, a.Aspect),
				Source:        SourceEnvironment,
				Priority:      urgency.PriorityHigh,
				Module:        models.ModuleEnvironment,
				ReferenceDate: a.LastMeasurement,
				DaysRemaining: urgency.Sentinel,
			})
		}
	}

	// Stable sort keeps records of equal urgency in snapshot order.
	sort.SliceStable(feed, func(i, j int) bool {
		if feed[i].Priority.Rank() != feed[j].Priority.Rank() {
			return feed[i].Priority.Rank() < feed[j].Priority.Rank()
		}
		return feed[i].DaysRemaining < feed[j].DaysRemaining
	})

	return feed
}

// actionPlanNotification applies the action-plan rule: date-driven tiers only
// count while the plan is in progress, and a pending plan always surfaces as
// a medium status finding regardless of its due date.
func actionPlanNotification(p models.ActionPlan, now time.Time) (Notification, bool) {
	days := urgency.DaysUntil(p.DueDate, now)
	inProgress := models.StatusIs(p.Status, models.StatusInProgress)

	switch {
	case days < 0 && inProgress:
		return Notification{
			Message:       fmt.Sprintf(`PLAN EN RETARD: "%s" est en retard de %d jours`, p.Title, -days),
			Source:        SourceActionPlan,
			Priority:      urgency.PriorityCritical,
			Module:        models.ModuleActionPlans,
			ReferenceDate: p.DueDate,
			DaysRemaining: days,
		}, true
	case days <= 7 && inProgress:
		return Notification{
			Message:       fmt.Sprintf(`PLAN À FINALISER: "%s" échéance dans %d jours`, p.Title, days),
			Source:        SourceActionPlan,
			Priority:      urgency.PriorityHigh,
			Module:        models.ModuleActionPlans,
			ReferenceDate: p.DueDate,
			DaysRemaining: days,
		}, true
	case models.StatusIs(p.Status, models.StatusPending):
		return Notification{
			Message:       fmt.Sprintf(`PLAN EN ATTENTE: "%s" nécessite une action`, p.Title),
			Source:        SourceActionPlan,
			Priority:      urgency.PriorityMedium,
			Module:        models.ModuleActionPlans,
			ReferenceDate: p.CreatedDate,
			DaysRemaining: urgency.Sentinel,
		}, true
	}
	return Notification{}, false
}

// workPermitNotification applies the work-permit rule: an active or approved
// permit past its end date is critical, one ending today gets a dedicated
// same-day alert, and a permit awaiting approval surfaces as a medium status
// finding keyed on its start date.
func workPermitNotification(p models.WorkPermit, now time.Time) (Notification, bool) {
	days := urgency.DaysUntil(p.EndDate, now)
	active := models.StatusIs(p.Status, models.StatusApproved, models.StatusInProgress)

	switch {
	case days < 0 && active:
		return Notification{
			Message:       fmt.Sprintf(`PERMIS EXPIRÉ: "%s" a expiré il y a %d jours`, p.Number, -days),
			Source:        SourceWorkPermit,
			Priority:      urgency.PriorityCritical,
			Module:        models.ModuleWorkPermits,
			ReferenceDate: p.EndDate,
			DaysRemaining: days,
		}, true
	case days == 0 && active:
		return Notification{
			Message:       fmt.Sprintf(`PERMIS EXPIRE AUJOURD'HUI: "%s"`, p.Number),
			Source:        SourceWorkPermit,
			Priority:      urgency.PriorityHigh,
			Module:        models.ModuleWorkPermits,
			ReferenceDate: p.EndDate,
			DaysRemaining: days,
		}, true
	case models.StatusIs(p.Status, models.StatusPending):
		return Notification{
			Message:       fmt.Sprintf(`PERMIS EN ATTENTE: "%s" nécessite approbation`, p.Number),
			Source:        SourceWorkPermit,
			Priority:      urgency.PriorityMedium,
			Module:        models.ModuleWorkPermits,
			ReferenceDate: p.StartDate,
			DaysRemaining: urgency.Sentinel,
		}, true
	}
	return Notification{}, false
}

// CountByPriority tallies the feed per priority tier.
func CountByPriority(feed []Notification) map[urgency.Priority]int {
	counts := make(map[urgency.Priority]int, 4)
	for _, n := range feed {
		counts[n.Priority]++
	}
	return counts
}
