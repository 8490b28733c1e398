// Package dashboard derives the KPI cards, chart series, and conformity
// rates shown on the QHSE dashboard. Like the alert feed, everything here is
// recomputed from scratch on every snapshot change.
package dashboard

import (
	"math"
	"time"

	"github.com/verol11/qhse-app/internal/models"
	"github.com/verol11/qhse-app/internal/urgency"
)

// expiringWindow is the day horizon used for the "expiring soon" KPI cards.
const expiringWindow = 30

// maxLabelLen is the display cutoff for chart category labels; the full
// label is retained separately for tooltips.
const maxLabelLen = 10

// monthLabels are the French short month names used by the activity chart.
var monthLabels = [12]string{
	"Jan", "Fév", "Mar", "Avr", "Mai", "Juin",
	"Juil", "Aoû", "Sep", "Oct", "Nov", "Déc",
}

// Stats holds the per-module counters behind the KPI cards.
type Stats struct {
	ExpiringTrainings      int `json:"expiring_trainings"`
	EquipmentDueInspection int `json:"equipment_due_inspection"`
	ExpiringMedicalVisits  int `json:"expiring_medical_visits"`
	ExpiringPPE            int `json:"expiring_ppe"`

	TotalTrainings     int `json:"total_trainings"`
	TotalEquipment     int `json:"total_equipment"`
	TotalMedicalVisits int `json:"total_medical_visits"`
	TotalPPE           int `json:"total_ppe"`
	TotalActionPlans   int `json:"total_action_plans"`
	TotalIncidents     int `json:"total_incidents"`
	TotalWorkPermits   int `json:"total_work_permits"`
	TotalDocuments     int `json:"total_documents"`
	TotalTrainingPlans int `json:"total_training_plans"`
	TotalHSEEvents     int `json:"total_hse_events"`
	TotalRegulations   int `json:"total_regulations"`
	TotalAspects       int `json:"total_aspects"`

	PlansInProgress int `json:"plans_in_progress"`
	PlansCompleted  int `json:"plans_completed"`

	IncidentsThisMonth int `json:"incidents_this_month"`

	PermitsActive  int `json:"permits_active"`
	PermitsPending int `json:"permits_pending"`

	TrainingsPlanned       int `json:"trainings_planned"`
	HSEActivitiesThisMonth int `json:"hse_activities_this_month"`

	SignificantAspects  int `json:"significant_aspects"`
	NonCompliantAspects int `json:"non_compliant_aspects"`
	EmissionAspects     int `json:"emission_aspects"`
	WasteAspects        int `json:"waste_aspects"`
}

// ActivityPoint is one month of the trailing activity series.
type ActivityPoint struct {
	Month     string `json:"month"`
	Trainings int    `json:"trainings"`
	Incidents int    `json:"incidents"`
	Visits    int    `json:"visits"`
	Aspects   int    `json:"aspects"`
}

// TypeCount is a categorical chart entry. Label is truncated for axis
// display; FullLabel keeps the original text for tooltips.
type TypeCount struct {
	Label     string `json:"label"`
	FullLabel string `json:"full_label"`
	Count     int    `json:"count"`
}

// Bundle is the complete set of derived dashboard view models.
type Bundle struct {
	Stats                       Stats           `json:"stats"`
	Activity                    []ActivityPoint `json:"activity"`
	IncidentsByType             []TypeCount     `json:"incidents_by_type"`
	AspectsByType               []TypeCount     `json:"aspects_by_type"`
	ConformityRate              int             `json:"conformity_rate"`
	EnvironmentalConformityRate int             `json:"environmental_conformity_rate"`
}

// Compute derives the full metrics bundle from a snapshot. Pure and cheap
// enough to run on every refresh; no incremental update path exists.
func Compute(snap *models.Snapshot, now time.Time) Bundle {
	if snap == nil {
		snap = &models.Snapshot{}
	}
	return Bundle{
		Stats:                       computeStats(snap, now),
		Activity:                    activitySeries(snap, now),
		IncidentsByType:             incidentBreakdown(snap.Incidents),
		AspectsByType:               aspectBreakdown(snap.Aspects),
		ConformityRate:              conformityRate(snap, now),
		EnvironmentalConformityRate: environmentalConformityRate(snap.Aspects),
	}
}

func computeStats(snap *models.Snapshot, now time.Time) Stats {
	s := Stats{
		TotalTrainings:     len(snap.Trainings),
		TotalEquipment:     len(snap.Equipment),
		TotalMedicalVisits: len(snap.MedicalVisits),
		TotalPPE:           len(snap.PPE),
		TotalActionPlans:   len(snap.ActionPlans),
		TotalIncidents:     len(snap.Incidents),
		TotalWorkPermits:   len(snap.WorkPermits),
		TotalDocuments:     len(snap.Documents),
		TotalTrainingPlans: len(snap.TrainingPlans),
		TotalHSEEvents:     len(snap.HSESchedule),
		TotalRegulations:   len(snap.Regulations),
		TotalAspects:       len(snap.Aspects),
	}

	for _, t := range snap.Trainings {
		if expiringSoon(t.ExpiryDate, now) {
			s.ExpiringTrainings++
		}
	}
	for _, e := range snap.Equipment {
		if expiringSoon(e.NextInspection, now) {
			s.EquipmentDueInspection++
		}
	}
	for _, v := range snap.MedicalVisits {
		if expiringSoon(v.ExpiryDate, now) {
			s.ExpiringMedicalVisits++
		}
	}
	for _, p := range snap.PPE {
		if expiringSoon(p.ExpiryDate, now) {
			s.ExpiringPPE++
		}
	}

	for _, p := range snap.ActionPlans {
		switch {
		case models.StatusIs(p.Status, models.StatusInProgress):
			s.PlansInProgress++
		case models.StatusIs(p.Status, models.StatusCompleted):
			s.PlansCompleted++
		}
	}

	for _, i := range snap.Incidents {
		if sameMonth(i.Date, now) {
			s.IncidentsThisMonth++
		}
	}

	for _, p := range snap.WorkPermits {
		switch {
		case models.StatusIs(p.Status, models.StatusApproved, models.StatusInProgress):
			s.PermitsActive++
		case models.StatusIs(p.Status, models.StatusPending):
			s.PermitsPending++
		}
	}

	for _, tp := range snap.TrainingPlans {
		if models.StatusIs(tp.Status, models.StatusPlanned, models.StatusInProgress) {
			s.TrainingsPlanned++
		}
	}

	for _, ev := range snap.HSESchedule {
		if sameMonth(ev.StartDate, now) {
			s.HSEActivitiesThisMonth++
		}
	}

	for _, a := range snap.Aspects {
		if models.StatusIs(a.Status, models.StatusSignificant) {
			s.SignificantAspects++
		}
		if models.StatusIs(a.Compliance, models.ComplianceNonConform) {
			s.NonCompliantAspects++
		}
		switch models.NormalizeStatus(a.Type) {
		case models.AspectTypeEmission:
			s.EmissionAspects++
		case models.AspectTypeWaste:
			s.WasteAspects++
		}
	}

	return s
}

// activitySeries buckets training, incident, visit, and environmental
// records into the trailing six calendar months ending at the current one.
// Records match on month-of-year, mirroring the dashboard's historical
// charting behaviour.
func activitySeries(snap *models.Snapshot, now time.Time) []ActivityPoint {
	series := make([]ActivityPoint, 0, 6)

	for offset := 5; offset >= 0; offset-- {
		month := time.Date(now.Year(), now.Month()-time.Month(offset), 1, 0, 0, 0, 0, time.Local).Month()
		point := ActivityPoint{Month: monthLabels[month-1]}

		for _, t := range snap.Trainings {
			if t.TrainingDate.Month() == month {
				point.Trainings++
			}
		}
		for _, i := range snap.Incidents {
			if i.Date.Month() == month {
				point.Incidents++
			}
		}
		for _, v := range snap.MedicalVisits {
			if v.VisitDate.Month() == month {
				point.Visits++
			}
		}
		for _, a := range snap.Aspects {
			if a.LastMeasurement.Month() == month {
				point.Aspects++
			}
		}

		series = append(series, point)
	}

	return series
}

func incidentBreakdown(incidents []models.Incident) []TypeCount {
	labels := make([]string, 0, len(incidents))
	for _, i := range incidents {
		labels = append(labels, i.Type)
	}
	return breakdown(labels)
}

func aspectBreakdown(aspects []models.EnvironmentalAspect) []TypeCount {
	labels := make([]string, 0, len(aspects))
	for _, a := range aspects {
		labels = append(labels, a.Type)
	}
	return breakdown(labels)
}

// breakdown groups raw type labels into (label, count) pairs, preserving
// first-seen order so chart colours stay stable across refreshes.
func breakdown(labels []string) []TypeCount {
	counts := make(map[string]int, len(labels))
	order := make([]string, 0, len(labels))

	for _, label := range labels {
		if label == "" {
			label = "Non spécifié"
		}
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	out := make([]TypeCount, 0, len(order))
	for _, full := range order {
		out = append(out, TypeCount{
			Label:     truncateLabel(full),
			FullLabel: full,
			Count:     counts[full],
		})
	}
	return out
}

func truncateLabel(s string) string {
	runes := []rune(s)
	if len(runes) <= maxLabelLen {
		return s
	}
	return string(runes[:maxLabelLen]) + "..."
}

// conformityRate is the share of tracked items that are not currently
// expired, across trainings, equipment, medical visits, PPE, and action
// plans. Expired action plans only count against the rate while in progress.
// An empty register is fully conform.
func conformityRate(snap *models.Snapshot, now time.Time) int {
	total := len(snap.Trainings) + len(snap.Equipment) + len(snap.MedicalVisits) +
		len(snap.PPE) + len(snap.ActionPlans)
	if total == 0 {
		return 100
	}

	expired := 0
	for _, t := range snap.Trainings {
		if elapsed(t.ExpiryDate, now) {
			expired++
		}
	}
	for _, e := range snap.Equipment {
		if elapsed(e.NextInspection, now) {
			expired++
		}
	}
	for _, v := range snap.MedicalVisits {
		if elapsed(v.ExpiryDate, now) {
			expired++
		}
	}
	for _, p := range snap.PPE {
		if elapsed(p.ExpiryDate, now) {
			expired++
		}
	}
	for _, p := range snap.ActionPlans {
		if elapsed(p.DueDate, now) && models.StatusIs(p.Status, models.StatusInProgress) {
			expired++
		}
	}

	return roundRate(total-expired, total)
}

// environmentalConformityRate is the share of register entries whose
// regulatory compliance field is "conforme". Entries in intermediate states
// stay in the denominator.
func environmentalConformityRate(aspects []models.EnvironmentalAspect) int {
	if len(aspects) == 0 {
		return 100
	}

	conform := 0
	for _, a := range aspects {
		if models.StatusIs(a.Compliance, models.ComplianceConform) {
			conform++
		}
	}
	return roundRate(conform, len(aspects))
}

func expiringSoon(d models.Date, now time.Time) bool {
	days := urgency.DaysUntil(d, now)
	return days >= 0 && days <= expiringWindow
}

func elapsed(d models.Date, now time.Time) bool {
	return urgency.DaysUntil(d, now) < 0
}

func sameMonth(d models.Date, now time.Time) bool {
	return !d.IsZero() && d.Month() == now.Month() && d.Year() == now.Year()
}

func roundRate(part, total int) int {
	return int(math.Round(100 * float64(part) / float64(total)))
}
