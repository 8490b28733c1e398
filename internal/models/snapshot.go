package models

// Module identifies one of the twelve tracked QHSE domains. The values double
// as navigation targets for the SPA, so they match the frontend module IDs.
type Module string

const (
	ModuleTrainings     Module = "formations"
	ModuleEquipment     Module = "materiel"
	ModuleMedicalVisits Module = "visites"
	ModuleActionPlans   Module = "plans"
	ModulePPE           Module = "epi"
	ModuleIncidents     Module = "incidents"
	ModuleWorkPermits   Module = "permis"
	ModuleDocuments     Module = "ged"
	ModuleTrainingPlans Module = "planformations"
	ModuleHSESchedule   Module = "planninghse"
	ModuleRegulations   Module = "veillereglementaire"
	ModuleEnvironment   Module = "gestionenvironnementale"
)

// AllModules lists every tracked module in display order.
func AllModules() []Module {
	return []Module{
		ModuleTrainings,
		ModuleEquipment,
		ModuleMedicalVisits,
		ModuleActionPlans,
		ModulePPE,
		ModuleIncidents,
		ModuleWorkPermits,
		ModuleDocuments,
		ModuleTrainingPlans,
		ModuleHSESchedule,
		ModuleRegulations,
		ModuleEnvironment,
	}
}

// Snapshot is the full in-memory state of the twelve record collections at a
// point in time. It is replaced, never mutated, on each refresh; derived views
// (alerts, dashboard metrics) are pure functions of a snapshot.
type Snapshot struct {
	Trainings     []Training            `json:"formations"`
	Equipment     []Equipment           `json:"materiel"`
	MedicalVisits []MedicalVisit        `json:"visites"`
	ActionPlans   []ActionPlan          `json:"plans"`
	PPE           []PPE                 `json:"epi"`
	Incidents     []Incident            `json:"incidents"`
	WorkPermits   []WorkPermit          `json:"permis"`
	Documents     []Document            `json:"ged"`
	TrainingPlans []TrainingPlan        `json:"planformations"`
	HSESchedule   []HSEEvent            `json:"planninghse"`
	Regulations   []Regulation          `json:"veillereglementaire"`
	Aspects       []EnvironmentalAspect `json:"aspectsEnvironnementaux"`
}

// Counts returns the number of records held per module.
func (s *Snapshot) Counts() map[Module]int {
	if s == nil {
		return map[Module]int{}
	}
	return map[Module]int{
		ModuleTrainings:     len(s.Trainings),
		ModuleEquipment:     len(s.Equipment),
		ModuleMedicalVisits: len(s.MedicalVisits),
		ModuleActionPlans:   len(s.ActionPlans),
		ModulePPE:           len(s.PPE),
		ModuleIncidents:     len(s.Incidents),
		ModuleWorkPermits:   len(s.WorkPermits),
		ModuleDocuments:     len(s.Documents),
		ModuleTrainingPlans: len(s.TrainingPlans),
		ModuleHSESchedule:   len(s.HSESchedule),
		ModuleRegulations:   len(s.Regulations),
		ModuleEnvironment:   len(s.Aspects),
	}
}

// Total returns the overall number of tracked records.
func (s *Snapshot) Total() int {
	total := 0
	for _, n := range s.Counts() {
		total += n
	}
	return total
}

// Clone returns a copy whose collections can be replaced without tearing the
// original. Record values are shared; they are treated as immutable.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return &Snapshot{}
	}
	cp := Snapshot{
		Trainings:     append([]Training(nil), s.Trainings...),
		Equipment:     append([]Equipment(nil), s.Equipment...),
		MedicalVisits: append([]MedicalVisit(nil), s.MedicalVisits...),
		ActionPlans:   append([]ActionPlan(nil), s.ActionPlans...),
		PPE:           append([]PPE(nil), s.PPE...),
		Incidents:     append([]Incident(nil), s.Incidents...),
		WorkPermits:   append([]WorkPermit(nil), s.WorkPermits...),
		Documents:     append([]Document(nil), s.Documents...),
		TrainingPlans: append([]TrainingPlan(nil), s.TrainingPlans...),
		HSESchedule:   append([]HSEEvent(nil), s.HSESchedule...),
		Regulations:   append([]Regulation(nil), s.Regulations...),
		Aspects:       append([]EnvironmentalAspect(nil), s.Aspects...),
	}
	return &cp
}
