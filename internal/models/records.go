package models

import "github.com/google/uuid"

// The JSON tags below mirror the upstream QHSE API field names verbatim; the
// collaborator predates this service and its payloads use French camelCase.

// Training tracks an employee certification and its renewal deadline.
type Training struct {
	ID           string `json:"id"`
	LastName     string `json:"nom"`
	FirstName    string `json:"prenom"`
	Department   string `json:"departement"`
	Role         string `json:"fonction"`
	Type         string `json:"typeFormation"`
	Title        string `json:"intitule"`
	Center       string `json:"centreFormation"`
	TrainingDate Date   `json:"dateFormation"`
	ExpiryDate   Date   `json:"dateExpiration"`
}

// Equipment tracks a piece of equipment and its inspection cycle.
type Equipment struct {
	ID             string `json:"id"`
	Category       string `json:"categorie"`
	Designation    string `json:"designation"`
	SerialNumber   string `json:"numeroSerie"`
	Specs          string `json:"caracteristiques"`
	LastInspection Date   `json:"dateControle"`
	NextInspection Date   `json:"prochainControle"`
	Status         string `json:"statut"`
}

// MedicalVisit tracks an occupational health visit and its validity window.
type MedicalVisit struct {
	ID            string `json:"id"`
	LastName      string `json:"nom"`
	FirstName     string `json:"prenom"`
	Department    string `json:"departement"`
	Role          string `json:"fonction"`
	Type          string `json:"typeVisite"`
	Title         string `json:"intitule"`
	MedicalCenter string `json:"centreMedical"`
	VisitDate     Date   `json:"dateVisite"`
	ExpiryDate    Date   `json:"dateExpiration"`
}

// ActionPlan tracks a corrective or preventive action and its due date.
type ActionPlan struct {
	ID                 string `json:"id"`
	Title              string `json:"titre"`
	Description        string `json:"description"`
	Owner              string `json:"responsable"`
	Department         string `json:"departement"`
	StartDate          Date   `json:"dateDebut"`
	DueDate            Date   `json:"dateEcheance"`
	Priority           string `json:"priorite"`
	Progress           int    `json:"avancement"`
	Status             string `json:"statut"`
	Process            string `json:"processus"`
	EffectivenessCheck string `json:"mesureEfficacite,omitempty"`
	Comment            string `json:"commentaire,omitempty"`
	CreatedDate        Date   `json:"dateCreation,omitempty"`
}

// PPE tracks personal protective equipment issued to an employee.
type PPE struct {
	ID         string `json:"id"`
	Employee   string `json:"employe"`
	Department string `json:"departement"`
	Type       string `json:"typeEPI"`
	Brand      string `json:"marque"`
	Size       string `json:"taille"`
	IssueDate  Date   `json:"dateRemise"`
	ExpiryDate Date   `json:"dateExpiration"`
	Status     string `json:"statut"`
}

// Incident tracks a declared safety or quality event.
type Incident struct {
	ID          string `json:"id"`
	Title       string `json:"titre"`
	Type        string `json:"type"`
	Severity    string `json:"gravite,omitempty"`
	Location    string `json:"lieu,omitempty"`
	Description string `json:"description,omitempty"`
	Date        Date   `json:"date"`
	Status      string `json:"statut"`
}

// PermitRisk is one risk entry attached to a work permit.
type PermitRisk struct {
	ID       string `json:"id"`
	Hazard   string `json:"risque"`
	Level    string `json:"niveau"`
	Controls string `json:"mesures"`
}

// WorkPermit tracks a time-boxed authorization for hazardous work.
type WorkPermit struct {
	ID          string       `json:"id"`
	Number      string       `json:"numero"`
	Type        string       `json:"type"`
	Company     string       `json:"entreprise,omitempty"`
	Description string       `json:"description,omitempty"`
	StartDate   Date         `json:"dateDebut"`
	EndDate     Date         `json:"dateFin"`
	Status      string       `json:"statut"`
	Risks       []PermitRisk `json:"risques,omitempty"`
}

// EnsureRiskIDs assigns placeholder identifiers to risk entries that have not
// been persisted upstream yet, so consumers can key on them safely. Real IDs
// are always assigned by the collaborator.
func (p *WorkPermit) EnsureRiskIDs() {
	for i := range p.Risks {
		if p.Risks[i].ID == "" {
			p.Risks[i].ID = "tmp-" + uuid.NewString()
		}
	}
}

// Document is an entry in the document management register.
type Document struct {
	ID       string `json:"id"`
	Name     string `json:"nom"`
	Type     string `json:"type"`
	Category string `json:"categorie,omitempty"`
	Version  string `json:"version,omitempty"`
	AddedAt  Date   `json:"dateAjout"`
	FileURL  string `json:"fichier,omitempty"`
}

// TrainingPlan tracks a planned training campaign awaiting validation.
type TrainingPlan struct {
	ID            string `json:"id"`
	Title         string `json:"intitule"`
	Department    string `json:"departement,omitempty"`
	Status        string `json:"statut"`
	CreatedDate   Date   `json:"dateCreation"`
	ScheduledDate Date   `json:"datePrevue,omitempty"`
}

// HSEEvent is a scheduled HSE activity (audit, drill, inspection, ...).
type HSEEvent struct {
	ID        string `json:"id"`
	Title     string `json:"titre"`
	Type      string `json:"type"`
	Owner     string `json:"responsable,omitempty"`
	StartDate Date   `json:"dateDebut"`
	EndDate   Date   `json:"dateFin,omitempty"`
	Status    string `json:"statut"`
}

// Regulation is an entry in the regulatory watch register.
type Regulation struct {
	ID             string `json:"id"`
	Reference      string `json:"reference"`
	Title          string `json:"titre"`
	Domain         string `json:"domaine,omitempty"`
	Status         string `json:"statut"`
	EffectiveDate  Date   `json:"dateApplication,omitempty"`
	ComplianceNote string `json:"commentaire,omitempty"`
}

// EnvironmentalAspect is an entry in the environmental register.
type EnvironmentalAspect struct {
	ID              string `json:"id"`
	Aspect          string `json:"aspect"`
	Type            string `json:"type"`
	Status          string `json:"statut"`
	Compliance      string `json:"conformite_reglementaire"`
	LastMeasurement Date   `json:"date_derniere_mesure"`
}
