package alerts

import (
	"fmt"

	"github.com/verol11/qhse-app/internal/models"
	"github.com/verol11/qhse-app/internal/urgency"
)

// expiryMessages holds the per-tier templates of a plain deadline rule. Each
// template receives the record label and the absolute day count.
type expiryMessages struct {
	critical string
	high     string
	medium   string
}

// expiryRule watches a single date field across a collection: elapsed dates
// are critical, the next 7 days high, the next 30 medium. This covers the
// four renewal-driven modules; action plans and permits add status gating on
// top and are handled separately in compute.go.
type expiryRule struct {
	source   Source
	module   models.Module
	messages expiryMessages
}

var (
	trainingRule = expiryRule{
		source: SourceTraining,
		module: models.ModuleTrainings,
		messages: expiryMessages{
			critical: `FORMATION EXPIRÉE: "%s" a expiré il y a %d jours`,
			high:     `FORMATION À RENOUVELER: "%s" expire dans %d jours`,
			medium:   `FORMATION À PLANIFIER: "%s" expire dans %d jours`,
		},
	}

	equipmentRule = expiryRule{
		source: SourceEquipment,
		module: models.ModuleEquipment,
		messages: expiryMessages{
			critical: `CONTRÔLE EN RETARD: "%s" devrait être contrôlé il y a %d jours`,
			high:     `CONTRÔLE URGENT: "%s" à contrôler dans %d jours`,
			medium:   `CONTRÔLE À PLANIFIER: "%s" à contrôler dans %d jours`,
		},
	}

	medicalVisitRule = expiryRule{
		source: SourceMedicalVisit,
		module: models.ModuleMedicalVisits,
		messages: expiryMessages{
			critical: `VISITE EXPIRÉE: "%s" a expiré il y a %d jours`,
			high:     `VISITE URGENTE: "%s" expire dans %d jours`,
			medium:   `VISITE À PLANIFIER: "%s" expire dans %d jours`,
		},
	}

	ppeRule = expiryRule{
		source: SourcePPE,
		module: models.ModulePPE,
		messages: expiryMessages{
			critical: `EPI EXPIRÉ: "%s" a expiré il y a %d jours`,
			high:     `EPI À RENOUVELER: "%s" expire dans %d jours`,
			medium:   `EPI À COMMANDER: "%s" expire dans %d jours`,
		},
	}
)

// apply evaluates the rule for one record. The second return value is false
// when the deadline is too far out (or absent) to warrant a notification.
func (r expiryRule) apply(label string, deadline models.Date, days int) (Notification, bool) {
	var message string
	priority := urgency.Classify(days)

	switch priority {
	case urgency.PriorityCritical:
		message = fmt.Sprintf(r.messages.critical, label, -days)
	case urgency.PriorityHigh:
		message = fmt.Sprintf(r.messages.high, label, days)
	case urgency.PriorityMedium:
		message = fmt.Sprintf(r.messages.medium, label, days)
	default:
		return Notification{}, false
	}

	return Notification{
		Message:       message,
		Source:        r.source,
		Priority:      priority,
		Module:        r.module,
		ReferenceDate: deadline,
		DaysRemaining: days,
	}, true
}
