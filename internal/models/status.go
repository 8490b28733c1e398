package models

import "strings"

// Canonical status values after normalization. The upstream mixes two spelling
// conventions ("En cours" and "en_cours"); both normalize to these forms.
const (
	StatusInProgress    = "en cours"
	StatusPending       = "en attente"
	StatusApproved      = "approuve"
	StatusCompleted     = "termine"
	StatusInvestigating = "en investigation"
	StatusSignificant   = "significatif"
	StatusPlanned       = "planifie"

	ComplianceConform    = "conforme"
	ComplianceNonConform = "non conforme"

	AspectTypeEmission = "emission"
	AspectTypeWaste    = "dechet"
)

var accentFolder = strings.NewReplacer(
	"à", "a", "â", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"î", "i", "ï", "i",
	"ô", "o", "ö", "o",
	"ù", "u", "û", "u", "ü", "u",
	"ç", "c",
)

// NormalizeStatus folds case, French accents, and the underscore/space
// spelling variants so that "Approuvé" and "approuve" compare equal.
func NormalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = accentFolder.Replace(s)
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

// StatusIs reports whether the raw status matches any of the canonical values.
func StatusIs(raw string, canonical ...string) bool {
	normalized := NormalizeStatus(raw)
	for _, c := range canonical {
		if normalized == c {
			return true
		}
	}
	return false
}
