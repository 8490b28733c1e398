package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeStatusSpellingVariants(t *testing.T) {
	variants := []string{"En cours", "en_cours", "EN COURS", "  en   cours  ", "en_Cours"}
	for _, raw := range variants {
		require.Equal(t, StatusInProgress, NormalizeStatus(raw), "%q", raw)
	}
}

func TestNormalizeStatusAccentFolding(t *testing.T) {
	require.Equal(t, StatusApproved, NormalizeStatus("Approuvé"))
	require.Equal(t, StatusCompleted, NormalizeStatus("Terminé"))
	require.Equal(t, StatusPlanned, NormalizeStatus("Planifié"))
	require.Equal(t, "cloture", NormalizeStatus("Clôturé"))
}

func TestStatusIs(t *testing.T) {
	require.True(t, StatusIs("En cours", StatusInProgress))
	require.True(t, StatusIs("approuvé", StatusApproved, StatusInProgress))
	require.True(t, StatusIs("en_attente", StatusPending))
	require.False(t, StatusIs("terminé", StatusInProgress, StatusPending))
	require.False(t, StatusIs("", StatusInProgress))
}

func TestSnapshotCountsAndClone(t *testing.T) {
	snap := &Snapshot{
		Trainings: []Training{{ID: "t1"}},
		Incidents: []Incident{{ID: "i1"}, {ID: "i2"}},
	}

	counts := snap.Counts()
	require.Equal(t, 1, counts[ModuleTrainings])
	require.Equal(t, 2, counts[ModuleIncidents])
	require.Equal(t, 0, counts[ModulePPE])
	require.Equal(t, 3, snap.Total())

	clone := snap.Clone()
	clone.Trainings[0].ID = "changed"
	require.Equal(t, "t1", snap.Trainings[0].ID)
}

func TestWorkPermitEnsureRiskIDs(t *testing.T) {
	permit := WorkPermit{
		Risks: []PermitRisk{{ID: "", Hazard: "chute"}, {ID: "r2"}},
	}
	permit.EnsureRiskIDs()

	require.NotEmpty(t, permit.Risks[0].ID)
	require.Contains(t, permit.Risks[0].ID, "tmp-")
	require.Equal(t, "r2", permit.Risks[1].ID)
}
