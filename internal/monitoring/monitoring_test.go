package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verol11/qhse-app/internal/models"
	"github.com/verol11/qhse-app/internal/store"
)

type stubProber struct {
	err error
}

func (p stubProber) Health(ctx context.Context) error { return p.err }

func TestHealthManagerAggregatesStatuses(t *testing.T) {
	m := NewHealthManager()
	m.RegisterReadiness(ServerCheck())
	m.RegisterReadiness(UpstreamCheck(stubProber{err: errors.New("connection refused")}))

	report := m.EvaluateReadiness(context.Background())

	require.False(t, report.Success)
	require.Equal(t, StatusDown, report.Status)
	require.Len(t, report.Checks, 2)
	require.Equal(t, "server", report.Checks[0].Component)
	require.Equal(t, StatusUp, report.Checks[0].Status)
	require.Equal(t, "upstream", report.Checks[1].Component)
	require.Equal(t, StatusDown, report.Checks[1].Status)
}

func TestUpstreamCheckTimeoutIsDegraded(t *testing.T) {
	check := UpstreamCheck(stubProber{err: context.DeadlineExceeded})
	result := runCheck(context.Background(), check)
	require.Equal(t, StatusDegraded, result.Status)
}

func TestSnapshotCheckBeforeFirstRefresh(t *testing.T) {
	st := store.New()
	check := SnapshotCheck(st, 0, nil)

	result := runCheck(context.Background(), check)
	require.Equal(t, StatusDown, result.Status)
	require.Contains(t, result.Details, "no snapshot")
}

func TestSnapshotCheckStaleness(t *testing.T) {
	refreshed := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	st := store.New(store.WithNow(func() time.Time { return refreshed }))
	st.Set(&models.Snapshot{}, nil)

	fresh := SnapshotCheck(st, time.Hour, func() time.Time { return refreshed.Add(30 * time.Minute) })
	require.Equal(t, StatusUp, runCheck(context.Background(), fresh).Status)

	stale := SnapshotCheck(st, time.Hour, func() time.Time { return refreshed.Add(2 * time.Hour) })
	require.Equal(t, StatusDegraded, runCheck(context.Background(), stale).Status)
}

func TestSnapshotCheckDegradedModules(t *testing.T) {
	st := store.New()
	st.Set(&models.Snapshot{}, []models.Module{models.ModuleTrainings})

	check := SnapshotCheck(st, 0, nil)
	result := runCheck(context.Background(), check)
	require.Equal(t, StatusDegraded, result.Status)
}
