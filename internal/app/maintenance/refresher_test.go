package maintenance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"

	"github.com/verol11/qhse-app/internal/models"
	"github.com/verol11/qhse-app/internal/store"
)

type stubFetcher struct {
	snap   *models.Snapshot
	failed []models.Module
	err    error
	calls  int
}

func (f *stubFetcher) FetchSnapshot(ctx context.Context) (*models.Snapshot, []models.Module, error) {
	f.calls++
	return f.snap, f.failed, f.err
}

type recordingHub struct {
	states []*store.State
}

func (h *recordingHub) BroadcastState(state *store.State) {
	h.states = append(h.states, state)
}

func fixedNow() time.Time {
	return time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
}

func TestRunOncePublishesState(t *testing.T) {
	st := store.New(store.WithNow(fixedNow))
	fetcher := &stubFetcher{snap: &models.Snapshot{
		Trainings: []models.Training{{ID: "t1", Title: "SST", ExpiryDate: models.DateOf(fixedNow().AddDate(0, 0, 3))}},
	}}
	hub := &recordingHub{}

	r := NewRefresher(fetcher, st,
		WithNow(fixedNow),
		WithBroadcaster(hub),
		WithCron(cron.New(cron.WithLogger(cron.DiscardLogger))),
	)

	require.NoError(t, r.RunOnce(context.Background()))

	state := st.Current()
	require.NotNil(t, state)
	require.NotEmpty(t, state.Version)
	require.Len(t, state.Notifications, 1)
	require.Equal(t, 1, fetcher.calls)

	require.Len(t, hub.states, 1)
	require.Same(t, state, hub.states[0])
}

func TestRunOnceKeepsStateOnPartialFailure(t *testing.T) {
	st := store.New(store.WithNow(fixedNow))
	fetcher := &stubFetcher{
		snap:   &models.Snapshot{},
		failed: []models.Module{models.ModuleTrainings},
		err:    errors.New("formations: connection refused"),
	}

	r := NewRefresher(fetcher, st, WithNow(fixedNow))

	require.NoError(t, r.RunOnce(context.Background()))

	state := st.Current()
	require.NotNil(t, state)
	require.Equal(t, []models.Module{models.ModuleTrainings}, state.FailedModules)
}

func TestRunOnceDoesNotOverwriteWhenUpstreamIsDown(t *testing.T) {
	st := store.New(store.WithNow(fixedNow))
	previous := st.Set(&models.Snapshot{
		Incidents: []models.Incident{{ID: "i1", Status: "En cours"}},
	}, nil)

	fetcher := &stubFetcher{
		snap:   &models.Snapshot{},
		failed: models.AllModules(),
		err:    errors.New("connection refused"),
	}

	r := NewRefresher(fetcher, st, WithNow(fixedNow))

	err := r.RunOnce(context.Background())
	require.Error(t, err)
	require.Same(t, previous, st.Current())
}

func TestStartRegistersSchedule(t *testing.T) {
	st := store.New(store.WithNow(fixedNow))
	fetcher := &stubFetcher{snap: &models.Snapshot{}}
	c := cron.New(cron.WithLogger(cron.DiscardLogger))

	r := NewRefresher(fetcher, st,
		WithNow(fixedNow),
		WithCron(c),
		WithSchedule("@every 1h"),
	)

	require.NoError(t, r.Start())
	require.Len(t, c.Entries(), 1)
	<-r.Stop().Done()
}

func TestStartRejectsBadSchedule(t *testing.T) {
	st := store.New(store.WithNow(fixedNow))
	r := NewRefresher(&stubFetcher{snap: &models.Snapshot{}}, st,
		WithSchedule("not-a-spec"),
	)

	require.Error(t, r.Start())
}
