package monitoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/verol11/qhse-app/internal/store"
)

// UpstreamProber reports whether the QHSE data API answers its health endpoint.
type UpstreamProber interface {
	Health(ctx context.Context) error
}

// UpstreamCheck probes the collaborator API.
func UpstreamCheck(prober UpstreamProber) Check {
	return Check{
		Name: "upstream",
		Run: func(ctx context.Context) ProbeResult {
			start := time.Now()
			err := prober.Health(ctx)
			return resultFromError("upstream", err, time.Since(start))
		},
	}
}

// SnapshotCheck verifies that a snapshot has been loaded and is not stale.
// A zero maxAge disables the staleness test.
func SnapshotCheck(st *store.Store, maxAge time.Duration, now func() time.Time) Check {
	if now == nil {
		now = time.Now
	}
	return Check{
		Name: "snapshot",
		Run: func(ctx context.Context) ProbeResult {
			state := st.Current()
			if state == nil {
				return ProbeResult{
					Status:  StatusDown,
					Details: "no snapshot loaded yet",
				}
			}

			if maxAge > 0 {
				age := now().Sub(state.RefreshedAt)
				if age > maxAge {
					return ProbeResult{
						Status:  StatusDegraded,
						Details: fmt.Sprintf("snapshot is %s old", age.Round(time.Second)),
					}
				}
			}

			if len(state.FailedModules) > 0 {
				return ProbeResult{
					Status:  StatusDegraded,
					Details: fmt.Sprintf("%d modules degraded to empty", len(state.FailedModules)),
				}
			}

			return ProbeResult{Status: StatusUp}
		},
	}
}

// ServerCheck always reports up; it anchors the liveness probe.
func ServerCheck() Check {
	return Check{
		Name: "server",
		Run: func(ctx context.Context) ProbeResult {
			return ProbeResult{Status: StatusUp}
		},
	}
}

func resultFromError(component string, err error, duration time.Duration) ProbeResult {
	if err == nil {
		return ProbeResult{Component: component, Status: StatusUp, Duration: duration}
	}

	status := StatusDown
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		status = StatusDegraded
	}

	return ProbeResult{
		Component: component,
		Status:    status,
		Details:   err.Error(),
		Duration:  duration,
	}
}
