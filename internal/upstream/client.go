// Package upstream talks to the QHSE CRUD API this service derives its
// snapshot from. The collaborator owns all persistence; this client only
// reads collections and never writes.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/verol11/qhse-app/internal/models"
	"github.com/verol11/qhse-app/pkg/logger"
)

const defaultTimeout = 10 * time.Second

// Config holds the collaborator connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client fetches record collections from the upstream QHSE API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient validates the base URL and builds a client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("upstream: base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("upstream: invalid base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		log:     logger.WithModule("upstream"),
	}, nil
}

// FetchSnapshot retrieves all twelve collections concurrently. A module whose
// fetch fails degrades to an empty collection and is reported in the failed
// list; the combined error is informational and never fatal to the caller.
func (c *Client) FetchSnapshot(ctx context.Context) (*models.Snapshot, []models.Module, error) {
	snap := &models.Snapshot{}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed []models.Module
		errs   error
	)

	run := func(module models.Module, fetch func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fetch(ctx); err != nil {
				mu.Lock()
				failed = append(failed, module)
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", module, err))
				mu.Unlock()
				c.log.Warn("module fetch failed; continuing with empty collection",
					zap.String("qhse_module", string(module)), zap.Error(err))
			}
		}()
	}

	run(models.ModuleTrainings, func(ctx context.Context) error {
		items, err := fetchList[models.Training](ctx, c, "formations")
		if err != nil {
			return err
		}
		snap.Trainings = items
		return nil
	})
	run(models.ModuleEquipment, func(ctx context.Context) error {
		items, err := fetchList[models.Equipment](ctx, c, "materiel")
		if err != nil {
			return err
		}
		snap.Equipment = items
		return nil
	})
	run(models.ModuleMedicalVisits, func(ctx context.Context) error {
		items, err := fetchList[models.MedicalVisit](ctx, c, "visites")
		if err != nil {
			return err
		}
		snap.MedicalVisits = items
		return nil
	})
	run(models.ModuleActionPlans, func(ctx context.Context) error {
		items, err := fetchList[models.ActionPlan](ctx, c, "plans")
		if err != nil {
			return err
		}
		snap.ActionPlans = items
		return nil
	})
	run(models.ModulePPE, func(ctx context.Context) error {
		items, err := fetchList[models.PPE](ctx, c, "epi")
		if err != nil {
			return err
		}
		snap.PPE = items
		return nil
	})
	run(models.ModuleIncidents, func(ctx context.Context) error {
		items, err := fetchList[models.Incident](ctx, c, "incidents")
		if err != nil {
			return err
		}
		snap.Incidents = items
		return nil
	})
	run(models.ModuleWorkPermits, func(ctx context.Context) error {
		items, err := fetchList[models.WorkPermit](ctx, c, "permis")
		if err != nil {
			return err
		}
		// Risk entries submitted but not yet persisted can come back
		// without identifiers; give them stable placeholders.
		for i := range items {
			items[i].EnsureRiskIDs()
		}
		snap.WorkPermits = items
		return nil
	})
	run(models.ModuleDocuments, func(ctx context.Context) error {
		items, err := fetchList[models.Document](ctx, c, "ged")
		if err != nil {
			return err
		}
		snap.Documents = items
		return nil
	})
	run(models.ModuleTrainingPlans, func(ctx context.Context) error {
		items, err := fetchList[models.TrainingPlan](ctx, c, "planformations")
		if err != nil {
			return err
		}
		snap.TrainingPlans = items
		return nil
	})
	run(models.ModuleHSESchedule, func(ctx context.Context) error {
		items, err := fetchList[models.HSEEvent](ctx, c, "planninghse")
		if err != nil {
			return err
		}
		snap.HSESchedule = items
		return nil
	})
	run(models.ModuleRegulations, func(ctx context.Context) error {
		items, err := fetchList[models.Regulation](ctx, c, "veillereglementaire")
		if err != nil {
			return err
		}
		snap.Regulations = items
		return nil
	})
	run(models.ModuleEnvironment, func(ctx context.Context) error {
		items, err := fetchList[models.EnvironmentalAspect](ctx, c, "aspects-environnementaux")
		if err != nil {
			return err
		}
		snap.Aspects = items
		return nil
	})

	wg.Wait()

	sort.Slice(failed, func(i, j int) bool { return failed[i] < failed[j] })
	return snap, failed, errs
}

// Health probes the collaborator's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("upstream: build health request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream: health probe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream: health probe returned %d", resp.StatusCode)
	}
	return nil
}

// fetchList retrieves one collection from /api/<path> and decodes it.
func fetchList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	endpoint := c.baseURL + "/api/" + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var items []T
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return items, nil
}
