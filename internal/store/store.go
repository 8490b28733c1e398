// Package store holds the current snapshot and its derived views. States are
// immutable: each refresh swaps in a fresh state, so readers never observe a
// half-updated feed.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/verol11/qhse-app/internal/alerts"
	"github.com/verol11/qhse-app/internal/dashboard"
	"github.com/verol11/qhse-app/internal/models"
)

// State is one fully derived generation of dashboard data.
type State struct {
	// Version correlates log lines, API responses, and realtime events
	// produced from the same refresh.
	Version       string
	Snapshot      *models.Snapshot
	Notifications []alerts.Notification
	Metrics       dashboard.Bundle
	FailedModules []models.Module
	RefreshedAt   time.Time
}

// Store publishes derived states to the HTTP and realtime layers.
type Store struct {
	mu      sync.RWMutex
	current *State
	now     func() time.Time
}

// Option customises the Store.
type Option func(*Store)

// WithNow overrides the clock, primarily for testing.
func WithNow(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs an empty Store. Current returns nil until the first Set.
func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set derives the alert feed and metrics bundle from the snapshot and swaps
// the result in as the new current state.
func (s *Store) Set(snap *models.Snapshot, failed []models.Module) *State {
	if snap == nil {
		snap = &models.Snapshot{}
	}

	now := s.now()
	state := &State{
		Version:       uuid.NewString(),
		Snapshot:      snap,
		Notifications: alerts.Compute(snap, now),
		Metrics:       dashboard.Compute(snap, now),
		FailedModules: failed,
		RefreshedAt:   now,
	}

	s.mu.Lock()
	s.current = state
	s.mu.Unlock()

	return state
}

// Current returns the latest derived state, or nil before the first refresh.
func (s *Store) Current() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Ready reports whether at least one snapshot has been loaded.
func (s *Store) Ready() bool {
	return s.Current() != nil
}
