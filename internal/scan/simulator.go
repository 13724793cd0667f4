// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scan

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// ErrAlreadyRunning is returned by Start while a run is in progress.
var ErrAlreadyRunning = errors.New("scan already running")

// =============================================================================
// STATE
// =============================================================================

// State is the simulator lifecycle state.
type State string

const (
	Idle      State = "idle"
	Running   State = "running"
	Completed State = "completed"
)

// String returns the state label.
func (s State) String() string {
	return string(s)
}

// RunID identifies one run generation. Zero means no run has started.
type RunID uint64

// Defaults.
const (
	DefaultMaxIncrement = 15.0
	DefaultInterval     = 500 * time.Millisecond
	Complete            = 100.0
)

// Random yields values in [0,1).
type Random interface {
	Float64() float64
}

type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }

// Snapshot is a point-in-time view of the simulator.
type Snapshot struct {
	Run      RunID
	State    State
	Progress float64
}

// Percent returns the progress rounded for display.
func (s Snapshot) Percent() int {
	return int(math.Round(s.Progress))
}

// Fraction returns progress in [0,1] for progress bars.
func (s Snapshot) Fraction() float64 {
	return s.Progress / Complete
}

// IsRunning reports whether the run is still advancing.
func (s Snapshot) IsRunning() bool {
	return s.State == Running
}

// =============================================================================
// SIMULATOR
// =============================================================================

// Simulator advances a progress percentage toward 100 in random steps.
type Simulator struct {
	state    State
	progress float64
	run      RunID

	maxIncrement float64
	interval     time.Duration
	rnd          Random

	mu sync.Mutex
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithRandom injects the increment source.
func WithRandom(r Random) Option {
	return func(s *Simulator) {
		if r != nil {
			s.rnd = r
		}
	}
}

// WithInterval sets the tick interval used by Run.
func WithInterval(d time.Duration) Option {
	return func(s *Simulator) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithMaxIncrement sets the upper bound of a single step.
func WithMaxIncrement(m float64) Option {
	return func(s *Simulator) {
		if m > 0 {
			s.maxIncrement = m
		}
	}
}

// NewSimulator creates an idle simulator.
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{
		state:        Idle,
		maxIncrement: DefaultMaxIncrement,
		interval:     DefaultInterval,
		rnd:          globalRandom{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens a new run at 0%. It fails with ErrAlreadyRunning while a run
// is in progress.
func (s *Simulator) Start() (RunID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Running {
		return s.run, ErrAlreadyRunning
	}
	s.run++
	s.state = Running
	s.progress = 0
	return s.run, nil
}

// Tick advances run by one step. Ticks for a superseded run, or arriving
// after completion, leave the simulator unchanged.
func (s *Simulator) Tick(run RunID) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run != s.run || s.state != Running {
		return s.snapshotLocked()
	}

	r := s.rnd.Float64()
	if r < 0 || r >= 1 || math.IsNaN(r) {
		r = 0
	}
	next := s.progress + r*s.maxIncrement
	if next >= Complete {
		next = Complete
		s.state = Completed
	}
	s.progress = next
	return s.snapshotLocked()
}

// Abort ends the current run without completing it. Progress is kept.
func (s *Simulator) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Running {
		s.state = Idle
		s.run++
	}
}

// Snapshot returns the current state.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Progress returns the current percentage.
func (s *Simulator) Progress() float64 {
	return s.Snapshot().Progress
}

// IsRunning reports whether a run is in progress.
func (s *Simulator) IsRunning() bool {
	return s.Snapshot().IsRunning()
}

// State returns the lifecycle state.
func (s *Simulator) State() State {
	return s.Snapshot().State
}

// Interval returns the tick interval.
func (s *Simulator) Interval() time.Duration {
	return s.interval
}

func (s *Simulator) snapshotLocked() Snapshot {
	return Snapshot{Run: s.run, State: s.state, Progress: s.progress}
}

// =============================================================================
// DRIVER
// =============================================================================

// Run starts a run and ticks it on the configured interval until it
// completes or ctx is done. onUpdate, when set, sees every snapshot
// including the final one. A canceled run is aborted.
func (s *Simulator) Run(ctx context.Context, onUpdate func(Snapshot)) (Snapshot, error) {
	run, err := s.Start()
	if err != nil {
		return s.Snapshot(), err
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if onUpdate != nil {
		onUpdate(s.Snapshot())
	}

	for {
		select {
		case <-ctx.Done():
			s.Abort()
			return s.Snapshot(), ctx.Err()
		case <-ticker.C:
			snap := s.Tick(run)
			if onUpdate != nil {
				onUpdate(snap)
			}
			if !snap.IsRunning() {
				return snap, nil
			}
		}
	}
}
