package engine

import (
	"context"
	"math/rand"
	"time"
)

// Config governs one generation run. The zero value picks sensible
// defaults; Seed zero means "derive from wall clock", so reproducible
// runs must pass an explicit seed.
type Config struct {
	OptimizerIterations int
	RetryCeiling        int
	Seed                int64
}

const defaultOptimizerIterations = 500

// Input is the immutable snapshot a run computes over. The engine never
// fetches data itself; collaborators assemble the snapshot.
type Input struct {
	Courses     []Course
	Teachers    []Teacher
	Rooms       []Room
	Constraints Constraints
}

// Stats describes how a run went.
type Stats struct {
	TotalSessions   int
	PlacedGreedy    int
	PlacedResolved  int
	Unassigned      int
	SwapsAccepted   int
	InitialSoftCost int
	FinalSoftCost   int
	Elapsed         time.Duration
}

// Result carries the finished schedule plus diagnostics the host must
// be able to surface: permanently unassigned tokens and input warnings.
type Result struct {
	Entries    []Entry
	Unassigned []SessionToken
	Warnings   []string
	Stats      Stats
}

// Engine runs the full generation pipeline: preprocess, greedy
// placement, conflict resolution, local search. Each run owns its
// working state, so distinct runs may execute concurrently as long as
// they receive independent Input snapshots.
type Engine struct {
	cfg Config
}

// New builds an Engine with the given configuration.
func New(cfg Config) *Engine {
	if cfg.OptimizerIterations <= 0 {
		cfg.OptimizerIterations = defaultOptimizerIterations
	}
	return &Engine{cfg: cfg}
}

// Generate executes one synchronous run over the snapshot. Cancellation
// is honoured between phases only; intermediate occupancy state is not
// independently meaningful, so phases never abort mid-flight.
func (e *Engine) Generate(ctx context.Context, in Input) (*Result, error) {
	started := time.Now()

	availability := make(AvailabilityIndex, len(in.Teachers))
	var warnings []string
	for _, t := range in.Teachers {
		if t.Availability == "" {
			continue
		}
		slots, w := ParseAvailability(t.Availability, in.Constraints)
		availability[t.ID] = slots
		warnings = append(warnings, w...)
	}

	tokens, w := ExpandCourses(in.Courses)
	warnings = append(warnings, w...)

	occ := newOccupancy()
	entries, unassigned := Place(tokens, availability, in.Rooms, in.Constraints, occ)
	placedGreedy := len(entries)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, unassigned = Resolve(entries, unassigned, availability, in.Rooms, in.Constraints, e.cfg.RetryCeiling)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seed := e.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	entries, optStats := Optimize(entries, in.Rooms, e.cfg.OptimizerIterations, rng)

	return &Result{
		Entries:    entries,
		Unassigned: unassigned,
		Warnings:   warnings,
		Stats: Stats{
			TotalSessions:   len(tokens),
			PlacedGreedy:    placedGreedy,
			PlacedResolved:  len(entries) - placedGreedy,
			Unassigned:      len(unassigned),
			SwapsAccepted:   optStats.SwapsAccepted,
			InitialSoftCost: optStats.InitialCost,
			FinalSoftCost:   optStats.FinalCost,
			Elapsed:         time.Since(started),
		},
	}, nil
}
