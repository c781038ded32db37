// Package schedule maps calendar dates to planned sessions. All functions
// are pure: they read the program, profile, log history and override map
// and never mutate them.
package schedule

import (
	"errors"
	"fmt"

	"github.com/meltforce/repcoach/internal/models"
)

// ErrNoProgram is returned when the program has no sessions to rotate.
var ErrNoProgram = errors.New("program has no sessions")

// ErrScheduleConflict is returned when a swap touches a date that already
// has a completed workout. History is immutable, so such swaps are rejected
// and the override map is left unchanged.
var ErrScheduleConflict = errors.New("date already has a completed workout")

// Kind tells what a date resolves to.
type Kind string

const (
	KindRest      Kind = "rest"
	KindPlanned   Kind = "planned"
	KindCompleted Kind = "completed"
)

// Result is the outcome of resolving one date.
type Result struct {
	Kind          Kind               `json:"kind"`
	Session       *models.Session    `json:"session,omitempty"`
	RotationIndex int                `json:"rotation_index,omitempty"`
	Log           *models.WorkoutLog `json:"log,omitempty"`
}

// ScheduledWorkout resolves what date holds: the already-completed log if
// one exists, the override if one is set, otherwise the next session in
// rotation on an eligible day.
//
// The rotation index is len(history) mod len(program.Sessions): it advances
// exactly once per completed workout regardless of which weekday the
// workout landed on, so sessions are never skipped.
func ScheduledWorkout(date models.Date, program models.Program, profile models.Profile, history []models.WorkoutLog, overrides models.ScheduleOverrides) (Result, error) {
	// Completed history always wins.
	for i := range history {
		if history[i].Date == date {
			return Result{Kind: KindCompleted, Log: &history[i]}, nil
		}
	}

	if len(program.Sessions) == 0 {
		return Result{}, ErrNoProgram
	}

	if idx, ok := overrides[date]; ok {
		if idx == nil {
			return Result{Kind: KindRest}, nil
		}
		if *idx < 0 || *idx >= len(program.Sessions) {
			return Result{}, fmt.Errorf("override for %s: session index %d out of range", date, *idx)
		}
		return planned(program, *idx), nil
	}

	// A brand-new user gets a workout on any day; everyone else rests on
	// non-preferred days.
	if !profile.PrefersDay(date.Weekday()) && len(history) > 0 {
		return Result{Kind: KindRest}, nil
	}

	return planned(program, len(history)%len(program.Sessions)), nil
}

func planned(program models.Program, idx int) Result {
	s := program.Sessions[idx]
	return Result{Kind: KindPlanned, Session: &s, RotationIndex: idx}
}

// SwapDays exchanges the effective session assignment of two dates by
// writing each date's resolved index (or rest) into the other date's
// override slot. Dates with completed logs cannot be swapped. The returned
// map is a copy; the input overrides are never modified.
func SwapDays(a, b models.Date, program models.Program, profile models.Profile, history []models.WorkoutLog, overrides models.ScheduleOverrides) (models.ScheduleOverrides, error) {
	for _, log := range history {
		if log.Date == a || log.Date == b {
			return nil, fmt.Errorf("swapping %s and %s: %w", a, b, ErrScheduleConflict)
		}
	}

	ra, err := ScheduledWorkout(a, program, profile, history, overrides)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", a, err)
	}
	rb, err := ScheduledWorkout(b, program, profile, history, overrides)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", b, err)
	}

	out := make(models.ScheduleOverrides, len(overrides)+2)
	for k, v := range overrides {
		out[k] = v
	}
	out[a] = effectiveIndex(rb)
	out[b] = effectiveIndex(ra)
	return out, nil
}

// effectiveIndex converts a resolved result into an override slot value:
// a session index for planned days, nil (explicit rest) otherwise.
func effectiveIndex(r Result) *int {
	if r.Kind != KindPlanned {
		return nil
	}
	idx := r.RotationIndex
	return &idx
}
