// Package autoreg adjusts a prescribed session to the user's readiness
// before it starts, and synthesizes warm-up sets for heavy first lifts.
package autoreg

import (
	"fmt"
	"math"

	"github.com/meltforce/repcoach/internal/models"
)

const (
	// minSets is the floor below which a red day never cuts working sets.
	minSets = 2

	// warmupThresholdKg: first lifts at or below this weight get no
	// synthesized warm-ups.
	warmupThresholdKg = 20
)

// Adapt returns a copy of the prescribed session adjusted for readiness:
// red days drop one working set (floor 2) and scale weights to 90%, yellow
// days scale weights to 95%, green days pass through. If the first working
// lift is heavier than 20 kg, ramp-up warm-up sets are prepended.
//
// Adapt operates on the prescribed session only. An already-adapted session
// (the Adapted marker, or warm-up entries from a prior pass) is returned
// unchanged, so reductions can never compound.
func Adapt(session models.Session, readiness models.ReadinessData) models.Session {
	if session.Adapted {
		return session
	}
	for _, ex := range session.Exercises {
		if ex.IsWarmup {
			return session
		}
	}

	out := models.Session{Name: session.Name, Adapted: true, Exercises: make([]models.Exercise, len(session.Exercises))}
	copy(out.Exercises, session.Exercises)

	for i := range out.Exercises {
		ex := &out.Exercises[i]
		if ex.WeightKg == nil {
			continue
		}
		switch readiness.Status {
		case models.ReadinessRed:
			if ex.Sets > minSets {
				ex.Sets--
			}
			w := math.Round(*ex.WeightKg * 0.90)
			ex.WeightKg = &w
		case models.ReadinessYellow:
			w := math.Round(*ex.WeightKg * 0.95)
			ex.WeightKg = &w
		}
	}

	if warmups := warmupSets(out.Exercises); len(warmups) > 0 {
		out.Exercises = append(warmups, out.Exercises...)
	}
	return out
}

// warmupSets builds 2-3 ramp-up entries from the first exercise's working
// weight: 50/70/85% for heavy lifts, 50/75% for moderate ones. Weights are
// rounded to the nearest 2.5 kg plate increment.
func warmupSets(exercises []models.Exercise) []models.Exercise {
	if len(exercises) == 0 {
		return nil
	}
	first := exercises[0]
	if first.WeightKg == nil || *first.WeightKg <= warmupThresholdKg {
		return nil
	}
	working := *first.WeightKg

	type ramp struct {
		percent float64
		reps    int
	}
	ramps := []ramp{{0.50, 8}, {0.75, 5}}
	if working > 60 {
		ramps = []ramp{{0.50, 8}, {0.70, 5}, {0.85, 3}}
	}

	warmups := make([]models.Exercise, 0, len(ramps))
	for _, r := range ramps {
		w := roundToPlate(working * r.percent)
		warmups = append(warmups, models.Exercise{
			Name:     first.Name,
			Type:     first.Type,
			Sets:     1,
			Reps:     fmt.Sprintf("%d", r.reps),
			WeightKg: &w,
			RestSec:  60,
			IsWarmup: true,
		})
	}
	return warmups
}

// roundToPlate rounds to the nearest 2.5 kg.
func roundToPlate(kg float64) float64 {
	return math.Round(kg/2.5) * 2.5
}
