// Package analytics derives longitudinal insight from the workout history.
// Every function is pure over the chronologically ordered log slice: no
// hidden accumulators, so re-running after a history import reproduces
// identical results.
package analytics

import (
	"math"
	"sort"

	"github.com/meltforce/repcoach/internal/models"
)

// EpleyE1RM estimates a one-rep max from a submaximal set:
// weight x (1 + reps/30). A single rep is its own max.
func EpleyE1RM(weightKg float64, reps int) float64 {
	if weightKg <= 0 || reps <= 0 {
		return 0
	}
	if reps == 1 {
		return weightKg
	}
	return round2(weightKg * (1 + float64(reps)/30))
}

// BrzyckiE1RM is the alternative estimate weight x 36/(37-reps), more
// accurate below 10 reps. Reps beyond 36 are capped at the lifted weight.
func BrzyckiE1RM(weightKg float64, reps int) float64 {
	if weightKg <= 0 || reps <= 0 {
		return 0
	}
	if reps == 1 {
		return weightKg
	}
	if reps >= 37 {
		return weightKg
	}
	return round2(weightKg * (36.0 / float64(37-reps)))
}

// E1RMPoint is one session's best estimated max for an exercise.
type E1RMPoint struct {
	Date models.Date `json:"date"`
	E1RM float64     `json:"e1rm"`
}

// E1RMSeries computes, per exercise name, the session-by-session best Epley
// e1RM across the history. Warm-up entries and sets without valid weight
// and reps are skipped.
func E1RMSeries(history []models.WorkoutLog) map[string][]E1RMPoint {
	series := make(map[string][]E1RMPoint)
	for _, log := range history {
		best := make(map[string]float64)
		for _, ex := range log.Exercises {
			if ex.IsWarmup {
				continue
			}
			for _, set := range ex.CompletedSets {
				if set.WeightKg == nil || set.Reps == nil {
					continue
				}
				if e := EpleyE1RM(*set.WeightKg, *set.Reps); e > best[ex.Name] {
					best[ex.Name] = e
				}
			}
		}
		for name, e := range best {
			series[name] = append(series[name], E1RMPoint{Date: log.Date, E1RM: e})
		}
	}
	for name := range series {
		pts := series[name]
		sort.Slice(pts, func(i, j int) bool { return pts[i].Date < pts[j].Date })
	}
	return series
}

// BestE1RM returns the highest point of a series.
func BestE1RM(points []E1RMPoint) float64 {
	var best float64
	for _, p := range points {
		if p.E1RM > best {
			best = p.E1RM
		}
	}
	return best
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
