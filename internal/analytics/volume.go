package analytics

import (
	"sort"

	"github.com/meltforce/repcoach/internal/models"
)

// VolumePoint is one workout's total tonnage.
type VolumePoint struct {
	Date     models.Date `json:"date"`
	VolumeKg float64     `json:"volume_kg"`
}

// LogVolume sums weight x reps over the working sets of one log. Sets
// without an external load contribute nothing, which leaves unweighted
// bodyweight, cardio and isometric work at zero by construction.
func LogVolume(log models.WorkoutLog) float64 {
	var total float64
	for _, ex := range log.Exercises {
		if ex.IsWarmup {
			continue
		}
		for _, set := range ex.CompletedSets {
			if set.WeightKg == nil || set.Reps == nil {
				continue
			}
			total += *set.WeightKg * float64(*set.Reps)
		}
	}
	return total
}

// VolumeSeries returns per-log tonnage in history order.
func VolumeSeries(history []models.WorkoutLog) []VolumePoint {
	points := make([]VolumePoint, 0, len(history))
	for _, log := range history {
		points = append(points, VolumePoint{Date: log.Date, VolumeKg: LogVolume(log)})
	}
	return points
}

// patternVolumes aggregates working-set tonnage and the contributing
// exercise names per movement pattern across the whole history.
func patternVolumes(c *models.Classifier, history []models.WorkoutLog) (map[models.MovementPattern]float64, map[models.MovementPattern][]string) {
	volumes := make(map[models.MovementPattern]float64)
	names := make(map[models.MovementPattern]map[string]bool)

	for _, log := range history {
		for _, ex := range log.Exercises {
			if ex.IsWarmup {
				continue
			}
			pattern := c.Pattern(ex.Name)
			for _, set := range ex.CompletedSets {
				if set.WeightKg == nil || set.Reps == nil {
					continue
				}
				volumes[pattern] += *set.WeightKg * float64(*set.Reps)
			}
			if names[pattern] == nil {
				names[pattern] = make(map[string]bool)
			}
			names[pattern][ex.Name] = true
		}
	}

	exercises := make(map[models.MovementPattern][]string, len(names))
	for pattern, set := range names {
		for name := range set {
			exercises[pattern] = append(exercises[pattern], name)
		}
		sort.Strings(exercises[pattern])
	}
	return volumes, exercises
}
