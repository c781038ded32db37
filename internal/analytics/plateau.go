package analytics

import (
	"sort"

	"github.com/meltforce/repcoach/internal/models"
)

const (
	// plateauMinSessions: exercises with fewer logged sessions are not
	// evaluated at all.
	plateauMinSessions = 4

	// plateauEpsilon is the relative e1RM gain that still counts as "no
	// improvement" (noise from rep-count and rounding jitter).
	plateauEpsilon = 0.025

	// plateauMinWeeks of no improvement before a plateau is flagged.
	plateauMinWeeks = 4
)

// DetectPlateaus flags exercises whose best e1RM has not meaningfully
// improved for several weeks, with a weeks-stuck count per exercise.
func DetectPlateaus(history []models.WorkoutLog) []models.PlateauReport {
	series := E1RMSeries(history)

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	var reports []models.PlateauReport
	for _, name := range names {
		points := series[name]
		if len(points) < plateauMinSessions {
			continue
		}

		// Walk the series tracking the running best and the last date it
		// moved by more than epsilon.
		best := points[0].E1RM
		lastImproved, _ := points[0].Date.Time()
		for _, p := range points[1:] {
			if p.E1RM > best*(1+plateauEpsilon) {
				best = p.E1RM
				if t, err := p.Date.Time(); err == nil {
					lastImproved = t
				}
			} else if p.E1RM > best {
				best = p.E1RM
			}
		}

		latest, err := points[len(points)-1].Date.Time()
		if err != nil {
			continue
		}
		weeksStuck := int(latest.Sub(lastImproved).Hours() / (24 * 7))
		if weeksStuck >= plateauMinWeeks {
			reports = append(reports, models.PlateauReport{
				Exercise:   name,
				BestE1RM:   best,
				WeeksStuck: weeksStuck,
			})
		}
	}
	return reports
}
