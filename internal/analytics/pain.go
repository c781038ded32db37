package analytics

import (
	"sort"
	"strings"

	"github.com/meltforce/repcoach/internal/models"
)

// locationAliases folds common spellings of the same body area together.
var locationAliases = map[string]string{
	"lumbar":     "lower back",
	"low back":   "lower back",
	"lowerback":  "lower back",
	"kneecap":    "knee",
	"knees":      "knee",
	"shoulders":  "shoulder",
	"rotator":    "shoulder",
	"elbows":     "elbow",
	"wrists":     "wrist",
	"hips":       "hip",
	"hamstrings": "hamstring",
}

// PainPatterns groups logs that reported pain by normalized body location,
// counting recurrence and collecting the exercises performed in those
// sessions. The association is raw material for the coach narrative, not a
// diagnosis.
func PainPatterns(history []models.WorkoutLog) []models.PainPattern {
	counts := make(map[string]int)
	exercises := make(map[string]map[string]bool)

	for _, log := range history {
		loc := normalizeLocation(log.Feedback.PainLocation)
		if loc == "" {
			continue
		}
		counts[loc]++
		if exercises[loc] == nil {
			exercises[loc] = make(map[string]bool)
		}
		for _, ex := range log.Exercises {
			if !ex.IsWarmup {
				exercises[loc][ex.Name] = true
			}
		}
	}

	patterns := make([]models.PainPattern, 0, len(counts))
	for loc, count := range counts {
		p := models.PainPattern{Location: loc, Count: count}
		for name := range exercises[loc] {
			p.Exercises = append(p.Exercises, name)
		}
		sort.Strings(p.Exercises)
		patterns = append(patterns, p)
	}
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Count != patterns[j].Count {
			return patterns[i].Count > patterns[j].Count
		}
		return patterns[i].Location < patterns[j].Location
	})
	return patterns
}

func normalizeLocation(loc string) string {
	loc = strings.ToLower(strings.TrimSpace(loc))
	if alias, ok := locationAliases[loc]; ok {
		return alias
	}
	return loc
}
