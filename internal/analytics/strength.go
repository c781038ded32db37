package analytics

import (
	"sort"
	"strings"

	"github.com/meltforce/repcoach/internal/models"
)

// trendWindow is how many recent sessions feed the trend slope.
const trendWindow = 5

// trendEpsilon is the relative change below which a trend counts as stable.
const trendEpsilon = 0.02

// band is one strength-level threshold: relative strength (e1RM divided by
// body weight) at which the level is reached.
type band struct {
	level models.StrengthLevel
	ratio float64
}

// Population bands per canonical lift, keyed by gender. Exercises that
// match none of the canonical lifts use the "default" row.
var strengthBands = map[models.Gender]map[string][]band{
	models.GenderMale: {
		"squat":    {{models.LevelNovice, 0.75}, {models.LevelIntermediate, 1.25}, {models.LevelAdvanced, 1.75}, {models.LevelElite, 2.25}},
		"bench":    {{models.LevelNovice, 0.50}, {models.LevelIntermediate, 1.00}, {models.LevelAdvanced, 1.50}, {models.LevelElite, 2.00}},
		"deadlift": {{models.LevelNovice, 1.00}, {models.LevelIntermediate, 1.50}, {models.LevelAdvanced, 2.25}, {models.LevelElite, 2.75}},
		"press":    {{models.LevelNovice, 0.35}, {models.LevelIntermediate, 0.65}, {models.LevelAdvanced, 0.95}, {models.LevelElite, 1.25}},
		"default":  {{models.LevelNovice, 0.40}, {models.LevelIntermediate, 0.75}, {models.LevelAdvanced, 1.10}, {models.LevelElite, 1.50}},
	},
	models.GenderFemale: {
		"squat":    {{models.LevelNovice, 0.50}, {models.LevelIntermediate, 1.00}, {models.LevelAdvanced, 1.50}, {models.LevelElite, 2.00}},
		"bench":    {{models.LevelNovice, 0.35}, {models.LevelIntermediate, 0.70}, {models.LevelAdvanced, 1.00}, {models.LevelElite, 1.40}},
		"deadlift": {{models.LevelNovice, 0.75}, {models.LevelIntermediate, 1.25}, {models.LevelAdvanced, 1.75}, {models.LevelElite, 2.50}},
		"press":    {{models.LevelNovice, 0.25}, {models.LevelIntermediate, 0.45}, {models.LevelAdvanced, 0.70}, {models.LevelElite, 1.00}},
		"default":  {{models.LevelNovice, 0.30}, {models.LevelIntermediate, 0.55}, {models.LevelAdvanced, 0.85}, {models.LevelElite, 1.20}},
	},
}

// ClassifyStrength buckets an e1RM into a population strength level.
func ClassifyStrength(gender models.Gender, exercise string, e1rm, bodyWeightKg float64) models.StrengthLevel {
	if e1rm <= 0 || bodyWeightKg <= 0 {
		return models.LevelBeginner
	}
	byLift, ok := strengthBands[gender]
	if !ok {
		byLift = strengthBands[models.GenderMale]
	}
	bands, ok := byLift[canonicalLift(exercise)]
	if !ok {
		bands = byLift["default"]
	}

	ratio := e1rm / bodyWeightKg
	level := models.LevelBeginner
	for _, b := range bands {
		if ratio >= b.ratio {
			level = b.level
		}
	}
	return level
}

func canonicalLift(exercise string) string {
	name := strings.ToLower(exercise)
	for _, lift := range []string{"deadlift", "squat", "bench", "press"} {
		if strings.Contains(name, lift) {
			return lift
		}
	}
	return "default"
}

// TrendOf classifies the slope of the last trendWindow points: the latest
// e1RM against the window's start, with a small epsilon for noise.
func TrendOf(points []E1RMPoint) models.Trend {
	if len(points) < 2 {
		return models.TrendStable
	}
	window := points
	if len(window) > trendWindow {
		window = window[len(window)-trendWindow:]
	}
	first, last := window[0].E1RM, window[len(window)-1].E1RM
	if first <= 0 {
		return models.TrendStable
	}
	switch change := (last - first) / first; {
	case change > trendEpsilon:
		return models.TrendImproving
	case change < -trendEpsilon:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

// StrengthInsights assembles the full analytics dashboard from the history.
func StrengthInsights(c *models.Classifier, profile models.Profile, history []models.WorkoutLog) models.StrengthInsightsData {
	series := E1RMSeries(history)

	data := models.StrengthInsightsData{
		Imbalances:   DetectImbalances(c, history),
		Plateaus:     DetectPlateaus(history),
		PainPatterns: PainPatterns(history),
	}

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		points := series[name]
		best := BestE1RM(points)
		insight := models.ExerciseInsight{
			Exercise: name,
			E1RM:     best,
			Level:    ClassifyStrength(profile.Gender, name, best, profile.BodyWeightKg),
			Trend:    TrendOf(points),
			Sessions: len(points),
		}
		if profile.BodyWeightKg > 0 {
			insight.RelativeStrength = round2(best / profile.BodyWeightKg)
		}
		data.Exercises = append(data.Exercises, insight)
	}
	return data
}
