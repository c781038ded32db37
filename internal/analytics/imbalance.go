package analytics

import (
	"fmt"

	"github.com/meltforce/repcoach/internal/models"
)

// MinLogsForImbalance is the history size below which no imbalance report
// is produced: too little data yields false signals, so the result is
// simply empty.
const MinLogsForImbalance = 5

// Ratio bands for complementary pattern pairs. Up to maxBalancedRatio the
// pair counts as balanced; beyond that severity scales with the ratio.
const (
	maxBalancedRatio = 1.5
	moderateRatio    = 2.0
	severeRatio      = 2.5
)

// patternPair is a complementary movement pairing checked for imbalance.
type patternPair struct {
	a, b models.MovementPattern
}

var checkedPairs = []patternPair{
	{models.PatternPush, models.PatternPull},
	{models.PatternSquat, models.PatternHinge},
}

// DetectImbalances compares total working volume between complementary
// movement patterns. A ratio outside the acceptable band produces a report
// whose severity scales with how far out it falls.
func DetectImbalances(c *models.Classifier, history []models.WorkoutLog) []models.ImbalanceReport {
	if len(history) < MinLogsForImbalance {
		return nil
	}

	volumes, exercises := patternVolumes(c, history)

	var reports []models.ImbalanceReport
	for _, pair := range checkedPairs {
		volA, volB := volumes[pair.a], volumes[pair.b]
		if volA == 0 && volB == 0 {
			continue
		}

		dominant, weak := pair.a, pair.b
		high, low := volA, volB
		if volB > volA {
			dominant, weak = pair.b, pair.a
			high, low = volB, volA
		}

		var ratio float64
		if low == 0 {
			ratio = severeRatio + 1 // one side entirely untrained
		} else {
			ratio = high / low
		}
		if ratio <= maxBalancedRatio {
			continue
		}

		report := models.ImbalanceReport{
			Category: fmt.Sprintf("%s/%s", pair.a, pair.b),
			Severity: severityFor(ratio),
			Ratio:    round2(ratio),
			Description: fmt.Sprintf("%s volume is %.1fx %s volume over your last %d workouts",
				dominant, ratio, weak, len(history)),
			Recommendation: fmt.Sprintf("Add %s work or scale back %s volume until the ratio drops below %.1f",
				weak, dominant, maxBalancedRatio),
		}
		report.Exercises = append(report.Exercises, exercises[pair.a]...)
		report.Exercises = append(report.Exercises, exercises[pair.b]...)
		reports = append(reports, report)
	}
	return reports
}

func severityFor(ratio float64) models.Severity {
	switch {
	case ratio > severeRatio:
		return models.SeveritySevere
	case ratio > moderateRatio:
		return models.SeverityModerate
	default:
		return models.SeverityMild
	}
}
