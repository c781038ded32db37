package models

// Severity grades how far outside the acceptable band a ratio falls.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// ImbalanceReport describes disproportionate volume between two
// complementary movement patterns.
type ImbalanceReport struct {
	Category       string   `json:"category"` // e.g. "push/pull"
	Severity       Severity `json:"severity"`
	Ratio          float64  `json:"ratio"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation"`
	Exercises      []string `json:"exercises,omitempty"`
}

// StrengthLevel buckets relative strength against population bands.
type StrengthLevel string

const (
	LevelBeginner     StrengthLevel = "beginner"
	LevelNovice       StrengthLevel = "novice"
	LevelIntermediate StrengthLevel = "intermediate"
	LevelAdvanced     StrengthLevel = "advanced"
	LevelElite        StrengthLevel = "elite"
)

// Trend classifies recent e1RM slope.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// ExerciseInsight summarizes one exercise's strength standing.
type ExerciseInsight struct {
	Exercise         string        `json:"exercise"`
	E1RM             float64       `json:"e1rm"`
	RelativeStrength float64       `json:"relative_strength"` // e1RM / body weight
	Level            StrengthLevel `json:"level"`
	Trend            Trend         `json:"trend"`
	Sessions         int           `json:"sessions"`
}

// PlateauReport flags an exercise whose best e1RM has stopped moving.
type PlateauReport struct {
	Exercise   string  `json:"exercise"`
	BestE1RM   float64 `json:"best_e1rm"`
	WeeksStuck int     `json:"weeks_stuck"`
}

// PainPattern associates a reported pain location with the exercises
// performed in those sessions and how often it recurred.
type PainPattern struct {
	Location  string   `json:"location"`
	Count     int      `json:"count"`
	Exercises []string `json:"exercises"`
}

// StrengthInsightsData is the aggregate analytics dashboard payload.
type StrengthInsightsData struct {
	Exercises    []ExerciseInsight `json:"exercises"`
	Imbalances   []ImbalanceReport `json:"imbalances"`
	Plateaus     []PlateauReport   `json:"plateaus"`
	PainPatterns []PainPattern     `json:"pain_patterns"`
}
