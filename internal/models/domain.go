package models

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date format used throughout: no time of day,
// no timezone ambiguity.
const DateLayout = "2006-01-02"

// Date is a calendar date in DateLayout form.
type Date string

// NewDate returns the calendar date of t in t's location.
func NewDate(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Time parses the date at midnight local time.
func (d Date) Time() (time.Time, error) {
	return time.ParseInLocation(DateLayout, string(d), time.Local)
}

// Weekday returns the weekday of the date. Invalid dates report Sunday.
func (d Date) Weekday() time.Weekday {
	t, err := d.Time()
	if err != nil {
		return time.Sunday
	}
	return t.Weekday()
}

// Gender is used to select strength-standard bands.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ExperienceTier is the user's self-reported training background.
type ExperienceTier string

const (
	ExperienceBeginner     ExperienceTier = "beginner"
	ExperienceIntermediate ExperienceTier = "intermediate"
	ExperienceAdvanced     ExperienceTier = "advanced"
)

// Profile holds user attributes. Mutable, updated only by explicit edits.
type Profile struct {
	Gender          Gender         `json:"gender"`
	Age             int            `json:"age"`
	BodyWeightKg    float64        `json:"body_weight_kg"`
	HeightCm        float64        `json:"height_cm"`
	Experience      ExperienceTier `json:"experience"`
	Goal            string         `json:"goal"`
	PreferredDays   []time.Weekday `json:"preferred_days"`
	SessionsPerWeek int            `json:"sessions_per_week"`
	SessionMinutes  int            `json:"session_minutes"`
	Location        string         `json:"location,omitempty"`
	Injuries        []string       `json:"injuries,omitempty"`
}

// PrefersDay reports whether the weekday is one of the user's training days.
// An empty preference list means every day is eligible.
func (p Profile) PrefersDay(d time.Weekday) bool {
	if len(p.PreferredDays) == 0 {
		return true
	}
	for _, pd := range p.PreferredDays {
		if pd == d {
			return true
		}
	}
	return false
}

// Exercise is immutable template data: what is prescribed, not what happened.
type Exercise struct {
	Name      string       `json:"name"`
	Type      MovementType `json:"type,omitempty"`
	Sets      int          `json:"sets"`
	Reps      string       `json:"reps"` // rep range ("8-12") or seconds for timed work
	WeightKg  *float64     `json:"weight_kg,omitempty"`
	RestSec   int          `json:"rest_sec"`
	Technique string       `json:"technique,omitempty"`
	IsWarmup  bool         `json:"is_warmup,omitempty"`
}

// Session is a named, ordered list of exercises. Adapted marks a session
// that has already been through readiness adjustment; adjustments apply to
// the prescribed session only and must never stack.
type Session struct {
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
	Adapted   bool       `json:"adapted,omitempty"`
}

// Program is an ordered list of sessions repeated in rotation. The rotation
// position is derived from the completed-log count, never stored.
type Program struct {
	Name     string    `json:"name"`
	Sessions []Session `json:"sessions"`
}

// Session returns the named session, if present.
func (p Program) Session(name string) (Session, bool) {
	for _, s := range p.Sessions {
		if s.Name == name {
			return s, true
		}
	}
	return Session{}, false
}

// ReadinessStatus is the composite traffic-light readiness signal.
type ReadinessStatus string

const (
	ReadinessGreen  ReadinessStatus = "green"
	ReadinessYellow ReadinessStatus = "yellow"
	ReadinessRed    ReadinessStatus = "red"
)

// ReadinessData holds the five-point self-report scores (5 = best) and the
// derived composite status. Immutable once attached to a log.
type ReadinessData struct {
	Sleep     int             `json:"sleep"`
	Nutrition int             `json:"nutrition"`
	Stress    int             `json:"stress"`
	Soreness  int             `json:"soreness"`
	Status    ReadinessStatus `json:"status"`
}

// NewReadiness derives the composite status from the four scores.
func NewReadiness(sleep, nutrition, stress, soreness int) ReadinessData {
	r := ReadinessData{Sleep: sleep, Nutrition: nutrition, Stress: stress, Soreness: soreness}
	avg := float64(sleep+nutrition+stress+soreness) / 4
	switch {
	case avg >= 4:
		r.Status = ReadinessGreen
	case avg >= 2.5:
		r.Status = ReadinessYellow
	default:
		r.Status = ReadinessRed
	}
	return r
}

// CompletedSet is one performed set. Pointer fields distinguish "not yet
// entered" from "entered as zero".
type CompletedSet struct {
	Reps        *int     `json:"reps,omitempty"`
	WeightKg    *float64 `json:"weight_kg,omitempty"`
	RIR         *int     `json:"rir,omitempty"` // reps in reserve, 0-3+
	IsCompleted bool     `json:"is_completed"`
}

// CompletedExercise pairs the exercise template with its performed sets.
type CompletedExercise struct {
	Exercise
	CompletedSets []CompletedSet `json:"completed_sets"`
}

// CompletionLevel is the user's own rating of how much of the plan was done.
type CompletionLevel string

const (
	CompletionFull    CompletionLevel = "full"
	CompletionPartial CompletionLevel = "partial"
	CompletionMinimal CompletionLevel = "minimal"
)

// Feedback is collected when a workout is finished.
type Feedback struct {
	Completion   CompletionLevel `json:"completion"`
	PainLocation string          `json:"pain_location,omitempty"`
	PumpRating   *int            `json:"pump_rating,omitempty"` // 1-5
}

// WorkoutLog is one finished workout. Logs accumulate append-only and are
// never edited or deleted by the engine. Warm-up entries are stripped before
// the log is created.
type WorkoutLog struct {
	ID          uuid.UUID           `json:"id"`
	SessionName string              `json:"session_name"`
	Date        Date                `json:"date"`
	StartedAt   time.Time           `json:"started_at"`
	DurationSec int                 `json:"duration_sec"`
	Readiness   ReadinessData       `json:"readiness"`
	Feedback    Feedback            `json:"feedback"`
	Exercises   []CompletedExercise `json:"exercises"`
}

// ActiveWorkoutState is the persisted snapshot of an in-progress workout.
// It exists only between start and finish/discard.
type ActiveWorkoutState struct {
	SessionName    string              `json:"session_name"`
	Exercises      []CompletedExercise `json:"exercises"`
	StartedAt      time.Time           `json:"started_at"`
	LastActivityAt time.Time           `json:"last_activity_at"`
	Readiness      ReadinessData       `json:"readiness"`
}

// ScheduleOverrides maps a date to a session index, or nil for an explicit
// rest day. Sparse and user-authored; takes precedence over the rotation.
type ScheduleOverrides map[Date]*int
