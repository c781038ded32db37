// Package workout tracks one in-progress training session: per-set
// completion, staleness after interruption, and conversion of the finished
// session into an immutable log entry.
package workout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/repcoach/internal/models"
)

// StaleThreshold is the wall-clock inactivity gap after which a resumed
// workout is presented as stale instead of silently continuing. Staleness
// is evaluated lazily on access, never by a background timer.
const StaleThreshold = time.Hour

// Status is the tracker's lifecycle state.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusStale      Status = "stale"
	StatusCompleted  Status = "completed"
	StatusAbandoned  Status = "abandoned"
)

// Field names a mutable per-set value.
type Field string

const (
	FieldReps   Field = "reps"
	FieldWeight Field = "weight"
	FieldRIR    Field = "rir"
)

// ErrNoLongerValid is returned by Resume when the persisted session no
// longer exists in the current program; the stored state is discarded.
var ErrNoLongerValid = errors.New("active workout session no longer in program")

// ErrNotInProgress is returned by mutating operations outside InProgress.
var ErrNotInProgress = errors.New("no workout in progress")

// IncompleteWorkoutError reports the first exercise blocking Finish, so the
// caller can direct the user there.
type IncompleteWorkoutError struct {
	ExerciseIndex int
	ExerciseName  string
}

func (e *IncompleteWorkoutError) Error() string {
	return fmt.Sprintf("exercise %d (%s) has incomplete sets", e.ExerciseIndex, e.ExerciseName)
}

// StateStore persists the active workout snapshot between process restarts.
type StateStore interface {
	SaveActiveState(ctx context.Context, st models.ActiveWorkoutState) error
	LoadActiveState(ctx context.Context) (*models.ActiveWorkoutState, error)
	ClearActiveState(ctx context.Context) error
}

// Tracker owns the ActiveWorkoutState exclusively. The full state is
// persisted after every mutation, so a crash loses at most the in-memory
// delta since the last interaction.
type Tracker struct {
	store      StateStore
	classifier *models.Classifier
	now        func() time.Time

	state  *models.ActiveWorkoutState
	status Status
}

// NewTracker creates an idle tracker.
func NewTracker(store StateStore, classifier *models.Classifier) *Tracker {
	return &Tracker{
		store:      store,
		classifier: classifier,
		now:        time.Now,
		status:     StatusNotStarted,
	}
}

// Status returns the current lifecycle state.
func (t *Tracker) Status() Status {
	return t.status
}

// State returns the in-memory active state, or nil when idle.
func (t *Tracker) State() *models.ActiveWorkoutState {
	return t.state
}

// Start begins tracking the given (already readiness-adjusted) session.
// Completed sets are seeded from the prescription: weight prefilled, reps
// and RIR left unset until entered.
func (t *Tracker) Start(ctx context.Context, session models.Session, readiness models.ReadinessData) error {
	if t.status == StatusInProgress || t.status == StatusStale {
		return fmt.Errorf("workout %q already in progress", t.state.SessionName)
	}

	now := t.now()
	st := &models.ActiveWorkoutState{
		SessionName:    session.Name,
		StartedAt:      now,
		LastActivityAt: now,
		Readiness:      readiness,
	}
	for _, ex := range session.Exercises {
		ce := models.CompletedExercise{Exercise: ex}
		for i := 0; i < ex.Sets; i++ {
			set := models.CompletedSet{}
			if ex.WeightKg != nil {
				w := *ex.WeightKg
				set.WeightKg = &w
			}
			ce.CompletedSets = append(ce.CompletedSets, set)
		}
		st.Exercises = append(st.Exercises, ce)
	}

	t.state = st
	t.status = StatusInProgress
	return t.persist(ctx)
}

// UpdateSet writes one field of one set, then carries the value forward into
// the next set of the same exercise that has no value yet, cutting down
// repetitive entry.
func (t *Tracker) UpdateSet(ctx context.Context, exIdx, setIdx int, field Field, value float64) error {
	if t.status != StatusInProgress {
		return ErrNotInProgress
	}
	sets, err := t.setsAt(exIdx, setIdx)
	if err != nil {
		return err
	}

	applyField(&sets[setIdx], field, value)
	for i := setIdx + 1; i < len(sets); i++ {
		if fieldEmpty(sets[i], field) {
			applyField(&sets[i], field, value)
			break
		}
	}

	return t.touch(ctx)
}

// ToggleSetComplete flips one set's completion flag. Completion tracking is
// independent of whether the set's values have been entered.
func (t *Tracker) ToggleSetComplete(ctx context.Context, exIdx, setIdx int) error {
	if t.status != StatusInProgress {
		return ErrNotInProgress
	}
	sets, err := t.setsAt(exIdx, setIdx)
	if err != nil {
		return err
	}
	sets[setIdx].IsCompleted = !sets[setIdx].IsCompleted
	return t.touch(ctx)
}

// CanFinish reports whether every working set has valid reps, and valid
// weight where the movement type demands a load.
func (t *Tracker) CanFinish() bool {
	return t.firstIncomplete() == -1
}

// firstIncomplete returns the index of the first working exercise with an
// invalid set, or -1 when the workout can be finished.
func (t *Tracker) firstIncomplete() int {
	if t.state == nil {
		return 0
	}
	for i, ex := range t.state.Exercises {
		if ex.IsWarmup {
			continue
		}
		needsLoad := t.classifier.ResolveType(ex.Exercise).RequiresLoad()
		for _, set := range ex.CompletedSets {
			if set.Reps == nil || *set.Reps <= 0 {
				return i
			}
			if needsLoad && (set.WeightKg == nil || *set.WeightKg <= 0) {
				return i
			}
		}
	}
	return -1
}

// Finish validates the session, converts it into a WorkoutLog (warm-ups
// stripped), clears the persisted state and returns the log for appending
// to history.
func (t *Tracker) Finish(ctx context.Context, feedback models.Feedback) (*models.WorkoutLog, error) {
	if t.status != StatusInProgress {
		return nil, ErrNotInProgress
	}
	if idx := t.firstIncomplete(); idx != -1 {
		return nil, &IncompleteWorkoutError{ExerciseIndex: idx, ExerciseName: t.state.Exercises[idx].Name}
	}

	// The log is dated from the start so a session crossing midnight stays
	// on the day it was scheduled for.
	now := t.now()
	log := &models.WorkoutLog{
		ID:          uuid.New(),
		SessionName: t.state.SessionName,
		Date:        models.NewDate(t.state.StartedAt),
		StartedAt:   t.state.StartedAt,
		DurationSec: int(now.Sub(t.state.StartedAt).Seconds()),
		Readiness:   t.state.Readiness,
		Feedback:    feedback,
	}
	for _, ex := range t.state.Exercises {
		if ex.IsWarmup {
			continue
		}
		log.Exercises = append(log.Exercises, ex)
	}

	if err := t.store.ClearActiveState(ctx); err != nil {
		return nil, fmt.Errorf("clearing active state: %w", err)
	}
	t.state = nil
	t.status = StatusCompleted
	return log, nil
}

// Resume adopts a persisted snapshot. The snapshot is discarded when its
// session is gone from the program; a long inactivity gap surfaces as Stale
// rather than silently continuing.
func (t *Tracker) Resume(ctx context.Context, persisted models.ActiveWorkoutState, program models.Program) (Status, error) {
	if _, ok := program.Session(persisted.SessionName); !ok {
		if err := t.store.ClearActiveState(ctx); err != nil {
			return t.status, fmt.Errorf("discarding invalid state: %w", err)
		}
		return t.status, fmt.Errorf("resuming %q: %w", persisted.SessionName, ErrNoLongerValid)
	}

	t.state = &persisted
	if t.now().Sub(persisted.LastActivityAt) > StaleThreshold {
		t.status = StatusStale
		return StatusStale, nil
	}
	t.status = StatusInProgress
	return StatusInProgress, t.touch(ctx)
}

// Reactivate re-enters InProgress from Stale, refreshing the activity time.
func (t *Tracker) Reactivate(ctx context.Context) error {
	if t.status != StatusStale {
		return fmt.Errorf("reactivate from %s: workout is not stale", t.status)
	}
	t.status = StatusInProgress
	return t.touch(ctx)
}

// Discard clears the persisted state without producing a log. Used for
// explicit cancels and for abandoning a stale session.
func (t *Tracker) Discard(ctx context.Context) error {
	if err := t.store.ClearActiveState(ctx); err != nil {
		return fmt.Errorf("clearing active state: %w", err)
	}
	t.state = nil
	t.status = StatusAbandoned
	return nil
}

func (t *Tracker) setsAt(exIdx, setIdx int) ([]models.CompletedSet, error) {
	if exIdx < 0 || exIdx >= len(t.state.Exercises) {
		return nil, fmt.Errorf("exercise index %d out of range", exIdx)
	}
	sets := t.state.Exercises[exIdx].CompletedSets
	if setIdx < 0 || setIdx >= len(sets) {
		return nil, fmt.Errorf("set index %d out of range for exercise %d", setIdx, exIdx)
	}
	return sets, nil
}

func (t *Tracker) touch(ctx context.Context) error {
	t.state.LastActivityAt = t.now()
	return t.persist(ctx)
}

func (t *Tracker) persist(ctx context.Context) error {
	if err := t.store.SaveActiveState(ctx, *t.state); err != nil {
		return fmt.Errorf("persisting active state: %w", err)
	}
	return nil
}

func applyField(set *models.CompletedSet, field Field, value float64) {
	switch field {
	case FieldReps:
		v := int(value)
		set.Reps = &v
	case FieldWeight:
		set.WeightKg = &value
	case FieldRIR:
		v := int(value)
		set.RIR = &v
	}
}

func fieldEmpty(set models.CompletedSet, field Field) bool {
	switch field {
	case FieldReps:
		return set.Reps == nil
	case FieldWeight:
		return set.WeightKg == nil
	case FieldRIR:
		return set.RIR == nil
	}
	return false
}
