// Package builder implements the workout builder state machine: an ordered,
// mutable exercise list with per-set edits, plus the grouping engine that
// derives superset/circuit groups from it. All operations run to completion
// synchronously; the caller owns the workout and serializes access.
package builder

import (
	"strconv"
	"strings"

	"github.com/claude/gymbo/internal/models"
	"github.com/google/uuid"
)

const (
	DefaultReps     = 10
	DefaultSetCount = 3

	MinRestTime      = 30
	MaxRestTime      = 300
	FallbackRestTime = 90
)

// NewWorkout returns an empty workout ready for the builder.
func NewWorkout() *models.Workout {
	return &models.Workout{
		WorkoutType:     models.WorkoutStandard,
		DefaultRestTime: FallbackRestTime,
	}
}

// NewDefaultSet creates a set with the builder defaults: 10 reps, no weight,
// the given rest, not completed.
func NewDefaultSet(restTime int) models.Set {
	return models.Set{
		ID:       uuid.New(),
		Reps:     DefaultReps,
		RestTime: restTime,
	}
}

// AddExercise appends a new workout exercise with a fresh identity, a
// defensive copy of the chosen exercise, empty notes, and three default sets
// at the workout's current default rest. Always succeeds.
func AddExercise(w *models.Workout, e models.Exercise) uuid.UUID {
	sets := make([]models.Set, 0, DefaultSetCount)
	for range DefaultSetCount {
		sets = append(sets, NewDefaultSet(w.DefaultRestTime))
	}
	we := models.WorkoutExercise{
		ID:       uuid.New(),
		Exercise: e.Clone(),
		Sets:     sets,
	}
	w.Exercises = append(w.Exercises, we)
	return we.ID
}

// RemoveExercise removes by identity. Returns false (no-op) if not found.
func RemoveExercise(w *models.Workout, id uuid.UUID) bool {
	idx := exerciseIndex(w, id)
	if idx < 0 {
		return false
	}
	w.Exercises = append(w.Exercises[:idx], w.Exercises[idx+1:]...)
	return true
}

// MoveExercise moves the exercise by delta positions (-1 = up, +1 = down).
// Returns false (no-op) if the exercise is missing or the move would go out
// of bounds.
func MoveExercise(w *models.Workout, id uuid.UUID, delta int) bool {
	idx := exerciseIndex(w, id)
	if idx < 0 {
		return false
	}
	next := idx + delta
	if next < 0 || next >= len(w.Exercises) {
		return false
	}
	moved := w.Exercises[idx]
	w.Exercises = append(w.Exercises[:idx], w.Exercises[idx+1:]...)
	rest := append([]models.WorkoutExercise{moved}, w.Exercises[next:]...)
	w.Exercises = append(w.Exercises[:next], rest...)
	return true
}

// MoveExerciseBefore implements drag-to-position: the dragged exercise is
// removed and re-inserted at the drop target's pre-removal index. Returns
// false (no-op) if either identity is missing or they are identical.
func MoveExerciseBefore(w *models.Workout, fromID, toID uuid.UUID) bool {
	from := exerciseIndex(w, fromID)
	to := exerciseIndex(w, toID)
	if from < 0 || to < 0 || from == to {
		return false
	}
	moved := w.Exercises[from]
	w.Exercises = append(w.Exercises[:from], w.Exercises[from+1:]...)
	rest := append([]models.WorkoutExercise{moved}, w.Exercises[to:]...)
	w.Exercises = append(w.Exercises[:to], rest...)
	return true
}

// AddSet appends a default set to the named exercise. Returns false (no-op)
// if the exercise is not found.
func AddSet(w *models.Workout, exerciseID uuid.UUID) bool {
	idx := exerciseIndex(w, exerciseID)
	if idx < 0 {
		return false
	}
	w.Exercises[idx].Sets = append(w.Exercises[idx].Sets, NewDefaultSet(w.DefaultRestTime))
	return true
}

// RemoveSet removes a set by identity. Removing the last remaining set is
// rejected: every exercise keeps at least one set.
func RemoveSet(w *models.Workout, exerciseID, setID uuid.UUID) bool {
	idx := exerciseIndex(w, exerciseID)
	if idx < 0 {
		return false
	}
	sets := w.Exercises[idx].Sets
	if len(sets) <= 1 {
		return false
	}
	for i, s := range sets {
		if s.ID == setID {
			w.Exercises[idx].Sets = append(sets[:i], sets[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateSetReps sets the rep count of one set. Last write wins.
func UpdateSetReps(w *models.Workout, exerciseID, setID uuid.UUID, reps int) bool {
	return updateSet(w, exerciseID, setID, func(s *models.Set) { s.Reps = reps })
}

// UpdateSetWeight sets the weight of one set. Fractional increments allowed.
func UpdateSetWeight(w *models.Workout, exerciseID, setID uuid.UUID, weight float64) bool {
	return updateSet(w, exerciseID, setID, func(s *models.Set) { s.Weight = weight })
}

// UpdateSetRest sets the rest duration of one set.
func UpdateSetRest(w *models.Workout, exerciseID, setID uuid.UUID, rest int) bool {
	return updateSet(w, exerciseID, setID, func(s *models.Set) { s.RestTime = rest })
}

// UpdateNotes replaces the free-text notes on a workout exercise.
func UpdateNotes(w *models.Workout, exerciseID uuid.UUID, notes string) bool {
	idx := exerciseIndex(w, exerciseID)
	if idx < 0 {
		return false
	}
	w.Exercises[idx].Notes = notes
	return true
}

// SetDefaultRest applies a default-rest change from raw user input:
// non-numeric falls back to 90, out-of-range values clamp to [30, 300].
func SetDefaultRest(w *models.Workout, raw string) int {
	w.DefaultRestTime = ClampRest(CoerceNumber(raw, FallbackRestTime))
	return w.DefaultRestTime
}

// ClampRest clamps a rest duration to the allowed [30, 300] range.
func ClampRest(v int) int {
	if v < MinRestTime {
		return MinRestTime
	}
	if v > MaxRestTime {
		return MaxRestTime
	}
	return v
}

// CoerceNumber parses raw numeric input the way the builder treats form
// fields: anything unparsable becomes the fallback value.
func CoerceNumber(raw string, fallback int) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fallback
	}
	return int(f)
}

func updateSet(w *models.Workout, exerciseID, setID uuid.UUID, fn func(*models.Set)) bool {
	idx := exerciseIndex(w, exerciseID)
	if idx < 0 {
		return false
	}
	for i := range w.Exercises[idx].Sets {
		if w.Exercises[idx].Sets[i].ID == setID {
			fn(&w.Exercises[idx].Sets[i])
			return true
		}
	}
	return false
}

func exerciseIndex(w *models.Workout, id uuid.UUID) int {
	for i, we := range w.Exercises {
		if we.ID == id {
			return i
		}
	}
	return -1
}
