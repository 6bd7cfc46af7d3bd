package models

import "github.com/google/uuid"

// WorkoutType controls how the grouping engine partitions exercises.
type WorkoutType string

const (
	WorkoutStandard WorkoutType = "standard"
	WorkoutSuperset WorkoutType = "superset"
	WorkoutCircuit  WorkoutType = "circuit"
)

// Valid reports whether t is one of the known workout types.
func (t WorkoutType) Valid() bool {
	switch t {
	case WorkoutStandard, WorkoutSuperset, WorkoutCircuit:
		return true
	}
	return false
}

// Set is one set within a workout exercise. Completed is always false in the
// builder — session tracking belongs to the mobile app, not this service.
type Set struct {
	ID        uuid.UUID `json:"id"`
	Reps      int       `json:"reps"`
	Weight    float64   `json:"weight"`
	RestTime  int       `json:"restTime"`
	Completed bool      `json:"completed"`
}

// WorkoutExercise is one placement of an exercise into a workout. Its ID is
// stable across reorders; drag-and-drop and grouping key off of it. The
// Exercise is a defensive copy taken when the exercise was added.
type WorkoutExercise struct {
	ID       uuid.UUID `json:"id"`
	Exercise Exercise  `json:"exercise"`
	Notes    string    `json:"notes"`
	Sets     []Set     `json:"sets"`
}

// Workout is the builder state: an ordered, mutable exercise list plus the
// fields that drive grouping and export.
type Workout struct {
	Name            string            `json:"name"`
	WorkoutType     WorkoutType       `json:"workoutType"`
	DefaultRestTime int               `json:"defaultRestTime"`
	Exercises       []WorkoutExercise `json:"exercises"`
}

// Group is a derived superset/circuit group. Groups are recomputed from
// scratch on every render and export, never stored or mutated in place.
type Group struct {
	ID             uuid.UUID   `json:"id"`
	GroupIndex     int         `json:"groupIndex"`
	RestAfterGroup int         `json:"restAfterGroup"`
	ExerciseIDs    []uuid.UUID `json:"exerciseIds"`
}
