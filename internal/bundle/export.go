package bundle

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/claude/gymbo/internal/builder"
	"github.com/claude/gymbo/internal/models"
	"github.com/google/uuid"
)

var (
	ErrEmptyName   = errors.New("workout name is empty")
	ErrNoExercises = errors.New("workout has no exercises")
)

// Export serializes a workout into a schema-v10 bundle document. Exercise
// definitions are deduplicated by key: the first occurrence of a key defines
// a synthetic backup exercise, later occurrences reuse its identity. The
// output is stable under re-export of unchanged input except for the
// timestamp and the freshly generated workout, exercise-definition, and
// group identities.
func Export(w models.Workout, now time.Time, appVersion string) (*Document, error) {
	name := strings.TrimSpace(w.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(w.Exercises) == 0 {
		return nil, ErrNoExercises
	}

	idByKey := make(map[string]uuid.UUID)
	var exercises []Exercise
	for _, we := range w.Exercises {
		if _, seen := idByKey[we.Exercise.Key]; seen {
			continue
		}
		id := uuid.New()
		idByKey[we.Exercise.Key] = id
		exercises = append(exercises, Exercise{
			ID:                 id,
			Name:               we.Exercise.NameDe,
			MuscleGroupsRaw:    append([]string{}, we.Exercise.MuscleGroups...),
			EquipmentTypeRaw:   we.Exercise.EquipmentType,
			DifficultyLevelRaw: we.Exercise.DifficultyLevel,
			DescriptionText:    we.Exercise.DescriptionDe,
			Instructions:       append([]string{}, we.Exercise.InstructionsDe...),
			CreatedAt:          now,
			IsBuiltIn:          we.Exercise.Source == models.SourceBuiltIn,
		})
	}

	groups, groupByExercise := builder.ComputeGroups(w.Exercises, w.WorkoutType, w.DefaultRestTime)
	if groups == nil {
		groups = []models.Group{}
	}

	entries := make([]WorkoutExercise, 0, len(w.Exercises))
	for order, we := range w.Exercises {
		entry := WorkoutExercise{
			ID:         we.ID,
			ExerciseID: idByKey[we.Exercise.Key],
			Order:      order,
			Sets:       make([]Set, 0, len(we.Sets)),
		}
		if we.Notes != "" {
			notes := we.Notes
			entry.Notes = &notes
		}
		if groupID, ok := groupByExercise[we.ID]; ok {
			id := groupID
			entry.GroupID = &id
		}
		for _, s := range we.Sets {
			entry.Sets = append(entry.Sets, Set{
				ID:        s.ID,
				Reps:      s.Reps,
				Weight:    s.Weight,
				RestTime:  s.RestTime,
				Completed: false,
			})
		}
		entries = append(entries, entry)
	}

	return &Document{
		Version:    SchemaVersion,
		CreatedAt:  now,
		AppVersion: appVersion,
		Metadata: Metadata{
			DeviceName:     deviceName,
			DeviceModel:    deviceModel,
			OSVersion:      osVersion,
			TotalWorkouts:  1,
			TotalSessions:  0,
			TotalExercises: len(exercises),
		},
		Workouts: []Workout{{
			ID:              uuid.New(),
			Name:            name,
			Date:            now,
			DefaultRestTime: w.DefaultRestTime,
			WorkoutType:     w.WorkoutType,
			Exercises:       entries,
			ExerciseGroups:  groups,
			ExerciseCount:   len(entries),
		}},
		WorkoutFolders:         []any{},
		Exercises:              exercises,
		Sessions:               []any{},
		ExerciseRecords:        []any{},
		ProgressionSuggestions: []any{},
	}, nil
}

var filenameClean = regexp.MustCompile(`[^a-z0-9\-_]+`)

// SanitizeFilename derives a safe .gymbo filename from the workout name.
func SanitizeFilename(name string) string {
	clean := strings.ToLower(strings.TrimSpace(name))
	clean = filenameClean.ReplaceAllString(clean, "-")
	clean = strings.Trim(clean, "-")
	if clean == "" {
		clean = "gymbo-template"
	}
	return clean + ".gymbo"
}
