package builder

import (
	"fmt"

	"github.com/claude/gymbo/internal/models"
	"github.com/google/uuid"
)

// ComputeGroups derives group assignments from the ordered exercise list and
// the workout type. Standard workouts have no groups; superset workouts pair
// consecutive exercises (a trailing odd exercise forms a singleton group);
// circuit workouts form exactly one group. Every group carries the single
// rest-after-group value. The function is deterministic and side-effect-free;
// group identities are freshly generated each call because groups are never
// persisted or compared across calls.
func ComputeGroups(exercises []models.WorkoutExercise, workoutType models.WorkoutType, restAfterGroup int) ([]models.Group, map[uuid.UUID]uuid.UUID) {
	byExercise := make(map[uuid.UUID]uuid.UUID)
	if workoutType == models.WorkoutStandard || len(exercises) == 0 {
		return nil, byExercise
	}

	var groups []models.Group

	if workoutType == models.WorkoutSuperset {
		for i := 0; i < len(exercises); i += 2 {
			pair := exercises[i:min(i+2, len(exercises))]
			groupID := uuid.New()
			ids := make([]uuid.UUID, 0, len(pair))
			for _, we := range pair {
				byExercise[we.ID] = groupID
				ids = append(ids, we.ID)
			}
			groups = append(groups, models.Group{
				ID:             groupID,
				GroupIndex:     len(groups),
				RestAfterGroup: restAfterGroup,
				ExerciseIDs:    ids,
			})
		}
		return groups, byExercise
	}

	groupID := uuid.New()
	ids := make([]uuid.UUID, 0, len(exercises))
	for _, we := range exercises {
		byExercise[we.ID] = groupID
		ids = append(ids, we.ID)
	}
	groups = append(groups, models.Group{
		ID:             groupID,
		GroupIndex:     0,
		RestAfterGroup: restAfterGroup,
		ExerciseIDs:    ids,
	})
	return groups, byExercise
}

// GroupLabel returns the display label for a zero-based group index:
// A through Z, then G27, G28, and so on.
func GroupLabel(index int) string {
	const base = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	if index >= 0 && index < len(base) {
		return string(base[index])
	}
	return fmt.Sprintf("G%d", index+1)
}
