// Package bundle builds the versioned .gymbo export document consumed by the
// GymBo mobile app. The format is write-only from this service's point of
// view: it is produced here and read back only by the app.
package bundle

import (
	"time"

	"github.com/claude/gymbo/internal/models"
	"github.com/google/uuid"
)

// SchemaVersion is the bundle schema understood by the mobile app.
const SchemaVersion = 10

// Device metadata placeholders. The exporter has no device context, so these
// constants identify the web/service origin to the consumer.
const (
	deviceName  = "GymBo Web"
	deviceModel = "Web"
	osVersion   = "Web"
)

// Document is the top-level bundle. Sections this exporter never populates
// (folders, sessions, profile, records, progression) are emitted as empty
// values for the consumer's schema compatibility.
type Document struct {
	Version                int        `json:"version"`
	CreatedAt              time.Time  `json:"createdAt"`
	AppVersion             string     `json:"appVersion"`
	Metadata               Metadata   `json:"metadata"`
	Workouts               []Workout  `json:"workouts"`
	WorkoutFolders         []any      `json:"workoutFolders"`
	Exercises              []Exercise `json:"exercises"`
	Sessions               []any      `json:"sessions"`
	UserProfile            any        `json:"userProfile"`
	ExerciseRecords        []any      `json:"exerciseRecords"`
	ProgressionSuggestions []any      `json:"progressionSuggestions"`
}

// Metadata is the bundle summary block.
type Metadata struct {
	DeviceName      string `json:"deviceName"`
	DeviceModel     string `json:"deviceModel"`
	OSVersion       string `json:"osVersion"`
	TotalWorkouts   int    `json:"totalWorkouts"`
	TotalSessions   int    `json:"totalSessions"`
	TotalExercises  int    `json:"totalExercises"`
	BackupSizeBytes *int64 `json:"backupSizeBytes"`
}

// Exercise is a deduplicated backup exercise definition. Exactly one entry
// exists per distinct exercise key regardless of how many workout positions
// reference it.
type Exercise struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	MuscleGroupsRaw    []string   `json:"muscleGroupsRaw"`
	EquipmentTypeRaw   string     `json:"equipmentTypeRaw"`
	DifficultyLevelRaw string     `json:"difficultyLevelRaw"`
	DescriptionText    string     `json:"descriptionText"`
	Instructions       []string   `json:"instructions"`
	CreatedAt          time.Time  `json:"createdAt"`
	IsBuiltIn          bool       `json:"isBuiltIn"`
	LastUsedWeight     *float64   `json:"lastUsedWeight"`
	LastUsedReps       *int       `json:"lastUsedReps"`
	LastUsedSetCount   *int       `json:"lastUsedSetCount"`
	LastUsedDate       *time.Time `json:"lastUsedDate"`
	LastUsedRestTime   *int       `json:"lastUsedRestTime"`
}

// Set is one exported set. Completed is forced false: completion tracking
// belongs to the app's session model.
type Set struct {
	ID        uuid.UUID `json:"id"`
	Reps      int       `json:"reps"`
	Weight    float64   `json:"weight"`
	RestTime  int       `json:"restTime"`
	Completed bool      `json:"completed"`
}

// WorkoutExercise is one exported workout position, linking a synthetic
// exercise identity at a zero-based order index.
type WorkoutExercise struct {
	ID         uuid.UUID  `json:"id"`
	ExerciseID uuid.UUID  `json:"exerciseId"`
	Order      int        `json:"order"`
	Notes      *string    `json:"notes"`
	GroupID    *uuid.UUID `json:"groupId"`
	Sets       []Set      `json:"sets"`
}

// Workout is the single exported workout.
type Workout struct {
	ID              uuid.UUID          `json:"id"`
	Name            string             `json:"name"`
	Date            time.Time          `json:"date"`
	DefaultRestTime int                `json:"defaultRestTime"`
	Duration        *int               `json:"duration"`
	Notes           string             `json:"notes"`
	IsFavorite      bool               `json:"isFavorite"`
	DifficultyLevel *string            `json:"difficultyLevel"`
	EquipmentType   *string            `json:"equipmentType"`
	WorkoutType     models.WorkoutType `json:"workoutType"`
	WarmupStrategy  *string            `json:"warmupStrategy"`
	Exercises       []WorkoutExercise  `json:"exercises"`
	ExerciseGroups  []models.Group     `json:"exerciseGroups"`
	FolderID        *uuid.UUID         `json:"folderId"`
	OrderInFolder   *int               `json:"orderInFolder"`
	ExerciseCount   int                `json:"exerciseCount"`
}
