package models

// ExerciseSource identifies which catalog a normalized exercise came from.
type ExerciseSource string

const (
	SourceBuiltIn   ExerciseSource = "built-in"
	SourceCommunity ExerciseSource = "community"
	SourceCustom    ExerciseSource = "custom"
)

// Exercise is the uniform in-memory exercise shape shared by built-in,
// community, and locally authored entries. Key is unique within one catalog
// snapshot; two exercises with the same Key are the same exercise for
// export deduplication.
type Exercise struct {
	Source          ExerciseSource `json:"source"`
	Key             string         `json:"key"`
	CommunityID     string         `json:"communityId,omitempty"`
	Name            string         `json:"name"`
	NameDe          string         `json:"nameDe"`
	NameEn          string         `json:"nameEn"`
	MuscleGroups    []string       `json:"muscleGroups"`
	EquipmentType   string         `json:"equipmentType"`
	DifficultyLevel string         `json:"difficultyLevel"`
	Description     string         `json:"description"`
	DescriptionDe   string         `json:"descriptionDe"`
	DescriptionEn   string         `json:"descriptionEn"`
	Instructions    []string       `json:"instructions"`
	InstructionsDe  []string       `json:"instructionsDe"`
	InstructionsEn  []string       `json:"instructionsEn"`
	Score           int            `json:"score"`
	ReportsCount    int            `json:"reportsCount"`
}

// Clone returns a deep copy. Workouts hold copies of catalog exercises so a
// catalog refresh never mutates an in-progress workout.
func (e Exercise) Clone() Exercise {
	c := e
	c.MuscleGroups = append([]string(nil), e.MuscleGroups...)
	c.Instructions = append([]string(nil), e.Instructions...)
	c.InstructionsDe = append([]string(nil), e.InstructionsDe...)
	c.InstructionsEn = append([]string(nil), e.InstructionsEn...)
	return c
}
