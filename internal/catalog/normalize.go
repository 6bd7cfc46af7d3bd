package catalog

import (
	"strings"

	"github.com/claude/gymbo/internal/models"
	"github.com/google/uuid"
)

// Defaults applied when a raw record leaves an optional field unset. An empty
// muscle list would break muscle-filter matching downstream, so local
// authoring falls back to a full-body singleton instead.
const (
	DefaultEquipment  = "Freie Gewichte"
	DefaultDifficulty = "Fortgeschritten"
	DefaultMuscle     = "Ganzkörper"
)

// CatalogRecord is the raw shape of one entry in the built-in catalog
// document. The built-in catalog is monolingual; both language slots get the
// same value.
type CatalogRecord struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	MuscleGroups    []string `json:"muscleGroups"`
	EquipmentType   string   `json:"equipmentType"`
	DifficultyLevel string   `json:"difficultyLevel"`
	Description     string   `json:"description"`
	Instructions    []string `json:"instructions"`
}

// CommunityRow is the raw shape of a community exercise row as returned by
// the remote data service.
type CommunityRow struct {
	ID             string   `json:"id"`
	NameDe         string   `json:"name_de"`
	NameEn         string   `json:"name_en"`
	DescriptionDe  string   `json:"description_de"`
	DescriptionEn  string   `json:"description_en"`
	InstructionsDe []string `json:"instructions_de"`
	InstructionsEn []string `json:"instructions_en"`
	MuscleGroups   []string `json:"muscle_groups"`
	EquipmentType  string   `json:"equipment_type"`
	Difficulty     string   `json:"difficulty"`
	Score          int      `json:"score"`
	ReportsCount   int      `json:"reports_count"`
}

// CustomInput is a locally authored exercise as submitted by the user.
type CustomInput struct {
	NameDe         string   `json:"nameDe"`
	NameEn         string   `json:"nameEn"`
	MuscleGroups   []string `json:"muscleGroups"`
	EquipmentType  string   `json:"equipmentType"`
	Difficulty     string   `json:"difficulty"`
	DescriptionDe  string   `json:"descriptionDe"`
	DescriptionEn  string   `json:"descriptionEn"`
	InstructionsDe []string `json:"instructionsDe"`
	InstructionsEn []string `json:"instructionsEn"`
}

// FromCatalogRecord normalizes a built-in catalog entry. Malformed optional
// fields degrade to defaults rather than failing.
func FromCatalogRecord(raw CatalogRecord) models.Exercise {
	return models.Exercise{
		Source:          models.SourceBuiltIn,
		Key:             "catalog-" + raw.ID,
		Name:            raw.Name,
		NameDe:          raw.Name,
		NameEn:          raw.Name,
		MuscleGroups:    orEmpty(raw.MuscleGroups),
		EquipmentType:   orDefault(raw.EquipmentType, DefaultEquipment),
		DifficultyLevel: orDefault(raw.DifficultyLevel, DefaultDifficulty),
		Description:     raw.Description,
		DescriptionDe:   raw.Description,
		DescriptionEn:   raw.Description,
		Instructions:    orEmpty(raw.Instructions),
		InstructionsDe:  orEmpty(raw.Instructions),
		InstructionsEn:  orEmpty(raw.Instructions),
	}
}

// FromCommunityRow normalizes a community exercise row.
func FromCommunityRow(raw CommunityRow) models.Exercise {
	return models.Exercise{
		Source:          models.SourceCommunity,
		Key:             "community-" + raw.ID,
		CommunityID:     raw.ID,
		Name:            raw.NameDe,
		NameDe:          raw.NameDe,
		NameEn:          raw.NameEn,
		MuscleGroups:    orEmpty(raw.MuscleGroups),
		EquipmentType:   orDefault(raw.EquipmentType, DefaultEquipment),
		DifficultyLevel: orDefault(raw.Difficulty, DefaultDifficulty),
		Description:     raw.DescriptionDe,
		DescriptionDe:   raw.DescriptionDe,
		DescriptionEn:   raw.DescriptionEn,
		Instructions:    orEmpty(raw.InstructionsDe),
		InstructionsDe:  orEmpty(raw.InstructionsDe),
		InstructionsEn:  orEmpty(raw.InstructionsEn),
	}
}

// FromCustomInput normalizes a locally authored exercise. The key embeds a
// fresh UUID so every authored exercise is distinct.
func FromCustomInput(in CustomInput) models.Exercise {
	muscles := in.MuscleGroups
	if len(muscles) == 0 {
		muscles = []string{DefaultMuscle}
	}
	return models.Exercise{
		Source:          models.SourceCustom,
		Key:             "custom-" + uuid.NewString(),
		Name:            in.NameDe,
		NameDe:          in.NameDe,
		NameEn:          in.NameEn,
		MuscleGroups:    muscles,
		EquipmentType:   orDefault(in.EquipmentType, DefaultEquipment),
		DifficultyLevel: orDefault(in.Difficulty, DefaultDifficulty),
		Description:     in.DescriptionDe,
		DescriptionDe:   in.DescriptionDe,
		DescriptionEn:   in.DescriptionEn,
		Instructions:    orEmpty(in.InstructionsDe),
		InstructionsDe:  orEmpty(in.InstructionsDe),
		InstructionsEn:  orEmpty(in.InstructionsEn),
	}
}

// ParseLines splits free-form instruction text into trimmed, non-empty lines.
func ParseLines(value string) []string {
	var lines []string
	for _, line := range strings.Split(value, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
