package catalog

import (
	"strings"
	"testing"

	"github.com/claude/gymbo/internal/models"
)

// TestFromCatalogRecordDefaults verifies that missing optional fields fall
// back to the German defaults and nil slices become empty ones.
func TestFromCatalogRecordDefaults(t *testing.T) {
	e := FromCatalogRecord(CatalogRecord{ID: "42", Name: "Bankdrücken"})

	if e.Key != "catalog-42" {
		t.Errorf("key = %q, want %q", e.Key, "catalog-42")
	}
	if e.Source != models.SourceBuiltIn {
		t.Errorf("source = %q, want %q", e.Source, models.SourceBuiltIn)
	}
	if e.EquipmentType != DefaultEquipment {
		t.Errorf("equipment = %q, want %q", e.EquipmentType, DefaultEquipment)
	}
	if e.DifficultyLevel != DefaultDifficulty {
		t.Errorf("difficulty = %q, want %q", e.DifficultyLevel, DefaultDifficulty)
	}
	if e.MuscleGroups == nil || len(e.MuscleGroups) != 0 {
		t.Errorf("muscleGroups = %v, want empty non-nil", e.MuscleGroups)
	}
	if e.NameDe != "Bankdrücken" || e.NameEn != "Bankdrücken" {
		t.Errorf("names = %q/%q, want both %q", e.NameDe, e.NameEn, "Bankdrücken")
	}
}

// TestFromCommunityRow verifies key prefixing, bilingual mapping, and score
// passthrough from a remote row.
func TestFromCommunityRow(t *testing.T) {
	e := FromCommunityRow(CommunityRow{
		ID:            "abc-123",
		NameDe:        "Landmine Press",
		NameEn:        "Landmine Press",
		MuscleGroups:  []string{"Schultern"},
		EquipmentType: "Langhantel",
		Difficulty:    "Anfänger",
	})

	if e.Key != "community-abc-123" {
		t.Errorf("key = %q, want %q", e.Key, "community-abc-123")
	}
	if e.CommunityID != "abc-123" {
		t.Errorf("communityId = %q, want %q", e.CommunityID, "abc-123")
	}
	if e.Source != models.SourceCommunity {
		t.Errorf("source = %q, want %q", e.Source, models.SourceCommunity)
	}
	if e.EquipmentType != "Langhantel" {
		t.Errorf("equipment = %q, want %q (explicit value must not be defaulted)", e.EquipmentType, "Langhantel")
	}
}

// TestFromCustomInputDefaults verifies the muscle fallback and the unique
// key per authored exercise.
func TestFromCustomInputDefaults(t *testing.T) {
	in := CustomInput{NameDe: "Eigene Übung", NameEn: "My Exercise"}

	e1 := FromCustomInput(in)
	e2 := FromCustomInput(in)

	if !strings.HasPrefix(e1.Key, "custom-") {
		t.Errorf("key = %q, want custom- prefix", e1.Key)
	}
	if e1.Key == e2.Key {
		t.Error("two authored exercises share a key, want distinct")
	}
	if len(e1.MuscleGroups) != 1 || e1.MuscleGroups[0] != DefaultMuscle {
		t.Errorf("muscleGroups = %v, want [%q]", e1.MuscleGroups, DefaultMuscle)
	}
	if e1.EquipmentType != DefaultEquipment {
		t.Errorf("equipment = %q, want %q", e1.EquipmentType, DefaultEquipment)
	}
	if e1.DifficultyLevel != DefaultDifficulty {
		t.Errorf("difficulty = %q, want %q", e1.DifficultyLevel, DefaultDifficulty)
	}
}

// TestParseLines verifies instruction text splitting.
func TestParseLines(t *testing.T) {
	got := ParseLines("  Aufwärmen \n\n  Hauptsatz\n \nAbkühlen ")
	want := []string{"Aufwärmen", "Hauptsatz", "Abkühlen"}

	if len(got) != len(want) {
		t.Fatalf("lines = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
	if lines := ParseLines("   "); lines != nil {
		t.Errorf("blank input = %v, want nil", lines)
	}
}
