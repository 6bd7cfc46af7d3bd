package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Document is the built-in catalog file: the exercise list plus the
// enumerations of valid muscle groups and equipment types. It is read once at
// startup; a missing or unreadable document is fatal to initialization.
type Document struct {
	Exercises      []CatalogRecord `json:"exercises"`
	MuscleGroups   []string        `json:"muscleGroups"`
	EquipmentTypes []string        `json:"equipmentTypes"`
}

// LoadDocument reads and decodes the built-in catalog document.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog document: %w", err)
	}
	return &doc, nil
}
