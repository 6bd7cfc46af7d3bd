package catalog

import (
	"strings"
	"sync"

	"github.com/claude/gymbo/internal/models"
)

// Catalog merges normalized exercises from the three sources into one
// searchable collection. Merge order is custom, community, built-in — local
// entries rank first in display and search.
type Catalog struct {
	mu             sync.RWMutex
	builtIn        []models.Exercise
	community      []models.Exercise
	custom         []models.Exercise
	muscleGroups   []string
	equipmentTypes []string
}

// New creates a Catalog seeded with the built-in document.
func New(doc *Document) *Catalog {
	c := &Catalog{
		muscleGroups:   doc.MuscleGroups,
		equipmentTypes: doc.EquipmentTypes,
	}
	for _, raw := range doc.Exercises {
		c.builtIn = append(c.builtIn, FromCatalogRecord(raw))
	}
	return c
}

// SetCommunity replaces the community slice, typically after a refresh from
// the remote data service.
func (c *Catalog) SetCommunity(exercises []models.Exercise) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.community = exercises
}

// AddCustom prepends a locally authored exercise so it shows up first.
func (c *Catalog) AddCustom(e models.Exercise) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.custom = append([]models.Exercise{e}, c.custom...)
}

// MuscleGroups returns the muscle group enumeration from the built-in document.
func (c *Catalog) MuscleGroups() []string { return c.muscleGroups }

// EquipmentTypes returns the equipment type enumeration from the built-in document.
func (c *Catalog) EquipmentTypes() []string { return c.equipmentTypes }

// All returns the merged catalog in precedence order.
func (c *Catalog) All() []models.Exercise {
	c.mu.RLock()
	defer c.mu.RUnlock()
	merged := make([]models.Exercise, 0, len(c.custom)+len(c.community)+len(c.builtIn))
	merged = append(merged, c.custom...)
	merged = append(merged, c.community...)
	merged = append(merged, c.builtIn...)
	return merged
}

// Lookup finds an exercise by key in the merged catalog.
func (c *Catalog) Lookup(key string) (models.Exercise, bool) {
	for _, e := range c.All() {
		if e.Key == key {
			return e, true
		}
	}
	return models.Exercise{}, false
}

// Filter applies the search contract: a text query matches case-insensitively
// against either localized name; muscle and equipment filters use OR semantics
// within a category and AND across categories. Empty filters match everything.
func (c *Catalog) Filter(query string, muscles, equipment []string) []models.Exercise {
	q := strings.ToLower(strings.TrimSpace(query))

	var out []models.Exercise
	for _, e := range c.All() {
		if q != "" &&
			!strings.Contains(strings.ToLower(e.NameDe), q) &&
			!strings.Contains(strings.ToLower(e.NameEn), q) {
			continue
		}
		if len(muscles) > 0 && !intersects(e.MuscleGroups, muscles) {
			continue
		}
		if len(equipment) > 0 && !contains(equipment, e.EquipmentType) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func intersects(have, want []string) bool {
	for _, w := range want {
		if contains(have, w) {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
