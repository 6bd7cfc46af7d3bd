package server

import (
	"encoding/json"
	"net/http"

	"github.com/claude/gymbo/internal/catalog"
	"github.com/claude/gymbo/internal/models"
)

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	muscles := r.URL.Query()["muscle"]
	equipment := r.URL.Query()["equipment"]

	result := s.cat.Filter(q, muscles, equipment)
	if result == nil {
		result = []models.Exercise{}
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCatalogFilters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"muscleGroups":   s.cat.MuscleGroups(),
		"equipmentTypes": s.cat.EquipmentTypes(),
	})
}

// handleCommunityExercises refreshes the community slice of the catalog from
// the data service and returns it normalized.
func (s *Server) handleCommunityExercises(w http.ResponseWriter, r *http.Request) {
	rows, err := s.db.ListCommunityExercises(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	exercises := make([]models.Exercise, 0, len(rows))
	for _, row := range rows {
		exercises = append(exercises, catalog.FromCommunityRow(row))
	}
	s.cat.SetCommunity(exercises)

	writeJSON(w, http.StatusOK, exercises)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
