package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/claude/gymbo/internal/catalog"
	"github.com/claude/gymbo/internal/models"
	"github.com/claude/gymbo/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// handleSubmitExercise stores a new community exercise suggestion in
// pending-review state, without touching any builder session.
func (s *Server) handleSubmitExercise(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	if userID == "local" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "sign in to submit exercises"})
		return
	}

	var in catalog.CustomInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if strings.TrimSpace(in.NameDe) == "" || strings.TrimSpace(in.NameEn) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "both names are required"})
		return
	}

	id, err := s.db.InsertExerciseSubmission(r.Context(), in, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"submissionId": id, "status": "pending"})
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	exerciseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}

	userID := userIDFromRequest(r)
	if userID == "local" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "sign in to vote"})
		return
	}

	var body struct {
		Vote int `json:"vote"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if err := s.db.UpsertVote(r.Context(), exerciseID, userID, body.Vote); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	exerciseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}

	userID := userIDFromRequest(r)
	if userID == "local" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "sign in to report"})
		return
	}

	var body struct {
		Reason  string `json:"reason"`
		Details string `json:"details"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if !storage.ValidReportReason(strings.TrimSpace(body.Reason)) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid report reason"})
		return
	}

	if err := s.db.UpsertReport(r.Context(), exerciseID, userID, strings.TrimSpace(body.Reason), body.Details); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCommunityWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.db.ListCommunityWorkouts(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if workouts == nil {
		workouts = []storage.CommunityWorkoutRow{}
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.db.ListUserWorkouts(r.Context(), userIDFromRequest(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if workouts == nil {
		workouts = []storage.UserWorkoutRow{}
	}
	writeJSON(w, http.StatusOK, workouts)
}

// handleSaveWorkout inserts or updates a saved workout. Updates are
// unconditional last-write-wins; there is no version check.
func (s *Server) handleSaveWorkout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID      *uuid.UUID     `json:"id"`
		Workout models.Workout `json:"workout"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if strings.TrimSpace(body.Workout.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "workout name is required"})
		return
	}

	id, err := s.db.UpsertUserWorkout(r.Context(), userIDFromRequest(r), body.ID, body.Workout)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id})
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	workoutID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout ID"})
		return
	}
	if err := s.db.DeleteUserWorkout(r.Context(), workoutID, userIDFromRequest(r)); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSubmitWorkout(w http.ResponseWriter, r *http.Request) {
	workoutID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout ID"})
		return
	}

	userID := userIDFromRequest(r)
	if userID == "local" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "sign in to submit workouts"})
		return
	}

	var body struct {
		Workout models.Workout `json:"workout"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	id, err := s.db.SubmitWorkout(r.Context(), workoutID, userID, body.Workout)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"submissionId": id, "status": "pending"})
}
