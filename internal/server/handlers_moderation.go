package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/claude/gymbo/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handlePendingExercises(w http.ResponseWriter, r *http.Request) {
	subs, err := s.db.ListPendingExerciseSubmissions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if subs == nil {
		subs = []storage.ExerciseSubmission{}
	}
	writeJSON(w, http.StatusOK, subs)
}

func (s *Server) handleApproveExercise(w http.ResponseWriter, r *http.Request) {
	s.moderationAction(w, r, s.db.ApproveExerciseSubmission)
}

func (s *Server) handleRejectExercise(w http.ResponseWriter, r *http.Request) {
	reason := decodeReason(r)
	s.moderationAction(w, r, func(ctx context.Context, id uuid.UUID) error {
		return s.db.RejectExerciseSubmission(ctx, id, reason)
	})
}

func (s *Server) handlePendingWorkouts(w http.ResponseWriter, r *http.Request) {
	subs, err := s.db.ListPendingWorkoutSubmissions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if subs == nil {
		subs = []storage.WorkoutSubmission{}
	}
	writeJSON(w, http.StatusOK, subs)
}

func (s *Server) handleApproveWorkout(w http.ResponseWriter, r *http.Request) {
	s.moderationAction(w, r, s.db.ApproveWorkoutSubmission)
}

func (s *Server) handleRejectWorkout(w http.ResponseWriter, r *http.Request) {
	reason := decodeReason(r)
	s.moderationAction(w, r, func(ctx context.Context, id uuid.UUID) error {
		return s.db.RejectWorkoutSubmission(ctx, id, reason)
	})
}

func (s *Server) handleOpenReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.db.ListOpenReports(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if reports == nil {
		reports = []storage.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleUpdateReport(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.moderationAction(w, r, func(ctx context.Context, id uuid.UUID) error {
		return s.db.UpdateReportStatus(ctx, id, body.Status)
	})
}

func decodeReason(r *http.Request) string {
	var body struct {
		Reason string `json:"reason"`
	}
	json.NewDecoder(r.Body).Decode(&body)
	return body.Reason
}

func (s *Server) moderationAction(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID) error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid ID"})
		return
	}
	if err := fn(r.Context(), id); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
