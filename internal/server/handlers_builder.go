package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/claude/gymbo/internal/builder"
	"github.com/claude/gymbo/internal/bundle"
	"github.com/claude/gymbo/internal/catalog"
	"github.com/claude/gymbo/internal/models"
	"github.com/claude/gymbo/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// flexNumber accepts a JSON number or a numeric string. Anything unparsable
// coerces to zero, matching how the builder treats form input.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = flexNumber(f)
	return nil
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Workout *models.Workout `json:"workout"`
	}
	// An empty body starts an empty builder.
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&body)
	}

	workout := body.Workout
	if workout != nil {
		if !workout.WorkoutType.Valid() {
			workout.WorkoutType = models.WorkoutStandard
		}
		workout.DefaultRestTime = builder.ClampRest(workout.DefaultRestTime)
	}

	id := s.sessions.create(workout)
	sess, _ := s.sessions.get(id)
	sess.withWorkout(func(wk *models.Workout) {
		writeJSON(w, http.StatusCreated, map[string]any{"sessionId": id, "workout": wk})
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.withWorkout(func(wk *models.Workout) {
		writeJSON(w, http.StatusOK, wk)
	})
}

func (s *Server) handlePatchSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var body struct {
		Name            *string         `json:"name"`
		WorkoutType     *string         `json:"workoutType"`
		DefaultRestTime json.RawMessage `json:"defaultRestTime"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if body.WorkoutType != nil && !models.WorkoutType(*body.WorkoutType).Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout type"})
		return
	}

	sess.withWorkout(func(wk *models.Workout) {
		if body.Name != nil {
			wk.Name = *body.Name
		}
		if body.WorkoutType != nil {
			wk.WorkoutType = models.WorkoutType(*body.WorkoutType)
		}
		if body.DefaultRestTime != nil {
			raw := strings.Trim(string(body.DefaultRestTime), `"`)
			builder.SetDefaultRest(wk, raw)
		}
		writeJSON(w, http.StatusOK, wk)
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sid, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}
	s.sessions.remove(sid)
	writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

// groupView decorates a derived group with its display label.
type groupView struct {
	models.Group
	Label string `json:"label"`
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.withWorkout(func(wk *models.Workout) {
		groups, _ := builder.ComputeGroups(wk.Exercises, wk.WorkoutType, wk.DefaultRestTime)
		views := make([]groupView, 0, len(groups))
		for _, g := range groups {
			views = append(views, groupView{Group: g, Label: builder.GroupLabel(g.GroupIndex)})
		}
		writeJSON(w, http.StatusOK, views)
	})
}

// handleExport serializes the session's workout into a .gymbo bundle and
// serves it as a download. Validation failures are reported as 400s and the
// builder state is untouched either way.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.withWorkout(func(wk *models.Workout) {
		doc, err := bundle.Export(*wk, time.Now().UTC(), s.version)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="`+bundle.SanitizeFilename(wk.Name)+`"`)
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	})
}

func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.withWorkout(func(wk *models.Workout) {
		if err := s.local.SaveDraft(userIDFromRequest(r), *wk); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
	})
}

func (s *Server) handleLoadDraft(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	draft, err := s.local.LoadDraft(userIDFromRequest(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if draft == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no draft"})
		return
	}
	sess.mu.Lock()
	sess.workout = draft
	sess.mu.Unlock()
	writeJSON(w, http.StatusOK, draft)
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var body struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	exercise, found := s.cat.Lookup(body.Key)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found: " + body.Key})
		return
	}

	sess.withWorkout(func(wk *models.Workout) {
		id := builder.AddExercise(wk, exercise)
		writeJSON(w, http.StatusCreated, map[string]any{"id": id, "workout": wk})
	})
}

// dbSubmitter adapts the storage layer to the builder's Submitter interface.
type dbSubmitter struct {
	db *storage.DB
}

func (d dbSubmitter) SubmitExercise(ctx context.Context, in catalog.CustomInput, userID string) error {
	_, err := d.db.InsertExerciseSubmission(ctx, in, userID)
	return err
}

// handleAddCustomExercise applies the local mutation (catalog + workout +
// local store) and then attempts the community submission. A remote failure
// keeps the local result and is reported separately.
func (s *Server) handleAddCustomExercise(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var in catalog.CustomInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	userID := userIDFromRequest(r)
	var remote builder.Submitter
	if userID != "local" {
		remote = dbSubmitter{db: s.db}
	}

	sess.withWorkout(func(wk *models.Workout) {
		result, err := builder.SubmitCustomExercise(r.Context(), s.cat, wk, in, userID, remote)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		if err := s.local.SaveCustomExercise(result.Exercise); err != nil {
			s.log.Warn("persisting custom exercise failed", "error", err)
		}

		remoteStatus := "skipped"
		if remote != nil {
			remoteStatus = "ok"
			if result.RemoteErr != nil {
				remoteStatus = result.RemoteErr.Error()
			}
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"exercise": result.Exercise,
			"local":    result.Local,
			"remote":   remoteStatus,
		})
	})
}

func (s *Server) handleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	s.exerciseOp(w, r, func(wk *models.Workout, eid uuid.UUID) bool {
		return builder.RemoveExercise(wk, eid)
	})
}

func (s *Server) handleMoveExercise(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Delta  *int       `json:"delta"`
		Before *uuid.UUID `json:"before"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if body.Delta == nil && body.Before == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "delta or before is required"})
		return
	}

	s.exerciseOp(w, r, func(wk *models.Workout, eid uuid.UUID) bool {
		if body.Before != nil {
			return builder.MoveExerciseBefore(wk, eid, *body.Before)
		}
		return builder.MoveExercise(wk, eid, *body.Delta)
	})
}

func (s *Server) handleUpdateNotes(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.exerciseOp(w, r, func(wk *models.Workout, eid uuid.UUID) bool {
		return builder.UpdateNotes(wk, eid, body.Notes)
	})
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	s.exerciseOp(w, r, func(wk *models.Workout, eid uuid.UUID) bool {
		return builder.AddSet(wk, eid)
	})
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	setID, err := uuid.Parse(chi.URLParam(r, "setid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set ID"})
		return
	}

	var body struct {
		Reps     *flexNumber `json:"reps"`
		Weight   *flexNumber `json:"weight"`
		RestTime *flexNumber `json:"restTime"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	s.exerciseOp(w, r, func(wk *models.Workout, eid uuid.UUID) bool {
		applied := false
		if body.Reps != nil {
			applied = builder.UpdateSetReps(wk, eid, setID, int(*body.Reps)) || applied
		}
		if body.Weight != nil {
			applied = builder.UpdateSetWeight(wk, eid, setID, float64(*body.Weight)) || applied
		}
		if body.RestTime != nil {
			applied = builder.UpdateSetRest(wk, eid, setID, int(*body.RestTime)) || applied
		}
		return applied
	})
}

func (s *Server) handleRemoveSet(w http.ResponseWriter, r *http.Request) {
	setID, err := uuid.Parse(chi.URLParam(r, "setid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set ID"})
		return
	}
	s.exerciseOp(w, r, func(wk *models.Workout, eid uuid.UUID) bool {
		return builder.RemoveSet(wk, eid, setID)
	})
}

// exerciseOp runs a builder operation against one workout exercise and
// reports whether it applied. No-ops return applied=false with the current
// state, matching the builder's no-op semantics.
func (s *Server) exerciseOp(w http.ResponseWriter, r *http.Request, op func(wk *models.Workout, eid uuid.UUID) bool) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	eid, err := uuid.Parse(chi.URLParam(r, "eid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}
	sess.withWorkout(func(wk *models.Workout) {
		applied := op(wk, eid)
		writeJSON(w, http.StatusOK, map[string]any{"applied": applied, "workout": wk})
	})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session, bool) {
	sid, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return nil, false
	}
	sess, ok := s.sessions.get(sid)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return nil, false
	}
	return sess, true
}
