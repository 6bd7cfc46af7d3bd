package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/claude/gymbo/internal/bundle"
	"github.com/claude/gymbo/internal/catalog"
	"github.com/claude/gymbo/internal/localstore"
	"github.com/claude/gymbo/internal/models"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	cat := catalog.New(&catalog.Document{
		Exercises: []catalog.CatalogRecord{
			{ID: "bench", Name: "Bankdrücken", MuscleGroups: []string{"Brust"}, EquipmentType: "Langhantel"},
			{ID: "squat", Name: "Kniebeuge", MuscleGroups: []string{"Beine"}, EquipmentType: "Langhantel"},
			{ID: "dips", Name: "Dips", MuscleGroups: []string{"Trizeps"}, EquipmentType: "Körpergewicht"},
		},
		MuscleGroups:   []string{"Brust", "Beine", "Trizeps"},
		EquipmentTypes: []string{"Langhantel", "Körpergewicht"},
	})

	local, err := localstore.Open(t.TempDir())
	if err != nil {
		t.Fatalf("localstore.Open: %v", err)
	}
	t.Cleanup(func() { local.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(nil, cat, local, "mod-key", "test", log)
}

func doJSON(t *testing.T, s *Server, method, path string, body any, userID string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, s *Server) string {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/api/v1/sessions", map[string]any{}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session status = %d, want 201: %s", rec.Code, rec.Body)
	}
	var resp struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return resp.SessionID
}

func addExercise(t *testing.T, s *Server, sid, key string) uuid.UUID {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/api/v1/sessions/"+sid+"/exercises", map[string]string{"key": key}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("add exercise status = %d, want 201: %s", rec.Code, rec.Body)
	}
	var resp struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode add response: %v", err)
	}
	return resp.ID
}

// TestSessionLifecycle walks a builder session through create, edit, and
// delete over the HTTP surface.
func TestSessionLifecycle(t *testing.T) {
	s := testServer(t)
	sid := createSession(t, s)

	addExercise(t, s, sid, "catalog-bench")

	// Rename, switch to superset, and set the rest time from a string input.
	rec := doJSON(t, s, http.MethodPatch, "/api/v1/sessions/"+sid, map[string]any{
		"name":            "Push Day",
		"workoutType":     "superset",
		"defaultRestTime": "1000",
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var wk models.Workout
	if err := json.NewDecoder(rec.Body).Decode(&wk); err != nil {
		t.Fatalf("decode workout: %v", err)
	}
	if wk.Name != "Push Day" {
		t.Errorf("name = %q, want %q", wk.Name, "Push Day")
	}
	if wk.WorkoutType != models.WorkoutSuperset {
		t.Errorf("workoutType = %q, want superset", wk.WorkoutType)
	}
	if wk.DefaultRestTime != 300 {
		t.Errorf("defaultRestTime = %d, want 300 (clamped)", wk.DefaultRestTime)
	}

	// Delete, then the session is gone.
	rec = doJSON(t, s, http.MethodDelete, "/api/v1/sessions/"+sid, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}
	rec = doJSON(t, s, http.MethodGet, "/api/v1/sessions/"+sid, nil, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

// TestCreateSessionWithSeed verifies that a seeded workout is sanitized on
// the way in: bad workout type falls back, rest time is clamped.
func TestCreateSessionWithSeed(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/sessions", map[string]any{
		"workout": map[string]any{
			"name":            "Import",
			"workoutType":     "pyramid",
			"defaultRestTime": 7,
		},
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Workout models.Workout `json:"workout"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Workout.WorkoutType != models.WorkoutStandard {
		t.Errorf("workoutType = %q, want standard fallback", resp.Workout.WorkoutType)
	}
	if resp.Workout.DefaultRestTime != 30 {
		t.Errorf("defaultRestTime = %d, want 30 (clamped)", resp.Workout.DefaultRestTime)
	}
}

// TestPatchInvalidWorkoutType verifies that an unknown workout type is
// rejected without mutating the session.
func TestPatchInvalidWorkoutType(t *testing.T) {
	s := testServer(t)
	sid := createSession(t, s)

	rec := doJSON(t, s, http.MethodPatch, "/api/v1/sessions/"+sid, map[string]any{
		"workoutType": "pyramid",
	}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/sessions/"+sid, nil, "")
	var wk models.Workout
	if err := json.NewDecoder(rec.Body).Decode(&wk); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if wk.WorkoutType != models.WorkoutStandard {
		t.Errorf("workoutType = %q, want standard unchanged", wk.WorkoutType)
	}
}

// TestAddUnknownExercise verifies the 404 for a key not in the catalog.
func TestAddUnknownExercise(t *testing.T) {
	s := testServer(t)
	sid := createSession(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/sessions/"+sid+"/exercises",
		map[string]string{"key": "catalog-nope"}, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestExerciseOpsOverHTTP verifies move, notes, and set edits through the
// REST surface, including string-typed numeric input.
func TestExerciseOpsOverHTTP(t *testing.T) {
	s := testServer(t)
	sid := createSession(t, s)
	bench := addExercise(t, s, sid, "catalog-bench")
	squat := addExercise(t, s, sid, "catalog-squat")

	// Move squat up by one.
	rec := doJSON(t, s, http.MethodPost, "/api/v1/sessions/"+sid+"/exercises/"+squat.String()+"/move",
		map[string]any{"delta": -1}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("move status = %d: %s", rec.Code, rec.Body)
	}
	var opResp struct {
		Applied bool           `json:"applied"`
		Workout models.Workout `json:"workout"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&opResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !opResp.Applied {
		t.Error("move applied = false, want true")
	}
	if opResp.Workout.Exercises[0].ID != squat {
		t.Errorf("first exercise = %v, want %v", opResp.Workout.Exercises[0].ID, squat)
	}

	// Out-of-bounds move is a no-op, not an error.
	rec = doJSON(t, s, http.MethodPost, "/api/v1/sessions/"+sid+"/exercises/"+squat.String()+"/move",
		map[string]any{"delta": -1}, "")
	if err := json.NewDecoder(rec.Body).Decode(&opResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if opResp.Applied {
		t.Error("out-of-bounds move applied = true, want false")
	}

	// Notes.
	rec = doJSON(t, s, http.MethodPut, "/api/v1/sessions/"+sid+"/exercises/"+bench.String()+"/notes",
		map[string]string{"notes": "Pause am Brustkorb"}, "")
	if err := json.NewDecoder(rec.Body).Decode(&opResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := opResp.Workout.Exercises[1].Notes; got != "Pause am Brustkorb" {
		t.Errorf("notes = %q, want set", got)
	}

	// Update a set with string-typed numbers.
	setID := opResp.Workout.Exercises[1].Sets[0].ID
	rec = doJSON(t, s, http.MethodPatch,
		"/api/v1/sessions/"+sid+"/exercises/"+bench.String()+"/sets/"+setID.String(),
		map[string]any{"reps": "12", "weight": "80.5"}, "")
	if err := json.NewDecoder(rec.Body).Decode(&opResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !opResp.Applied {
		t.Fatal("set update applied = false, want true")
	}
	set := opResp.Workout.Exercises[1].Sets[0]
	if set.Reps != 12 || set.Weight != 80.5 {
		t.Errorf("set = %+v, want reps 12 weight 80.5", set)
	}

	// Removing sets down to the last one is refused.
	sets := opResp.Workout.Exercises[1].Sets
	for i := 0; i < 2; i++ {
		rec = doJSON(t, s, http.MethodDelete,
			"/api/v1/sessions/"+sid+"/exercises/"+bench.String()+"/sets/"+sets[i].ID.String(), nil, "")
		if err := json.NewDecoder(rec.Body).Decode(&opResp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !opResp.Applied {
			t.Fatalf("remove set %d applied = false, want true", i)
		}
	}
	rec = doJSON(t, s, http.MethodDelete,
		"/api/v1/sessions/"+sid+"/exercises/"+bench.String()+"/sets/"+sets[2].ID.String(), nil, "")
	if err := json.NewDecoder(rec.Body).Decode(&opResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if opResp.Applied {
		t.Error("remove last set applied = true, want false")
	}
}

// TestGroupsEndpoint verifies derived groups with display labels for a
// superset session.
func TestGroupsEndpoint(t *testing.T) {
	s := testServer(t)
	sid := createSession(t, s)
	addExercise(t, s, sid, "catalog-bench")
	addExercise(t, s, sid, "catalog-squat")
	addExercise(t, s, sid, "catalog-dips")

	doJSON(t, s, http.MethodPatch, "/api/v1/sessions/"+sid, map[string]any{"workoutType": "superset"}, "")

	rec := doJSON(t, s, http.MethodGet, "/api/v1/sessions/"+sid+"/groups", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var groups []struct {
		Label       string      `json:"label"`
		ExerciseIDs []uuid.UUID `json:"exerciseIds"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&groups); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if groups[0].Label != "A" || groups[1].Label != "B" {
		t.Errorf("labels = %q/%q, want A/B", groups[0].Label, groups[1].Label)
	}
	if len(groups[0].ExerciseIDs) != 2 || len(groups[1].ExerciseIDs) != 1 {
		t.Errorf("group sizes = %d/%d, want 2/1", len(groups[0].ExerciseIDs), len(groups[1].ExerciseIDs))
	}
}

// TestExportEndpoint verifies the bundle download: headers, filename, and a
// schema-correct document body.
func TestExportEndpoint(t *testing.T) {
	s := testServer(t)
	sid := createSession(t, s)
	addExercise(t, s, sid, "catalog-bench")
	doJSON(t, s, http.MethodPatch, "/api/v1/sessions/"+sid, map[string]any{"name": "Push Day"}, "")

	rec := doJSON(t, s, http.MethodGet, "/api/v1/sessions/"+sid+"/export", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, `filename="push-day.gymbo"`) {
		t.Errorf("content-disposition = %q, want push-day.gymbo", got)
	}

	var doc bundle.Document
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decode bundle: %v", err)
	}
	if doc.Version != bundle.SchemaVersion {
		t.Errorf("version = %d, want %d", doc.Version, bundle.SchemaVersion)
	}
	if len(doc.Workouts) != 1 || doc.Workouts[0].Name != "Push Day" {
		t.Errorf("workouts = %+v, want one named Push Day", doc.Workouts)
	}
}

// TestExportEndpointUnnamed verifies the 400 for an export attempt on an
// unnamed workout, and that the session survives it.
func TestExportEndpointUnnamed(t *testing.T) {
	s := testServer(t)
	sid := createSession(t, s)
	addExercise(t, s, sid, "catalog-bench")

	rec := doJSON(t, s, http.MethodGet, "/api/v1/sessions/"+sid+"/export", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/sessions/"+sid, nil, "")
	if rec.Code != http.StatusOK {
		t.Errorf("session gone after failed export: status = %d", rec.Code)
	}
}

// TestDraftRoundTripOverHTTP verifies save and restore of builder drafts,
// scoped to the identity header.
func TestDraftRoundTripOverHTTP(t *testing.T) {
	s := testServer(t)
	sid := createSession(t, s)
	addExercise(t, s, sid, "catalog-bench")
	doJSON(t, s, http.MethodPatch, "/api/v1/sessions/"+sid, map[string]any{"name": "Entwurf"}, "alice")

	rec := doJSON(t, s, http.MethodPost, "/api/v1/sessions/"+sid+"/draft", nil, "alice")
	if rec.Code != http.StatusOK {
		t.Fatalf("save draft status = %d: %s", rec.Code, rec.Body)
	}

	// A fresh session restores the draft.
	sid2 := createSession(t, s)
	rec = doJSON(t, s, http.MethodGet, "/api/v1/sessions/"+sid2+"/draft", nil, "alice")
	if rec.Code != http.StatusOK {
		t.Fatalf("load draft status = %d: %s", rec.Code, rec.Body)
	}
	var wk models.Workout
	if err := json.NewDecoder(rec.Body).Decode(&wk); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if wk.Name != "Entwurf" || len(wk.Exercises) != 1 {
		t.Errorf("restored draft = %+v, want saved state", wk)
	}

	// Other identities have no draft.
	sid3 := createSession(t, s)
	rec = doJSON(t, s, http.MethodGet, "/api/v1/sessions/"+sid3+"/draft", nil, "bob")
	if rec.Code != http.StatusNotFound {
		t.Errorf("load draft for bob status = %d, want 404", rec.Code)
	}
}

// TestCustomExerciseAnonymous verifies that an anonymous user can author a
// custom exercise locally while the community submission is skipped.
func TestCustomExerciseAnonymous(t *testing.T) {
	s := testServer(t)
	sid := createSession(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/sessions/"+sid+"/exercises/custom",
		map[string]any{"nameDe": "Eigene Übung", "nameEn": "My Exercise"}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Exercise models.Exercise `json:"exercise"`
		Local    bool            `json:"local"`
		Remote   string          `json:"remote"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Local {
		t.Error("local = false, want true")
	}
	if resp.Remote != "skipped" {
		t.Errorf("remote = %q, want %q", resp.Remote, "skipped")
	}
	if len(resp.Exercise.MuscleGroups) != 1 || resp.Exercise.MuscleGroups[0] != catalog.DefaultMuscle {
		t.Errorf("muscleGroups = %v, want [%q]", resp.Exercise.MuscleGroups, catalog.DefaultMuscle)
	}

	// The exercise landed in both the workout and the catalog.
	rec = doJSON(t, s, http.MethodGet, "/api/v1/sessions/"+sid, nil, "")
	var wk models.Workout
	if err := json.NewDecoder(rec.Body).Decode(&wk); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(wk.Exercises) != 1 {
		t.Fatalf("workout exercises = %d, want 1", len(wk.Exercises))
	}
	if _, ok := s.cat.Lookup(resp.Exercise.Key); !ok {
		t.Error("custom exercise missing from catalog")
	}
}

// TestCustomExerciseValidation verifies the 400 for a missing name.
func TestCustomExerciseValidation(t *testing.T) {
	s := testServer(t)
	sid := createSession(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/sessions/"+sid+"/exercises/custom",
		map[string]any{"nameDe": "Nur Deutsch"}, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestCatalogEndpoint verifies search and filter parameters on the catalog
// route.
func TestCatalogEndpoint(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/catalog?q=bank", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var exercises []models.Exercise
	if err := json.NewDecoder(rec.Body).Decode(&exercises); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(exercises) != 1 || exercises[0].Key != "catalog-bench" {
		t.Errorf("results = %v, want [catalog-bench]", exercises)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/catalog?muscle=Brust&muscle=Beine", nil, "")
	if err := json.NewDecoder(rec.Body).Decode(&exercises); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(exercises) != 2 {
		t.Errorf("muscle OR filter = %d results, want 2", len(exercises))
	}
}

// TestCatalogFiltersEndpoint verifies the filter enumeration route.
func TestCatalogFiltersEndpoint(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/catalog/filters", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		MuscleGroups   []string `json:"muscleGroups"`
		EquipmentTypes []string `json:"equipmentTypes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.MuscleGroups) != 3 || len(resp.EquipmentTypes) != 2 {
		t.Errorf("filters = %d/%d, want 3/2", len(resp.MuscleGroups), len(resp.EquipmentTypes))
	}
}

// TestModerationRequiresKey verifies that moderation routes are closed
// without the API key.
func TestModerationRequiresKey(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/moderation/exercises", nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no key status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/moderation/exercises", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec2 := httptest.NewRecorder()
	s.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusForbidden {
		t.Errorf("wrong key status = %d, want 403", rec2.Code)
	}
}
