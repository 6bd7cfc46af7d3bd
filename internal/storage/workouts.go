package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/claude/gymbo/internal/models"
	"github.com/google/uuid"
)

// UserWorkoutRow is a saved workout owned by one user. Payload holds the full
// builder state as JSON; the scalar columns are denormalized for listing.
type UserWorkoutRow struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	WorkoutType     string          `json:"workout_type"`
	DefaultRestTime int             `json:"default_rest_time"`
	Payload         json.RawMessage `json:"payload"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// WorkoutSubmission is a workout submitted for community review.
type WorkoutSubmission struct {
	ID          uuid.UUID       `json:"id"`
	WorkoutID   uuid.UUID       `json:"workout_id"`
	SubmittedBy string          `json:"submitted_by"`
	Status      string          `json:"status"`
	Name        string          `json:"name"`
	WorkoutType string          `json:"workout_type"`
	Payload     json.RawMessage `json:"payload"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CommunityWorkoutRow is a published community workout.
type CommunityWorkoutRow struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	WorkoutType string          `json:"workout_type"`
	Payload     json.RawMessage `json:"payload"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ListUserWorkouts returns a user's saved workouts, most recently updated first.
func (db *DB) ListUserWorkouts(ctx context.Context, userID string) ([]UserWorkoutRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, workout_type, default_rest_time, payload, created_at, updated_at
		 FROM user_workouts
		 WHERE user_id = $1
		 ORDER BY updated_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying user workouts: %w", err)
	}
	defer rows.Close()

	var result []UserWorkoutRow
	for rows.Next() {
		var w UserWorkoutRow
		if err := rows.Scan(&w.ID, &w.Name, &w.WorkoutType, &w.DefaultRestTime,
			&w.Payload, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning user workout: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// UpsertUserWorkout saves a workout for a user. A nil workoutID inserts a new
// row; otherwise the named row is updated unconditionally (last write wins —
// there is no version or conflict check). Returns the row's id.
func (db *DB) UpsertUserWorkout(ctx context.Context, userID string, workoutID *uuid.UUID, w models.Workout) (uuid.UUID, error) {
	payload, err := json.Marshal(w)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encoding workout payload: %w", err)
	}

	if workoutID != nil {
		tag, err := db.Pool.Exec(ctx,
			`UPDATE user_workouts
			 SET name = $3, workout_type = $4, default_rest_time = $5, payload = $6, updated_at = now()
			 WHERE id = $1 AND user_id = $2`,
			*workoutID, userID, w.Name, w.WorkoutType, w.DefaultRestTime, payload)
		if err != nil {
			return uuid.Nil, fmt.Errorf("updating user workout: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return uuid.Nil, fmt.Errorf("workout %s not found for user", *workoutID)
		}
		return *workoutID, nil
	}

	id := uuid.New()
	if _, err := db.Pool.Exec(ctx,
		`INSERT INTO user_workouts (id, user_id, name, workout_type, default_rest_time, payload)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, userID, w.Name, w.WorkoutType, w.DefaultRestTime, payload); err != nil {
		return uuid.Nil, fmt.Errorf("inserting user workout: %w", err)
	}
	return id, nil
}

// DeleteUserWorkout removes a saved workout, owner-scoped.
func (db *DB) DeleteUserWorkout(ctx context.Context, workoutID uuid.UUID, userID string) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM user_workouts WHERE id = $1 AND user_id = $2`,
		workoutID, userID)
	if err != nil {
		return fmt.Errorf("deleting user workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("workout %s not found for user", workoutID)
	}
	return nil
}

// SubmitWorkout records a workout for community review in pending state.
func (db *DB) SubmitWorkout(ctx context.Context, workoutID uuid.UUID, userID string, w models.Workout) (uuid.UUID, error) {
	payload, err := json.Marshal(w)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encoding workout payload: %w", err)
	}
	id := uuid.New()
	if _, err := db.Pool.Exec(ctx,
		`INSERT INTO community_workout_submissions
		 (id, workout_id, submitted_by, status, name, workout_type, payload)
		 VALUES ($1, $2, $3, 'pending', $4, $5, $6)`,
		id, workoutID, userID, w.Name, w.WorkoutType, payload); err != nil {
		return uuid.Nil, fmt.Errorf("inserting workout submission: %w", err)
	}
	return id, nil
}

// ListCommunityWorkouts returns active community workouts, newest first.
func (db *DB) ListCommunityWorkouts(ctx context.Context) ([]CommunityWorkoutRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, workout_type, payload, created_at
		 FROM community_workouts
		 WHERE is_active
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying community workouts: %w", err)
	}
	defer rows.Close()

	var result []CommunityWorkoutRow
	for rows.Next() {
		var w CommunityWorkoutRow
		if err := rows.Scan(&w.ID, &w.Name, &w.WorkoutType, &w.Payload, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning community workout: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// ListPendingWorkoutSubmissions returns the workout moderation queue, oldest first.
func (db *DB) ListPendingWorkoutSubmissions(ctx context.Context) ([]WorkoutSubmission, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, workout_id, submitted_by, status, name, workout_type, payload, created_at
		 FROM community_workout_submissions
		 WHERE status = 'pending'
		 ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying workout submissions: %w", err)
	}
	defer rows.Close()

	var result []WorkoutSubmission
	for rows.Next() {
		var s WorkoutSubmission
		if err := rows.Scan(&s.ID, &s.WorkoutID, &s.SubmittedBy, &s.Status,
			&s.Name, &s.WorkoutType, &s.Payload, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning workout submission: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// ApproveWorkoutSubmission publishes a pending workout submission to the
// community list and marks it approved, in one transaction.
func (db *DB) ApproveWorkoutSubmission(ctx context.Context, submissionID uuid.UUID) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning approval: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO community_workouts (id, name, workout_type, payload, is_active)
		 SELECT gen_random_uuid(), name, workout_type, payload, TRUE
		 FROM community_workout_submissions
		 WHERE id = $1 AND status = 'pending'`,
		submissionID)
	if err != nil {
		return fmt.Errorf("publishing workout submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("submission %s not found or not pending", submissionID)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE community_workout_submissions SET status = 'approved' WHERE id = $1`,
		submissionID); err != nil {
		return fmt.Errorf("marking workout submission approved: %w", err)
	}

	return tx.Commit(ctx)
}

// RejectWorkoutSubmission marks a pending workout submission rejected with an
// optional reason.
func (db *DB) RejectWorkoutSubmission(ctx context.Context, submissionID uuid.UUID, reason string) error {
	var reasonVal *string
	if reason != "" {
		reasonVal = &reason
	}
	tag, err := db.Pool.Exec(ctx,
		`UPDATE community_workout_submissions
		 SET status = 'rejected', reject_reason = $2
		 WHERE id = $1 AND status = 'pending'`,
		submissionID, reasonVal)
	if err != nil {
		return fmt.Errorf("rejecting workout submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("submission %s not found or not pending", submissionID)
	}
	return nil
}
