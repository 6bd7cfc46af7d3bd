package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/gymbo/internal/catalog"
	"github.com/google/uuid"
)

// ExerciseSubmission is a community exercise suggestion awaiting moderation.
type ExerciseSubmission struct {
	ID             uuid.UUID `json:"id"`
	CreatedBy      string    `json:"created_by"`
	Status         string    `json:"status"`
	NameDe         string    `json:"name_de"`
	NameEn         string    `json:"name_en"`
	DescriptionDe  string    `json:"description_de"`
	DescriptionEn  string    `json:"description_en"`
	InstructionsDe []string  `json:"instructions_de"`
	InstructionsEn []string  `json:"instructions_en"`
	MuscleGroups   []string  `json:"muscle_groups"`
	EquipmentType  string    `json:"equipment_type"`
	Difficulty     string    `json:"difficulty"`
	RejectReason   *string   `json:"reject_reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ListCommunityExercises returns active community exercises ranked by score
// descending, then recency descending.
func (db *DB) ListCommunityExercises(ctx context.Context) ([]catalog.CommunityRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name_de, name_en, description_de, description_en,
		 instructions_de, instructions_en, muscle_groups, equipment_type, difficulty,
		 score, reports_count
		 FROM community_exercises
		 WHERE is_active
		 ORDER BY score DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying community exercises: %w", err)
	}
	defer rows.Close()

	var result []catalog.CommunityRow
	for rows.Next() {
		var r catalog.CommunityRow
		var id uuid.UUID
		if err := rows.Scan(&id, &r.NameDe, &r.NameEn, &r.DescriptionDe, &r.DescriptionEn,
			&r.InstructionsDe, &r.InstructionsEn, &r.MuscleGroups, &r.EquipmentType, &r.Difficulty,
			&r.Score, &r.ReportsCount); err != nil {
			return nil, fmt.Errorf("scanning community exercise: %w", err)
		}
		r.ID = id.String()
		result = append(result, r)
	}
	return result, rows.Err()
}

// InsertExerciseSubmission stores a new suggestion in pending-review state.
func (db *DB) InsertExerciseSubmission(ctx context.Context, in catalog.CustomInput, createdBy string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO community_exercise_submissions
		 (id, created_by, status, name_de, name_en, description_de, description_en,
		  instructions_de, instructions_en, muscle_groups, equipment_type, difficulty)
		 VALUES ($1, $2, 'pending', $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id, createdBy, in.NameDe, in.NameEn, in.DescriptionDe, in.DescriptionEn,
		in.InstructionsDe, in.InstructionsEn, in.MuscleGroups, in.EquipmentType, in.Difficulty)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting exercise submission: %w", err)
	}
	return id, nil
}

// ListPendingExerciseSubmissions returns the moderation queue, oldest first.
func (db *DB) ListPendingExerciseSubmissions(ctx context.Context) ([]ExerciseSubmission, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, created_by, status, name_de, name_en, description_de, description_en,
		 instructions_de, instructions_en, muscle_groups, equipment_type, difficulty, created_at
		 FROM community_exercise_submissions
		 WHERE status = 'pending'
		 ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying exercise submissions: %w", err)
	}
	defer rows.Close()

	var result []ExerciseSubmission
	for rows.Next() {
		var s ExerciseSubmission
		if err := rows.Scan(&s.ID, &s.CreatedBy, &s.Status, &s.NameDe, &s.NameEn,
			&s.DescriptionDe, &s.DescriptionEn, &s.InstructionsDe, &s.InstructionsEn,
			&s.MuscleGroups, &s.EquipmentType, &s.Difficulty, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning exercise submission: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// ApproveExerciseSubmission promotes a pending submission into the active
// community catalog and marks it approved, in one transaction.
func (db *DB) ApproveExerciseSubmission(ctx context.Context, submissionID uuid.UUID) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning approval: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO community_exercises
		 (id, name_de, name_en, description_de, description_en,
		  instructions_de, instructions_en, muscle_groups, equipment_type, difficulty, is_active)
		 SELECT gen_random_uuid(), name_de, name_en, description_de, description_en,
		  instructions_de, instructions_en, muscle_groups, equipment_type, difficulty, TRUE
		 FROM community_exercise_submissions
		 WHERE id = $1 AND status = 'pending'`,
		submissionID)
	if err != nil {
		return fmt.Errorf("promoting submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("submission %s not found or not pending", submissionID)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE community_exercise_submissions SET status = 'approved' WHERE id = $1`,
		submissionID); err != nil {
		return fmt.Errorf("marking submission approved: %w", err)
	}

	return tx.Commit(ctx)
}

// RejectExerciseSubmission marks a pending submission rejected with an
// optional reason.
func (db *DB) RejectExerciseSubmission(ctx context.Context, submissionID uuid.UUID, reason string) error {
	var reasonVal *string
	if reason != "" {
		reasonVal = &reason
	}
	tag, err := db.Pool.Exec(ctx,
		`UPDATE community_exercise_submissions
		 SET status = 'rejected', reject_reason = $2
		 WHERE id = $1 AND status = 'pending'`,
		submissionID, reasonVal)
	if err != nil {
		return fmt.Errorf("rejecting submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("submission %s not found or not pending", submissionID)
	}
	return nil
}
