package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// UpsertVote records one vote per user per exercise, last value wins, then
// recomputes the exercise score from the vote sum.
func (db *DB) UpsertVote(ctx context.Context, exerciseID uuid.UUID, userID string, vote int) error {
	if vote != 1 && vote != -1 {
		return fmt.Errorf("invalid vote %d: must be 1 or -1", vote)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning vote upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO community_exercise_votes (exercise_id, user_id, vote)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (exercise_id, user_id) DO UPDATE SET vote = EXCLUDED.vote`,
		exerciseID, userID, vote); err != nil {
		return fmt.Errorf("upserting vote: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE community_exercises
		 SET score = (SELECT COALESCE(SUM(vote), 0) FROM community_exercise_votes WHERE exercise_id = $1)
		 WHERE id = $1`,
		exerciseID)
	if err != nil {
		return fmt.Errorf("recomputing score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("exercise %s not found", exerciseID)
	}

	return tx.Commit(ctx)
}
