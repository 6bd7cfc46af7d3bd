package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReportReasons is the fixed set of accepted report reasons.
var ReportReasons = []string{"wrong_data", "duplicate", "unsafe", "spam", "other"}

// ValidReportReason reports whether reason is in the accepted set.
func ValidReportReason(reason string) bool {
	for _, r := range ReportReasons {
		if r == reason {
			return true
		}
	}
	return false
}

// Report is one user's open report against a community exercise.
type Report struct {
	ID         uuid.UUID `json:"id"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	UserID     string    `json:"user_id"`
	Reason     string    `json:"reason"`
	Details    *string   `json:"details"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// UpsertReport records one open report per user per exercise and refreshes
// the exercise's report count. Details are optional.
func (db *DB) UpsertReport(ctx context.Context, exerciseID uuid.UUID, userID, reason, details string) error {
	if !ValidReportReason(reason) {
		return fmt.Errorf("invalid report reason %q", reason)
	}

	var detailsVal *string
	if details != "" {
		detailsVal = &details
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning report upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO community_exercise_reports (id, exercise_id, user_id, reason, details, status)
		 VALUES (gen_random_uuid(), $1, $2, $3, $4, 'open')
		 ON CONFLICT (exercise_id, user_id)
		 DO UPDATE SET reason = EXCLUDED.reason, details = EXCLUDED.details, status = 'open'`,
		exerciseID, userID, reason, detailsVal); err != nil {
		return fmt.Errorf("upserting report: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE community_exercises
		 SET reports_count = (SELECT COUNT(*) FROM community_exercise_reports
		                      WHERE exercise_id = $1 AND status IN ('open', 'reviewing'))
		 WHERE id = $1`,
		exerciseID)
	if err != nil {
		return fmt.Errorf("recomputing report count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("exercise %s not found", exerciseID)
	}

	return tx.Commit(ctx)
}

// ListOpenReports returns open and in-review reports, oldest first.
func (db *DB) ListOpenReports(ctx context.Context) ([]Report, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, exercise_id, user_id, reason, details, status, created_at
		 FROM community_exercise_reports
		 WHERE status IN ('open', 'reviewing')
		 ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var result []Report
	for rows.Next() {
		var r Report
		if err := rows.Scan(&r.ID, &r.ExerciseID, &r.UserID, &r.Reason, &r.Details, &r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// UpdateReportStatus marks a report resolved or dismissed.
func (db *DB) UpdateReportStatus(ctx context.Context, reportID uuid.UUID, status string) error {
	if status != "resolved" && status != "dismissed" {
		return fmt.Errorf("invalid report status %q", status)
	}
	tag, err := db.Pool.Exec(ctx,
		`UPDATE community_exercise_reports SET status = $2 WHERE id = $1`,
		reportID, status)
	if err != nil {
		return fmt.Errorf("updating report status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("report %s not found", reportID)
	}
	return nil
}
