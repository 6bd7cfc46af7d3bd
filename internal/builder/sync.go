package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/claude/gymbo/internal/catalog"
	"github.com/claude/gymbo/internal/models"
)

// Submitter sends a locally authored exercise to the remote data service for
// community review.
type Submitter interface {
	SubmitExercise(ctx context.Context, in catalog.CustomInput, userID string) error
}

// SubmitResult reports both phases of adding a custom exercise. The local
// mutation always applies; the remote submission is best-effort, and a remote
// failure is reported here rather than rolling anything back.
type SubmitResult struct {
	Exercise  models.Exercise
	Local     bool
	RemoteErr error
}

// SubmitCustomExercise normalizes the input, adds it to the catalog and to
// the workout, then attempts the remote submission if a submitter and user
// are available. Both names are required; nothing is applied on a validation
// failure.
func SubmitCustomExercise(ctx context.Context, cat *catalog.Catalog, w *models.Workout, in catalog.CustomInput, userID string, remote Submitter) (SubmitResult, error) {
	if strings.TrimSpace(in.NameDe) == "" || strings.TrimSpace(in.NameEn) == "" {
		return SubmitResult{}, fmt.Errorf("both names are required")
	}

	e := catalog.FromCustomInput(in)
	cat.AddCustom(e)
	AddExercise(w, e)

	res := SubmitResult{Exercise: e, Local: true}
	if remote != nil && userID != "" {
		if err := remote.SubmitExercise(ctx, in, userID); err != nil {
			res.RemoteErr = err
		}
	}
	return res, nil
}
