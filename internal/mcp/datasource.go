package mcp

import (
	"context"

	"github.com/claude/gymbo/internal/catalog"
	"github.com/claude/gymbo/internal/community"
	"github.com/claude/gymbo/internal/models"
	"github.com/claude/gymbo/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both LocalSource
// (in-process catalog + Postgres) and *community.Client (remote via REST API)
// satisfy this interface.
type DataSource interface {
	SearchCatalog(ctx context.Context, query string, muscles, equipment []string) ([]models.Exercise, error)
	CommunityExercises(ctx context.Context) ([]models.Exercise, error)
	UserWorkouts(ctx context.Context, userID string) ([]storage.UserWorkoutRow, error)
	CommunityWorkouts(ctx context.Context) ([]storage.CommunityWorkoutRow, error)
}

// LocalSource serves MCP tools from the in-process catalog and database.
type LocalSource struct {
	DB  *storage.DB
	Cat *catalog.Catalog
}

// Compile-time checks: both backends satisfy DataSource.
var (
	_ DataSource = (*LocalSource)(nil)
	_ DataSource = (*community.Client)(nil)
)

func (s *LocalSource) SearchCatalog(_ context.Context, query string, muscles, equipment []string) ([]models.Exercise, error) {
	return s.Cat.Filter(query, muscles, equipment), nil
}

func (s *LocalSource) CommunityExercises(ctx context.Context) ([]models.Exercise, error) {
	rows, err := s.DB.ListCommunityExercises(ctx)
	if err != nil {
		return nil, err
	}
	exercises := make([]models.Exercise, 0, len(rows))
	for _, row := range rows {
		exercises = append(exercises, catalog.FromCommunityRow(row))
	}
	return exercises, nil
}

func (s *LocalSource) UserWorkouts(ctx context.Context, userID string) ([]storage.UserWorkoutRow, error) {
	return s.DB.ListUserWorkouts(ctx, userID)
}

func (s *LocalSource) CommunityWorkouts(ctx context.Context) ([]storage.CommunityWorkoutRow, error) {
	return s.DB.ListCommunityWorkouts(ctx)
}
