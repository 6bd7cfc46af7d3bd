package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/gymbo/internal/bundle"
	"github.com/claude/gymbo/internal/models"
)

// splitList turns a comma-separated parameter into trimmed values.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// --- Tool definitions ---

var toolSearchExercises = mcp.NewTool("search_exercises",
	mcp.WithDescription("Search the merged exercise catalog (built-in, community, and custom exercises). Filters combine with AND; values within one filter combine with OR."),
	mcp.WithString("query", mcp.Description("Free-text search over German and English exercise names")),
	mcp.WithString("muscles", mcp.Description("Comma-separated muscle groups (e.g. 'Brust,Trizeps')")),
	mcp.WithString("equipment", mcp.Description("Comma-separated equipment types (e.g. 'Langhantel,Kurzhantel')")),
)

var toolGetCommunityExercises = mcp.NewTool("get_community_exercises",
	mcp.WithDescription("List all active community-contributed exercises, ordered by vote score."),
)

var toolListUserWorkouts = mcp.NewTool("list_user_workouts",
	mcp.WithDescription("List the authenticated user's saved workout templates, most recently updated first."),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Get a single saved workout template by ID, including its full exercise and set structure."),
	mcp.WithString("workout_id", mcp.Required(), mcp.Description("Workout UUID")),
)

var toolExportWorkoutBundle = mcp.NewTool("export_workout_bundle",
	mcp.WithDescription("Export a saved workout template as a .gymbo bundle document. Returns the bundle JSON plus the suggested filename."),
	mcp.WithString("workout_id", mcp.Required(), mcp.Description("Workout UUID")),
)

// --- Tool handlers ---

func (h *handlers) searchExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	muscles := splitList(req.GetString("muscles", ""))
	equipment := splitList(req.GetString("equipment", ""))

	exercises, err := h.ds.SearchCatalog(ctx, query, muscles, equipment)
	if err != nil {
		h.log.Error("mcp search_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getCommunityExercises(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, err := h.ds.CommunityExercises(ctx)
	if err != nil {
		h.log.Error("mcp get_community_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listUserWorkouts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	workouts, err := h.ds.UserWorkouts(ctx, uid)
	if err != nil {
		h.log.Error("mcp list_user_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// loadWorkout resolves a workout_id parameter against the user's saved
// workouts and decodes the stored payload.
func (h *handlers) loadWorkout(ctx context.Context, req mcp.CallToolRequest) (*models.Workout, *mcp.CallToolResult) {
	idStr, err := req.RequireString("workout_id")
	if err != nil {
		return nil, mcp.NewToolResultError("workout_id parameter is required")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, mcp.NewToolResultError("invalid workout_id: " + err.Error())
	}

	uid := UserIDFromContext(ctx)
	rows, err := h.ds.UserWorkouts(ctx, uid)
	if err != nil {
		h.log.Error("mcp load workout", "error", err)
		return nil, mcp.NewToolResultError("query failed: " + err.Error())
	}

	for _, row := range rows {
		if row.ID != id {
			continue
		}
		var w models.Workout
		if err := json.Unmarshal(row.Payload, &w); err != nil {
			return nil, mcp.NewToolResultError("decoding workout payload: " + err.Error())
		}
		return &w, nil
	}
	return nil, mcp.NewToolResultError("workout not found: " + idStr)
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	w, errResult := h.loadWorkout(ctx, req)
	if errResult != nil {
		return errResult, nil
	}

	result, err := mcp.NewToolResultJSON(w)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) exportWorkoutBundle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	w, errResult := h.loadWorkout(ctx, req)
	if errResult != nil {
		return errResult, nil
	}

	doc, err := bundle.Export(*w, time.Now(), "mcp")
	if err != nil {
		return mcp.NewToolResultError("export failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"filename": bundle.SanitizeFilename(w.Name),
		"bundle":   doc,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// --- Resource handlers ---

func (h *handlers) communityExercisesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	exercises, err := h.ds.CommunityExercises(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(exercises)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) communityWorkoutsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	workouts, err := h.ds.CommunityWorkouts(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(workouts)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
