package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
// Callers without an identity fall back to the anonymous local user.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok && id != "" {
		return id
	}
	return "local"
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("GymBo", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("GymBo workout builder server. Search the exercise catalog, browse community exercises and workouts, list saved workouts, and export workout templates as .gymbo bundles."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolSearchExercises, Handler: h.searchExercises},
		server.ServerTool{Tool: toolGetCommunityExercises, Handler: h.getCommunityExercises},
		server.ServerTool{Tool: toolListUserWorkouts, Handler: h.listUserWorkouts},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolExportWorkoutBundle, Handler: h.exportWorkoutBundle},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resCommunityExercises, Handler: h.communityExercisesResource},
		server.ServerResource{Resource: resCommunityWorkouts, Handler: h.communityWorkoutsResource},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resCommunityExercises = mcp.NewResource(
	"gymbo://community_exercises",
	"Community Exercises",
	mcp.WithResourceDescription("All active community-contributed exercises, ordered by score"),
	mcp.WithMIMEType("application/json"),
)

var resCommunityWorkouts = mcp.NewResource(
	"gymbo://community_workouts",
	"Community Workouts",
	mcp.WithResourceDescription("Published community workout templates"),
	mcp.WithMIMEType("application/json"),
)
