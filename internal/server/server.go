package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/gymbo/internal/catalog"
	"github.com/claude/gymbo/internal/localstore"
	"github.com/claude/gymbo/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       *storage.DB
	cat      *catalog.Catalog
	local    *localstore.Store
	sessions *sessionRegistry
	log      *slog.Logger
	modKey   string
	version  string
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, cat *catalog.Catalog, local *localstore.Store, modKey, version string, log *slog.Logger) *Server {
	s := &Server{
		db:       db,
		cat:      cat,
		local:    local,
		sessions: newSessionRegistry(),
		log:      log,
		modKey:   modKey,
		version:  version,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(Identity)

	// Catalog
	s.router.Get("/api/v1/catalog", s.handleCatalog)
	s.router.Get("/api/v1/catalog/filters", s.handleCatalogFilters)

	// Community
	s.router.Get("/api/v1/community/exercises", s.handleCommunityExercises)
	s.router.Post("/api/v1/community/exercises", s.handleSubmitExercise)
	s.router.Post("/api/v1/community/exercises/{id}/vote", s.handleVote)
	s.router.Post("/api/v1/community/exercises/{id}/report", s.handleReport)
	s.router.Get("/api/v1/community/workouts", s.handleCommunityWorkouts)

	// Saved workouts (keyed by the identity header the auth proxy injects)
	s.router.Get("/api/v1/workouts", s.handleListWorkouts)
	s.router.Post("/api/v1/workouts", s.handleSaveWorkout)
	s.router.Delete("/api/v1/workouts/{id}", s.handleDeleteWorkout)
	s.router.Post("/api/v1/workouts/{id}/submit", s.handleSubmitWorkout)

	// Builder sessions
	s.router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{sid}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Patch("/", s.handlePatchSession)
			r.Delete("/", s.handleDeleteSession)
			r.Get("/groups", s.handleGroups)
			r.Get("/export", s.handleExport)
			r.Post("/draft", s.handleSaveDraft)
			r.Get("/draft", s.handleLoadDraft)
			r.Post("/exercises", s.handleAddExercise)
			r.Post("/exercises/custom", s.handleAddCustomExercise)
			r.Route("/exercises/{eid}", func(r chi.Router) {
				r.Delete("/", s.handleRemoveExercise)
				r.Post("/move", s.handleMoveExercise)
				r.Put("/notes", s.handleUpdateNotes)
				r.Post("/sets", s.handleAddSet)
				r.Patch("/sets/{setid}", s.handleUpdateSet)
				r.Delete("/sets/{setid}", s.handleRemoveSet)
			})
		})
	})

	// Moderation (API key required)
	s.router.Route("/api/v1/moderation", func(r chi.Router) {
		r.Use(APIKeyAuth(s.modKey))
		r.Get("/exercises", s.handlePendingExercises)
		r.Post("/exercises/{id}/approve", s.handleApproveExercise)
		r.Post("/exercises/{id}/reject", s.handleRejectExercise)
		r.Get("/workouts", s.handlePendingWorkouts)
		r.Post("/workouts/{id}/approve", s.handleApproveWorkout)
		r.Post("/workouts/{id}/reject", s.handleRejectWorkout)
		r.Get("/reports", s.handleOpenReports)
		r.Post("/reports/{id}", s.handleUpdateReport)
	})
}
