package server

import (
	"sync"

	"github.com/claude/gymbo/internal/builder"
	"github.com/claude/gymbo/internal/models"
	"github.com/google/uuid"
)

// session is one builder session. The workout it owns is exclusively mutated
// under mu: every operation runs to completion before the next one starts,
// mirroring the single logical thread of control the builder assumes.
type session struct {
	mu      sync.Mutex
	workout *models.Workout
}

// sessionRegistry holds all live builder sessions in memory. Sessions are not
// persisted; drafts go through the local store explicitly.
type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[uuid.UUID]*session)}
}

// create registers a new session. A nil workout starts an empty builder.
func (r *sessionRegistry) create(w *models.Workout) uuid.UUID {
	if w == nil {
		w = builder.NewWorkout()
	}
	id := uuid.New()
	r.mu.Lock()
	r.sessions[id] = &session{workout: w}
	r.mu.Unlock()
	return id
}

func (r *sessionRegistry) get(id uuid.UUID) (*session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *sessionRegistry) remove(id uuid.UUID) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// withWorkout runs fn with the session's workout under its lock.
func (s *session) withWorkout(fn func(w *models.Workout)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.workout)
}
