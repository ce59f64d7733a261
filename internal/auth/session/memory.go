package session

import (
	"context"
	"sync"
	"time"

	"github.com/ccabucoo/chick-n-needs/internal/auth/domain"
	"github.com/google/uuid"
)

// MemoryRegistry keeps sessions in a mutex-guarded map with a janitor that
// evicts entries idle for longer than idleTTL.
type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session

	idleTTL time.Duration
	now     func() time.Time
	done    chan struct{}
	once    sync.Once
}

// NewMemoryRegistry builds a registry and starts its janitor goroutine.
// idleTTL should match the access-token lifetime.
func NewMemoryRegistry(idleTTL time.Duration) *MemoryRegistry {
	r := &MemoryRegistry{
		sessions: make(map[string]*domain.Session),
		idleTTL:  idleTTL,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go r.janitor(time.Minute)
	return r
}

func (r *MemoryRegistry) Create(_ context.Context, userID, clientIP, userAgent string) (*domain.Session, error) {
	now := r.now()
	s := &domain.Session{
		ID:             uuid.NewString(),
		UserID:         userID,
		ClientIP:       clientIP,
		UserAgent:      userAgent,
		CreatedAt:      now,
		LastActivityAt: now,
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	return cloneSession(s), nil
}

func (r *MemoryRegistry) Get(_ context.Context, sessionID string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return cloneSession(s), nil
}

func (r *MemoryRegistry) Touch(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[sessionID]; ok {
		s.LastActivityAt = r.now()
	}
	return nil
}

func (r *MemoryRegistry) Destroy(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}

func (r *MemoryRegistry) DestroyAllForUser(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (r *MemoryRegistry) ListByUser(_ context.Context, userID string) ([]*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Session
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, cloneSession(s))
		}
	}
	return out, nil
}

// Close stops the janitor.
func (r *MemoryRegistry) Close() {
	r.once.Do(func() { close(r.done) })
}

func (r *MemoryRegistry) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *MemoryRegistry) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.idleTTL)
	for id, s := range r.sessions {
		if s.LastActivityAt.Before(cutoff) {
			delete(r.sessions, id)
		}
	}
}

func cloneSession(s *domain.Session) *domain.Session {
	c := *s
	return &c
}
