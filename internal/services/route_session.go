package services

import (
	"context"
	"errors"
	"fieldops-service/internal/domain"
	"fieldops-service/internal/platform/obs"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("route session not found")

// Resolver computes a route for a stop list.
type Resolver interface {
	Resolve(ctx context.Context, stops []domain.Stop) domain.RouteResult
}

// RouteSession holds the route state of one map view.
//
// Every selection or map-readiness change starts a new computation tagged
// with the next generation number. A computation's result is applied only
// while its generation is still the current one; results of superseded
// computations are dropped when they arrive.
type RouteSession struct {
	ID string

	resolver Resolver

	mu         sync.Mutex
	generation uint64
	selection  uint64 // token of the latest selection
	selected   bool
	mapReady   bool
	journey    domain.Journey
	result     domain.RouteResult
	lastUsed   time.Time
}

// RouteSnapshot is a consistent view of a session.
type RouteSnapshot struct {
	ID         string
	Generation uint64
	MapReady   bool
	Journey    domain.Journey
	Result     domain.RouteResult
}

func NewRouteSession(id string, resolver Resolver, mapReady bool) *RouteSession {
	return &RouteSession{
		ID:       id,
		resolver: resolver,
		mapReady: mapReady,
		result:   domain.RouteResult{Status: domain.RouteIdle},
		lastUsed: time.Now(),
	}
}

// Select replaces the journey and restarts the computation. The returned
// channel closes when this computation finishes, whether or not its result
// was applied.
func (s *RouteSession) Select(ctx context.Context, journey domain.Journey) <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection++
	s.journey = journey
	s.selected = true
	return s.restartLocked(ctx)
}

// BeginSelection registers a selection whose journey is still being loaded
// and returns its token. The current computation becomes stale and the
// session reports loading until CompleteSelection or AbandonSelection.
func (s *RouteSession) BeginSelection() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection++
	s.generation++
	s.lastUsed = time.Now()
	if s.mapReady {
		s.result = domain.RouteResult{Status: domain.RouteLoading}
	} else {
		s.result = domain.RouteResult{Status: domain.RouteIdle}
	}
	return s.selection
}

// CompleteSelection applies the loaded journey of the selection identified
// by token and starts its computation. It reports false, changing nothing,
// when a newer selection has been made since.
func (s *RouteSession) CompleteSelection(ctx context.Context, token uint64, journey domain.Journey) (<-chan struct{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.selection {
		return closedChan(), false
	}
	s.journey = journey
	s.selected = true
	return s.restartLocked(ctx), true
}

// AbandonSelection drops a pending selection whose journey could not be
// loaded. It does nothing when a newer selection has been made since.
func (s *RouteSession) AbandonSelection(ctx context.Context, token uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.selection {
		return
	}
	s.journey = domain.Journey{}
	s.selected = false
	s.restartLocked(ctx)
}

// Clear drops the selection. Any in-flight computation becomes stale.
func (s *RouteSession) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection++
	s.journey = domain.Journey{}
	s.selected = false
	s.restartLocked(ctx)
}

// SetMapReady records the readiness of the map surface. A change restarts
// the computation for the current journey.
func (s *RouteSession) SetMapReady(ctx context.Context, ready bool) <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mapReady == ready {
		s.lastUsed = time.Now()
		return closedChan()
	}
	s.mapReady = ready
	return s.restartLocked(ctx)
}

func (s *RouteSession) restartLocked(ctx context.Context) <-chan struct{} {
	s.generation++
	s.lastUsed = time.Now()
	gen := s.generation

	if !s.selected || !s.mapReady {
		s.result = domain.RouteResult{Status: domain.RouteIdle}
		return closedChan()
	}

	s.result = domain.RouteResult{Status: domain.RouteLoading}

	stops := s.journey.Stops
	// In-flight provider calls are not cancelled when the request that
	// started them ends; staleness is handled by the generation check.
	runCtx := context.WithoutCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		res := s.resolver.Resolve(runCtx, stops)
		if !s.apply(gen, res) {
			obs.Info("req_id", obs.RequestID(runCtx), "msg", "discarded stale route result",
				"session", s.ID, "generation", gen, "status", res.Status)
		}
	}()

	return done
}

func (s *RouteSession) apply(gen uint64, res domain.RouteResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return false
	}
	s.result = res
	return true
}

// Current returns the applied result and the generation it belongs to.
func (s *RouteSession) Current() (domain.RouteResult, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.generation
}

// Snapshot returns the current state.
func (s *RouteSession) Snapshot() RouteSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastUsed = time.Now()
	return RouteSnapshot{
		ID:         s.ID,
		Generation: s.generation,
		MapReady:   s.mapReady,
		Journey:    s.journey,
		Result:     s.result,
	}
}

func (s *RouteSession) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastUsed)
}

func closedChan() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// SessionStore keeps route sessions for HTTP clients.
type SessionStore struct {
	resolver Resolver

	mu       sync.Mutex
	sessions map[string]*RouteSession
}

func NewSessionStore(resolver Resolver) *SessionStore {
	return &SessionStore{
		resolver: resolver,
		sessions: make(map[string]*RouteSession),
	}
}

// Create registers a new session with a random id.
func (st *SessionStore) Create(mapReady bool) *RouteSession {
	s := NewRouteSession(uuid.NewString(), st.resolver, mapReady)

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	return s
}

func (st *SessionStore) Get(id string) (*RouteSession, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (st *SessionStore) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(st.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Prune drops sessions unused for longer than maxIdle and returns how many were removed.
func (st *SessionStore) Prune(now time.Time, maxIdle time.Duration) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if s.idleSince(now) > maxIdle {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// RunPruner prunes idle sessions every interval until ctx is done.
func (st *SessionStore) RunPruner(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := st.Prune(now, maxIdle); n > 0 {
				obs.Info("msg", "pruned idle route sessions", "removed", n, "remaining", st.Len())
			}
		}
	}
}
