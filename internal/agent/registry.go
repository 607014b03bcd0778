package agent

import (
	"context"
	"log"
	"sync"
)

// Checkpointer is the durable tier behind the in-memory registry. Get/Put by
// thread identifier with read-your-own-write consistency per thread.
type Checkpointer interface {
	Get(ctx context.Context, threadID string) (*State, bool, error)
	Put(ctx context.Context, threadID string, st *State) error
}

// Session binds a conversation state to its identifier. Events for one
// session are processed strictly in order; the mutex only serializes the
// sync-chat path against itself, it is never contended across sessions.
type Session struct {
	ID string

	mu          sync.Mutex
	state       *State
	graph       *Graph
	checkpoints Checkpointer // may be nil
}

// HandleTurn runs one full state-machine pass for a completed user turn and
// returns the assistant reply. The durable checkpoint is written through
// best-effort: a store failure is logged, never surfaced to the caller.
func (s *Session) HandleTurn(ctx context.Context, userText string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	reply := s.graph.Run(ctx, s.state, userText)
	if s.checkpoints != nil {
		if err := s.checkpoints.Put(ctx, s.ID, s.state); err != nil {
			log.Printf("[%s] checkpoint put failed: %v", s.ID, err)
		}
	}
	return reply
}

// ConsentGranted reports the consent latch. Read-only snapshot.
func (s *Session) ConsentGranted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Consent
}

// Anchor returns the current product anchor. Read-only snapshot.
func (s *Session) Anchor() ProductContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Product
}

// Registry maps call/session identifiers to their sessions. It is the only
// cross-call shared structure; its operations are get-or-create and remove.
type Registry struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	graph       *Graph
	checkpoints Checkpointer
}

// NewRegistry builds a registry around the shared graph. checkpoints may be
// nil for a purely in-memory tier.
func NewRegistry(graph *Graph, checkpoints Checkpointer) *Registry {
	return &Registry{
		sessions:    make(map[string]*Session),
		graph:       graph,
		checkpoints: checkpoints,
	}
}

// GetOrCreate returns the session for id, creating it on first contact. A
// miss consults the durable tier before minting fresh state. preConsented
// marks sessions created on the sync text path, which skip the consent gate.
func (r *Registry) GetOrCreate(ctx context.Context, id string, preConsented bool) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s
	}

	var st *State
	if r.checkpoints != nil {
		restored, ok, err := r.checkpoints.Get(ctx, id)
		if err != nil {
			log.Printf("[%s] checkpoint get failed: %v", id, err)
		} else if ok {
			st = restored
		}
	}
	if st == nil {
		st = NewState(PersonaPrompt)
		if preConsented {
			st.Consent = true
		}
	}

	s := &Session{ID: id, state: st, graph: r.graph, checkpoints: r.checkpoints}
	r.sessions[id] = s
	return s
}

// Remove drops the in-memory entry for id. The durable checkpoint, if any,
// survives so a later reconnect restores the conversation.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}
