package checkpoint

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/agent"
)

// MemoryStore holds checkpoints in process memory. It is the fallback when
// no Supabase credentials are configured, and it is what the tests use.
type MemoryStore struct {
	mu     sync.Mutex
	states map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string][]byte)}
}

func (m *MemoryStore) Get(ctx context.Context, threadID string) (*agent.State, bool, error) {
	m.mu.Lock()
	raw, ok := m.states[threadID]
	m.mu.Unlock()
	if !ok {
		return nil, false, nil
	}

	var st agent.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, false, err
	}
	return &st, true, nil
}

func (m *MemoryStore) Put(ctx context.Context, threadID string, st *agent.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.states[threadID] = raw
	m.mu.Unlock()
	return nil
}
