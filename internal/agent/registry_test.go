package agent

import (
	"context"
	"testing"

	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/rag"
)

func ragDirect(answer string) rag.Result {
	return rag.Result{Answer: answer, Direct: true}
}

type memCheckpoints struct {
	states map[string]State
	puts   int
}

func newMemCheckpoints() *memCheckpoints {
	return &memCheckpoints{states: make(map[string]State)}
}

func (m *memCheckpoints) Get(ctx context.Context, threadID string) (*State, bool, error) {
	st, ok := m.states[threadID]
	if !ok {
		return nil, false, nil
	}
	cp := st
	return &cp, true, nil
}

func (m *memCheckpoints) Put(ctx context.Context, threadID string, st *State) error {
	m.puts++
	m.states[threadID] = *st
	return nil
}

func TestRegistry_GetOrCreate(t *testing.T) {
	reg := NewRegistry(newTestGraph(&fakeRetriever{}, &fakeLLM{}), nil)

	s1 := reg.GetOrCreate(context.Background(), "call-1", false)
	s2 := reg.GetOrCreate(context.Background(), "call-1", false)
	if s1 != s2 {
		t.Fatalf("same id must return the same session")
	}
	if s1.ConsentGranted() {
		t.Fatalf("voice sessions start before consent")
	}

	s3 := reg.GetOrCreate(context.Background(), "web-1", true)
	if !s3.ConsentGranted() {
		t.Fatalf("pre-consented sessions skip the gate")
	}
}

func TestRegistry_CheckpointRestore(t *testing.T) {
	cps := newMemCheckpoints()
	st := NewState(PersonaPrompt)
	st.Consent = true
	st.Product = ProductContext{ProductName: "Bata Encaje"}
	st.append(RoleUser, "tienes batas")
	cps.states["call-9"] = *st

	reg := NewRegistry(newTestGraph(&fakeRetriever{}, &fakeLLM{}), cps)
	s := reg.GetOrCreate(context.Background(), "call-9", false)
	if !s.ConsentGranted() {
		t.Fatalf("restored session lost consent")
	}
	if s.Anchor().ProductName != "Bata Encaje" {
		t.Fatalf("restored session lost anchor, got %+v", s.Anchor())
	}
}

func TestRegistry_RemoveKeepsDurableState(t *testing.T) {
	cps := newMemCheckpoints()
	reg := NewRegistry(newTestGraph(&fakeRetriever{result: ragDirect("ok")}, &fakeLLM{}), cps)

	s := reg.GetOrCreate(context.Background(), "call-2", true)
	_ = s.HandleTurn(context.Background(), "tienes pijamas")
	if cps.puts == 0 {
		t.Fatalf("turn must write through to checkpoints")
	}

	reg.Remove("call-2")
	if _, ok, _ := cps.Get(context.Background(), "call-2"); !ok {
		t.Fatalf("remove must not discard the durable checkpoint")
	}

	// A fresh lookup rehydrates from the checkpoint, not a blank state.
	s2 := reg.GetOrCreate(context.Background(), "call-2", false)
	if !s2.ConsentGranted() {
		t.Fatalf("rehydrated session lost consent")
	}
}

func TestSession_HandleTurnSerialized(t *testing.T) {
	reg := NewRegistry(newTestGraph(&fakeRetriever{result: ragDirect("respuesta")}, &fakeLLM{}), nil)
	s := reg.GetOrCreate(context.Background(), "web-7", true)

	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			_ = s.HandleTurn(context.Background(), "tienes pijamas")
			done <- struct{}{}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}
}
