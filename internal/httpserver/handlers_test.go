package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/agent"
	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/barge"
	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/llm"
	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/rag"
	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/voice"
)

type fakeRetriever struct {
	result rag.Result
}

func (f *fakeRetriever) Retrieve(ctx context.Context, q, anchor string) rag.Result {
	return f.result
}

type fakeLLM struct{}

func (fakeLLM) Chat(ctx context.Context, msgs []llm.Message) (string, error) {
	return "respuesta", nil
}

func (fakeLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("not used")
}

type fakeProbe struct {
	err error
}

func (f fakeProbe) Ping(ctx context.Context) error { return f.err }

func newTestServer(t *testing.T, probe DBProbe) http.Handler {
	t.Helper()
	graph := agent.NewGraph(
		agent.NewResolver(),
		&fakeRetriever{result: rag.Result{Answer: "Tenemos batas de encaje.", Direct: true}},
		agent.NewSynthesizer(fakeLLM{}),
	)
	registry := agent.NewRegistry(graph, nil)
	voiceHandler := voice.NewHandler(registry, barge.NewClassifier(barge.DefaultSpanish()))
	e := New()
	NewHandlers(registry, voiceHandler, voice.NewTokenClient("", "m", "v", "p"), probe).Register(e)
	return e
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, fakeProbe{})
	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body healthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Database != "connected" {
		t.Fatalf("unexpected health body: %+v", body)
	}
}

func TestHealth_DatabaseDown(t *testing.T) {
	srv := newTestServer(t, fakeProbe{err: errors.New("refused")})
	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("health must stay 200 with db down, got %d", w.Code)
	}

	var body healthResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Database != "disconnected" {
		t.Fatalf("expected disconnected, got %+v", body)
	}
}

func TestChat(t *testing.T) {
	srv := newTestServer(t, fakeProbe{})
	payload := `{"message":"tienes batas de encaje","session_id":"web-1"}`
	r := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(payload))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body chatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	// Pre-consented path: the first message already reaches the catalog.
	if !strings.Contains(body.Reply, "batas") {
		t.Fatalf("expected catalog answer, got %q", body.Reply)
	}
	if body.SessionID != "web-1" {
		t.Fatalf("session id must round-trip, got %q", body.SessionID)
	}
}

func TestChat_GeneratesSessionID(t *testing.T) {
	srv := newTestServer(t, fakeProbe{})
	r := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hola"}`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)

	var body chatResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.SessionID == "" {
		t.Fatalf("missing session id must be generated")
	}
}

func TestChat_BadRequest(t *testing.T) {
	srv := newTestServer(t, fakeProbe{})
	r := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"session_id":"web-1"}`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty message must be rejected, got %d", w.Code)
	}
}

func TestCallToken_ProviderUnavailable(t *testing.T) {
	srv := newTestServer(t, fakeProbe{})
	r := httptest.NewRequest(http.MethodPost, "/call-token", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 without provider credentials, got %d", w.Code)
	}
}
