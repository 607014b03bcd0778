package voice

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/agent"
	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/barge"
)

const stillTherePrompt = "¿Hola? ¿Sigues ahí?"

// chunkPause keeps the socket buffer from saturating while streaming chunks.
const chunkPause = 10 * time.Millisecond

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  65536,
	WriteBufferSize: 65536,
	CheckOrigin: func(r *http.Request) bool {
		// Allow any origin for demo use; restrict in production
		return true
	},
}

// Handler serves the per-call websocket. Each connection gets its own session
// from the registry; the read loop is the only goroutine touching it, so
// events for one call are handled strictly in arrival order.
type Handler struct {
	registry   *agent.Registry
	classifier *barge.Classifier
}

func NewHandler(registry *agent.Registry, classifier *barge.Classifier) *Handler {
	return &Handler{registry: registry, classifier: classifier}
}

// ServeWebSocket upgrades the connection and runs the call loop until the
// platform disconnects.
func (h *Handler) ServeWebSocket(w http.ResponseWriter, r *http.Request, callID string) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[%s] ws upgrade error: %v", callID, err)
		return
	}
	defer func() { _ = conn.Close() }()

	log.Printf("[%s] call connected", callID)
	sess := h.registry.GetOrCreate(r.Context(), callID, false)
	defer func() {
		h.registry.Remove(callID)
		log.Printf("[%s] call disconnected", callID)
	}()

	for {
		mt, data, rerr := conn.ReadMessage()
		if rerr != nil {
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		var ev inboundEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			log.Printf("[%s] dropping malformed event: %v", callID, err)
			continue
		}

		switch ev.InteractionType {
		case "ping_pong":
			_ = conn.WriteJSON(pingPongEvent{InteractionType: "ping_pong", Timestamp: ev.Timestamp})

		case "update_only":
			transcript := extractText(ev.Transcript)
			if transcript == "" {
				continue
			}
			if h.classifier.Classify(transcript) == barge.Interrupt {
				log.Printf("[%s] interruption: %s", callID, transcript)
				_ = conn.WriteJSON(clearEvent{InteractionType: "clear"})
			}

		case "response_required":
			h.respond(r.Context(), conn, callID, sess, ev)
		}
	}
}

func (h *Handler) respond(ctx context.Context, conn *websocket.Conn, callID string, sess *agent.Session, ev inboundEvent) {
	transcript := strings.TrimSpace(extractText(ev.Transcript))
	log.Printf("[%s] user said: %s", callID, transcript)

	if transcript == "" {
		_ = conn.WriteJSON(responseEvent{
			ResponseID:      ev.ResponseID,
			Content:         stillTherePrompt,
			ContentComplete: true,
		})
		return
	}

	// Speak a conversational marker right away so the voice starts within
	// ~100ms while the retrieval pass runs behind it.
	_ = conn.WriteJSON(responseEvent{
		ResponseID: ev.ResponseID,
		Content:    fillerFor(transcript),
	})

	reply := sess.HandleTurn(ctx, transcript)

	for _, chunk := range splitForSpeech(reply) {
		if err := conn.WriteJSON(responseEvent{
			ResponseID: ev.ResponseID,
			Content:    chunk + " ",
		}); err != nil {
			return
		}
		time.Sleep(chunkPause)
	}

	_ = conn.WriteJSON(responseEvent{
		ResponseID:      ev.ResponseID,
		Content:         "",
		ContentComplete: true,
	})
	log.Printf("[%s] sent complete response for id %d", callID, ev.ResponseID)
}

// fillerFor picks the immediate marker that best matches the request so the
// stall does not sound canned.
func fillerFor(transcript string) string {
	lower := strings.ToLower(transcript)
	switch {
	case strings.Contains(lower, "por favor") || strings.Contains(lower, "podrías") || strings.Contains(lower, "quiero"):
		return "Claro... "
	case strings.Contains(lower, "precio") || strings.Contains(lower, "cuánto") ||
		strings.Contains(lower, "talla") || strings.Contains(lower, "stock"):
		return "Permíteme verificarlo... "
	default:
		return "Entiendo... "
	}
}

// splitForSpeech fragments a reply on clause boundaries so the TTS engine
// renders prosody per clause instead of one long run.
func splitForSpeech(text string) []string {
	marked := text
	for _, sep := range []string{",", ".", "!", "?"} {
		marked = strings.ReplaceAll(marked, sep, sep+"|")
	}
	marked = strings.ReplaceAll(marked, "\n", "|")

	var chunks []string
	for _, part := range strings.Split(marked, "|") {
		if clean := strings.TrimSpace(part); clean != "" {
			chunks = append(chunks, clean)
		}
	}
	return chunks
}
