// Package voice drives the realtime call transport: one websocket per call,
// Retell-style JSON events in both directions.
package voice

import (
	"encoding/json"
	"strings"
)

// inboundEvent is what the voice platform sends us. Transcript is either a
// plain string or an array of utterance objects, so it stays raw until
// extractText flattens it.
type inboundEvent struct {
	InteractionType string          `json:"interaction_type"`
	Timestamp       json.RawMessage `json:"timestamp,omitempty"`
	Transcript      json.RawMessage `json:"transcript,omitempty"`
	ResponseID      int             `json:"response_id,omitempty"`
}

// pingPongEvent echoes the platform's keepalive with the original timestamp.
type pingPongEvent struct {
	InteractionType string          `json:"interaction_type"`
	Timestamp       json.RawMessage `json:"timestamp"`
}

// clearEvent tells the platform to stop playing agent audio immediately.
type clearEvent struct {
	InteractionType string `json:"interaction_type"`
}

// responseEvent carries one chunk of agent speech. A turn is a sequence of
// these sharing a response_id: filler and answer chunks with
// content_complete=false, then a final empty chunk with content_complete=true.
type responseEvent struct {
	ResponseID      int    `json:"response_id"`
	Content         string `json:"content"`
	ContentComplete bool   `json:"content_complete"`
	EndCall         bool   `json:"end_call"`
}

type utterance struct {
	Content string `json:"content"`
}

// extractText flattens a transcript payload to a plain string. The platform
// sends either a string or an array of {content} objects.
func extractText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var items []utterance
	if err := json.Unmarshal(raw, &items); err != nil {
		return ""
	}
	parts := make([]string, 0, len(items))
	for _, it := range items {
		if it.Content != "" {
			parts = append(parts, it.Content)
		}
	}
	return strings.Join(parts, " ")
}
