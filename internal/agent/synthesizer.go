package agent

import (
	"context"
	"log"

	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/llm"
)

// historyWindow is how many recent turns ride along in the prompt. Enough
// for pronoun continuity, small enough to keep latency down.
const historyWindow = 6

// Synthesizer is the persona layer: it reformulates already-grounded facts
// into Sofía's voice. It adds no facts of its own; that discipline lives in
// the persona prompt and is covered by output-pattern tests.
type Synthesizer struct {
	client llm.Client
}

// NewSynthesizer wraps the model client.
func NewSynthesizer(client llm.Client) *Synthesizer {
	return &Synthesizer{client: client}
}

// Synthesize produces the persona-constrained reply for one turn. It never
// fails: a provider error degrades to a fixed stalling phrase so the call
// continues.
func (s *Synthesizer) Synthesize(ctx context.Context, userQuery, grounding string, history []Turn) string {
	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: PersonaPrompt})
	for _, t := range history {
		msgs = append(msgs, llm.Message{Role: string(t.Role), Content: t.Text})
	}
	msgs = append(msgs, llm.Message{
		Role: llm.RoleUser,
		Content: "Pregunta de la clienta: " + userQuery +
			"\n\nInformación del catálogo de Civetta (usa EXACTAMENTE estos datos, de forma elegante y breve):\n" +
			grounding,
	})

	reply, err := s.client.Chat(ctx, msgs)
	if err != nil {
		log.Printf("synthesizer: llm call failed: %v", err)
		return stallingPhrase
	}
	if reply == "" {
		return stallingPhrase
	}
	return reply
}
