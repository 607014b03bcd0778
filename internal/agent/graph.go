package agent

import (
	"context"
	"strings"

	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/rag"
)

// Retriever is the grounded-search dependency of the knowledge-consult node.
type Retriever interface {
	Retrieve(ctx context.Context, searchQuery, anchor string) rag.Result
}

// Graph is the two-node dialogue state machine: a consent gate followed by
// the knowledge-consult path. It executes exactly one full pass per inbound
// user turn and appends exactly the new assistant turn(s) to the state.
type Graph struct {
	resolver  *Resolver
	retriever Retriever
	synth     *Synthesizer
}

// NewGraph wires the state machine.
func NewGraph(resolver *Resolver, retriever Retriever, synth *Synthesizer) *Graph {
	return &Graph{resolver: resolver, retriever: retriever, synth: synth}
}

// Run processes one user turn against the session state and returns the
// assistant reply. The state is mutated in place (append-only messages,
// consent latch, anchor update); the caller owns the state exclusively.
func (g *Graph) Run(ctx context.Context, st *State, userText string) string {
	st.append(RoleUser, userText)

	if !st.Consent {
		reply := g.checkConsent(st, userText)
		st.append(RoleAssistant, reply)
		return reply
	}

	reply := g.consultKnowledge(ctx, st, userText)
	st.append(RoleAssistant, reply)
	return reply
}

// checkConsent latches consent on an affirmative token. There is no path
// back: once granted, the gate never re-closes for the session.
func (g *Graph) checkConsent(st *State, userText string) string {
	if strings.Contains(strings.ToLower(userText), "acepto") {
		st.Consent = true
		return consentGrantedMessage
	}
	return consentRequestMessage
}

// consultKnowledge runs resolver -> retrieval -> synthesis and folds the
// context update into the anchor.
func (g *Graph) consultKnowledge(ctx context.Context, st *State, userText string) string {
	res := g.resolver.Resolve(userText, st.Product)
	if res.Greeting {
		return res.Reply
	}

	anchor := st.Product.ProductName
	if res.Reset {
		st.Product = ProductContext{}
		anchor = ""
	}

	result := g.retriever.Retrieve(ctx, res.SearchQuery, anchor)
	g.applyContext(st, result.Context)

	if result.Direct {
		return result.Answer
	}
	return g.synth.Synthesize(ctx, userText, result.Answer, st.RecentHistory(historyWindow))
}

// applyContext folds a retrieval update into the anchor: an update naming a
// product replaces the anchor wholesale, anything else merges field-wise.
func (g *Graph) applyContext(st *State, update rag.Context) {
	if update.Empty() {
		return
	}
	if update.ProductName != "" {
		st.Product = ProductContext{
			ProductName: update.ProductName,
			Category:    update.Category,
			Price:       update.Price,
		}
		return
	}
	if update.Category != "" {
		st.Product.Category = update.Category
	}
	if update.Price != "" {
		st.Product.Price = update.Price
	}
}
