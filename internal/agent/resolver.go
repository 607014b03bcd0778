package agent

import "strings"

// Resolution is the outcome of resolving a raw user utterance against the
// current product anchor.
type Resolution struct {
	// Greeting short-circuits the turn: Reply is sent verbatim and no
	// search is performed.
	Greeting bool
	Reply    string

	// SearchQuery is the self-contained query for the retrieval pipeline.
	SearchQuery string
	// Reset is true when a topic change was detected; the anchor must be
	// dropped before searching.
	Reset bool
}

// Resolver rewrites ambiguous queries into self-contained search queries
// using the running product anchor. It only ever reads the anchor; mutation
// happens downstream when the retrieval result comes back.
type Resolver struct {
	greetings        []string
	resetKeywords    []string
	implicitKeywords []string
	greetingReply    string
}

// NewResolver builds a resolver with the default Spanish lexicons.
func NewResolver() *Resolver {
	return &Resolver{
		greetings: []string{"hola", "buenos días", "buenas tardes", "buenas", "qué tal", "hello"},
		resetKeywords: []string{
			"otro", "otra", "diferente", "qué más", "aparte",
			"tienes pijama", "tienes lencería", "quiero ver",
		},
		implicitKeywords: []string{
			"precio", "cuesta", "vale", "talle", "talla", "color", "tela",
			"material", "descripción", "ese", "esa", "este", "tienes",
			"batas", "medias",
		},
		greetingReply: "¡Hola! Qué gusto saludarte, soy Sofía de Civetta. ¿En qué puedo ayudarte hoy?",
	}
}

// Resolve takes the raw transcript and the prior anchor and produces the
// search query and reset flag. The transport may deliver an accumulated
// transcript, so only the last sentence-like segment is considered.
func (r *Resolver) Resolve(rawQuery string, prior ProductContext) Resolution {
	segment := lastSegment(rawQuery)
	lower := strings.ToLower(segment)

	if r.isGreeting(lower) {
		return Resolution{Greeting: true, Reply: r.greetingReply}
	}

	reset := containsAny(lower, r.resetKeywords)

	anchor := prior.ProductName
	if reset {
		anchor = ""
	}

	query := segment
	if anchor != "" && containsAny(lower, r.implicitKeywords) {
		// Disambiguate elliptical follow-ups so the store finds the
		// exact product.
		query = segment + " (producto: " + anchor + ")"
	}
	return Resolution{SearchQuery: query, Reset: reset}
}

// lastSegment splits on sentence terminators and returns the last non-empty
// clause; the newest clause is the semantically relevant one.
func lastSegment(raw string) string {
	parts := strings.FieldsFunc(raw, func(c rune) bool {
		return c == '.' || c == '?' || c == '!'
	})
	for i := len(parts) - 1; i >= 0; i-- {
		if p := strings.TrimSpace(parts[i]); p != "" {
			return p
		}
	}
	return strings.TrimSpace(raw)
}

func (r *Resolver) isGreeting(lower string) bool {
	trimmed := strings.TrimSpace(lower)
	for _, g := range r.greetings {
		if trimmed == g {
			return true
		}
	}
	if len(strings.Fields(trimmed)) <= 2 && strings.Contains(trimmed, "hola") {
		return true
	}
	return false
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
