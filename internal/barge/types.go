package barge

// Decision is the outcome of classifying a partial transcript while the
// agent is speaking.
type Decision int

const (
	// Ignore: backchannel or noise; keep speaking.
	Ignore Decision = iota
	// Interrupt: the user is taking the turn; stop agent audio immediately.
	Interrupt
)

func (d Decision) String() string {
	if d == Interrupt {
		return "interrupt"
	}
	return "ignore"
}

// Lexicons holds the word sets the classifier votes with. Each set is
// injected so it can be tuned and tested independently.
type Lexicons struct {
	// CriticalInterrupts wins over everything else when one of the first two
	// words matches: turn-taking markers, negations, explicit requests.
	CriticalInterrupts map[string]struct{}
	// Backchannels are acknowledgment tokens that must never cut the agent off.
	Backchannels map[string]struct{}
	// QuestionWords catch single-word questions ("¿cuánto?").
	QuestionWords []string
}

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// DefaultSpanish returns the lexicons tuned for Latin-American Spanish
// retail calls.
func DefaultSpanish() Lexicons {
	return Lexicons{
		CriticalInterrupts: set(
			"pero", "espera", "oye", "disculpa", "perdona", "para", "detente",
			"no", "quiero", "necesito", "busco", "pregunta", "dime", "cuánto",
			"precio", "talla", "tienes", "hola", "stop",
		),
		Backchannels: set(
			"ajá", "aja", "mmm", "uh", "eh", "sí", "si", "ok", "vale", "claro",
			"perfecto", "bien", "ya", "entiendo", "uh huh", "uhhuh", "hmm",
			"bueno", "dale", "fino", "listo", "venga",
		),
		QuestionWords: []string{"qué", "quien", "cuál", "cuanto", "dónde", "cómo"},
	}
}
