package agent

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one conversation message. Turns are append-only: once added to a
// state they are never rewritten.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// ProductContext is the conversational anchor: the product currently under
// discussion, carried across turns so elliptical follow-ups ("¿y el precio?")
// resolve against it. All fields optional; a zero value means no anchor.
type ProductContext struct {
	ProductName string `json:"product_name,omitempty"`
	Category    string `json:"category,omitempty"`
	Price       string `json:"price,omitempty"`
}

// Empty reports whether no anchor has been established.
func (p ProductContext) Empty() bool {
	return p.ProductName == "" && p.Category == "" && p.Price == ""
}

// State is the per-session conversation state. It is owned exclusively by one
// session: the registry hands out one State per call/session identifier and
// only that session touches it.
type State struct {
	Messages []Turn         `json:"messages"`
	Consent  bool           `json:"consent"`
	Product  ProductContext `json:"product_context"`
}

// NewState returns a fresh state seeded with the persona system turn.
func NewState(systemPrompt string) *State {
	s := &State{}
	if systemPrompt != "" {
		s.Messages = append(s.Messages, Turn{Role: RoleSystem, Text: systemPrompt})
	}
	return s
}

func (s *State) append(role Role, text string) {
	s.Messages = append(s.Messages, Turn{Role: role, Text: text})
}

// RecentHistory returns up to n of the most recent user/assistant turns,
// skipping the system turn.
func (s *State) RecentHistory(n int) []Turn {
	var hist []Turn
	for _, t := range s.Messages {
		if t.Role == RoleSystem {
			continue
		}
		hist = append(hist, t)
	}
	if len(hist) > n {
		hist = hist[len(hist)-n:]
	}
	return hist
}
