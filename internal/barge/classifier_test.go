package barge

import "testing"

func TestClassify_CriticalWinsOverBackchannelAdjacency(t *testing.T) {
	c := NewClassifier(DefaultSpanish())
	// "no" alone sits next to backchannel-looking tokens, but the
	// first-two-words critical check must dominate every other rule.
	cases := []string{"no, espera", "no sigue", "espera", "pero dime una cosa"}
	for _, in := range cases {
		if got := c.Classify(in); got != Interrupt {
			t.Fatalf("Classify(%q) = %s, want interrupt", in, got)
		}
	}
}

func TestClassify_BackchannelSuppression(t *testing.T) {
	c := NewClassifier(DefaultSpanish())
	cases := []string{"ajá", "aja", "mmmm", "mmmmmm", "ehh", "hmm", "ok", "claro", "entiendo"}
	for _, in := range cases {
		if got := c.Classify(in); got != Ignore {
			t.Fatalf("Classify(%q) = %s, want ignore", in, got)
		}
	}
}

func TestClassify_MultiWordPhrasesInterrupt(t *testing.T) {
	c := NewClassifier(DefaultSpanish())
	// Substantive phrases that are not backchannel carry turn-taking intent.
	if got := c.Classify("me gustaría ver vestidos"); got != Interrupt {
		t.Fatalf("expected interrupt for multi-word phrase, got %s", got)
	}
}

func TestClassify_SingleQuestionWord(t *testing.T) {
	c := NewClassifier(DefaultSpanish())
	if got := c.Classify("¿cómo?"); got != Interrupt {
		t.Fatalf("expected interrupt for question word, got %s", got)
	}
}

func TestClassify_EmptyAndNoise(t *testing.T) {
	c := NewClassifier(DefaultSpanish())
	for _, in := range []string{"", "   ", "...", "x"} {
		if got := c.Classify(in); got != Ignore {
			t.Fatalf("Classify(%q) = %s, want ignore", in, got)
		}
	}
}

func TestClassify_NormalizationIdempotent(t *testing.T) {
	c := NewClassifier(DefaultSpanish())
	pairs := [][2]string{
		{"HOLA.", "hola"},
		{"Ajá...", "ajá"},
		{"No, ESPERA!", "no espera"},
	}
	for _, p := range pairs {
		if a, b := c.Classify(p[0]), c.Classify(p[1]); a != b {
			t.Fatalf("classification differs for %q (%s) vs %q (%s)", p[0], a, p[1], b)
		}
	}
}
