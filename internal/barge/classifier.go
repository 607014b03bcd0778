package barge

import (
	"regexp"
	"strings"
	"unicode"
)

// fillerPattern matches elongated listening sounds ("mmmm", "ajaaa", "ehh").
var fillerPattern = regexp.MustCompile(`^(a+j+a+|m+m+|u+h+|e+h+|h+m+)$`)

// Classifier decides, from a partial transcript, whether the user is barging
// in on agent speech or merely backchanneling. It is purely functional and
// must stay well under a millisecond per call: its output gates the clear
// signal that stops agent audio.
type Classifier struct {
	lex Lexicons
}

// NewClassifier builds a classifier around the given lexicons.
func NewClassifier(lex Lexicons) *Classifier {
	return &Classifier{lex: lex}
}

// Classify applies the decision rules in strict priority order:
//
//  1. a critical-interrupt word among the first two words always interrupts
//  2. backchannel tokens and filler sounds are ignored
//  3. two or more words of anything else is assumed to carry turn-taking intent
//  4. a lone question word interrupts
//  5. everything else is ignored
func (c *Classifier) Classify(transcript string) Decision {
	t := normalize(transcript)
	if t == "" {
		return Ignore
	}

	words := strings.Fields(t)
	head := words
	if len(head) > 2 {
		head = head[:2]
	}
	for _, w := range head {
		if _, ok := c.lex.CriticalInterrupts[w]; ok {
			return Interrupt
		}
	}

	if _, ok := c.lex.Backchannels[t]; ok {
		return Ignore
	}
	if fillerPattern.MatchString(t) {
		return Ignore
	}

	if len(words) >= 2 {
		return Interrupt
	}

	for _, q := range c.lex.QuestionWords {
		if strings.Contains(t, q) {
			return Interrupt
		}
	}
	return Ignore
}

// normalize lowercases and strips punctuation so "HOLA." and "hola" classify
// identically.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsPunct(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
