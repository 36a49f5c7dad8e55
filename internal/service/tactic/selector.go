// Package tactic decides which manipulation tactic the synthetic caller
// employs next and how hard it should be pressing.
package tactic

import (
	"strings"

	analysis "github.com/guardline/vishsim/internal/analysis/tactic"
	"github.com/guardline/vishsim/internal/model/simulation"
)

// Selector picks the next tactic for a session. Stateless; all state lives on
// the session.
type Selector struct{}

// NewSelector returns a Selector.
func NewSelector() *Selector {
	return &Selector{}
}

var (
	verificationCues = []string{"verify", "verification", "policy", "procedure", "protocol", "call back", "callback"}
	supervisorCues   = []string{"supervisor", "manager", "boss", "escalate"}
)

// Next chooses the tactic for the upcoming adversary message. Unused tactics
// are preferred; trainee language about verification steers toward Authority
// and supervisor talk toward Fear, with Urgency as the runner-up when the
// preferred pick is exhausted. Once every tactic has been used the caller
// cycles back to Authority and escalates instead of innovating.
func (s *Selector) Next(session *simulation.Session, traineeText string) analysis.Tactic {
	normalized := strings.ToLower(traineeText)

	if containsAny(normalized, verificationCues) {
		if t, ok := firstUnused(session, analysis.Authority, analysis.Urgency); ok {
			return t
		}
	}
	if containsAny(normalized, supervisorCues) {
		if t, ok := firstUnused(session, analysis.Fear, analysis.Urgency); ok {
			return t
		}
	}

	for _, t := range analysis.All {
		if !session.HasUsedTactic(t) {
			return t
		}
	}
	return analysis.Authority
}

// EscalationLevel computes the [1,5] intensity signal fed to the generator:
// it rises with call length and with every resistant (security-positive)
// trainee response. It is context for message tone, not a gate on tactic
// choice.
func (s *Selector) EscalationLevel(session *simulation.Session) int {
	resistant := 0
	for _, good := range session.ChoiceHistory() {
		if good {
			resistant++
		}
	}

	level := 1 + len(session.Exchanges) + 2*resistant
	if level > 5 {
		level = 5
	}
	if level < 1 {
		level = 1
	}
	return level
}

func firstUnused(session *simulation.Session, preferred ...analysis.Tactic) (analysis.Tactic, bool) {
	for _, t := range preferred {
		if !session.HasUsedTactic(t) {
			return t, true
		}
	}
	return "", false
}

func containsAny(text string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(text, cue) {
			return true
		}
	}
	return false
}
