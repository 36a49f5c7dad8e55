// Package simulation holds the domain aggregates for one vishing training
// run: the session, its exchanges, alerts, and the evaluation produced at the
// end of the call.
package simulation

import (
	"time"

	"github.com/guardline/vishsim/internal/analysis/tactic"
)

// CallState tracks where the simulated call is in its lifecycle.
type CallState string

const (
	CallIncoming CallState = "incoming"
	CallActive   CallState = "active"
	CallEnded    CallState = "ended"
)

// Exchange is one adversary-message / trainee-response pair. The adversary
// message and tactic are fixed at creation; the trainee side is filled in as
// their turn completes.
type Exchange struct {
	ID               string            `json:"id"`
	Timestamp        time.Time         `json:"timestamp"`
	AdversaryMessage string            `json:"adversaryMessage"`
	TraineeResponse  string            `json:"traineeResponse"`
	Tactic           tactic.Tactic     `json:"tactic"`
	GoodChoice       bool              `json:"goodChoice"`
	ResponseSeconds  float64           `json:"responseSeconds"`
	Context          map[string]string `json:"context,omitempty"`
}

// Session is the aggregate root of one simulation run. It exclusively owns
// its exchanges and alerts.
type Session struct {
	ID          string          `json:"id"`
	TraineeID   string          `json:"traineeId"`
	ScenarioID  string          `json:"scenarioId"`
	State       CallState       `json:"state"`
	StartedAt   time.Time       `json:"startedAt"`
	EndedAt     time.Time       `json:"endedAt,omitempty"`
	Exchanges   []Exchange      `json:"exchanges"`
	TacticsUsed []tactic.Tactic `json:"tacticsUsed"`
	Alerts      []SecurityAlert `json:"alerts"`
	CurrentNode string          `json:"currentNode,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Duration reports call length, zero while the call is still open.
func (s *Session) Duration() time.Duration {
	if s.EndedAt.IsZero() {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// SuccessRate is the fraction of completed exchanges where the trainee made a
// security-positive choice. Exchanges still awaiting a trainee response do
// not count.
func (s *Session) SuccessRate() float64 {
	total := 0
	good := 0
	for _, ex := range s.Exchanges {
		if ex.TraineeResponse == "" {
			continue
		}
		total++
		if ex.GoodChoice {
			good++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(good) / float64(total)
}

// ChoiceHistory returns the trainee's good/bad choice sequence for completed
// exchanges, oldest first.
func (s *Session) ChoiceHistory() []bool {
	choices := make([]bool, 0, len(s.Exchanges))
	for _, ex := range s.Exchanges {
		if ex.TraineeResponse == "" {
			continue
		}
		choices = append(choices, ex.GoodChoice)
	}
	return choices
}

// LastExchange returns the most recent exchange, nil when none exist.
func (s *Session) LastExchange() *Exchange {
	if len(s.Exchanges) == 0 {
		return nil
	}
	return &s.Exchanges[len(s.Exchanges)-1]
}

// HasUsedTactic reports whether the caller has employed the given tactic at
// any point this session.
func (s *Session) HasUsedTactic(t tactic.Tactic) bool {
	for _, used := range s.TacticsUsed {
		if used == t {
			return true
		}
	}
	return false
}
