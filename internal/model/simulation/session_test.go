package simulation_test

import (
	"testing"
	"time"

	"github.com/guardline/vishsim/internal/analysis/tactic"
	"github.com/guardline/vishsim/internal/model/simulation"
)

func TestSuccessRateIgnoresOpenExchanges(t *testing.T) {
	session := &simulation.Session{Exchanges: []simulation.Exchange{
		{TraineeResponse: "verify first", GoodChoice: true},
		{TraineeResponse: "sure, go ahead", GoodChoice: false},
		{AdversaryMessage: "still waiting on a reply"},
	}}

	if rate := session.SuccessRate(); rate != 0.5 {
		t.Fatalf("SuccessRate = %v, want 0.5", rate)
	}
	if history := session.ChoiceHistory(); len(history) != 2 || !history[0] || history[1] {
		t.Fatalf("ChoiceHistory = %v, want [true false]", history)
	}
}

func TestSuccessRateEmptySession(t *testing.T) {
	session := &simulation.Session{}
	if rate := session.SuccessRate(); rate != 0 {
		t.Fatalf("SuccessRate = %v, want 0", rate)
	}
	if last := session.LastExchange(); last != nil {
		t.Fatalf("LastExchange = %+v, want nil", last)
	}
}

func TestDuration(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	session := &simulation.Session{StartedAt: start}
	if d := session.Duration(); d != 0 {
		t.Fatalf("open session duration = %v, want 0", d)
	}

	session.EndedAt = start.Add(7 * time.Minute)
	if d := session.Duration(); d != 7*time.Minute {
		t.Fatalf("duration = %v, want 7m", d)
	}
}

func TestHasUsedTactic(t *testing.T) {
	session := &simulation.Session{TacticsUsed: []tactic.Tactic{tactic.Authority, tactic.Urgency}}
	if !session.HasUsedTactic(tactic.Urgency) {
		t.Fatal("urgency reported unused")
	}
	if session.HasUsedTactic(tactic.Fear) {
		t.Fatal("fear reported used")
	}
}
